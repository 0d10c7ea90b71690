package model

import "time"

// UserModerationStat counts approvals per author. It is a fast-path
// short-circuit for reversal checks, not authoritative on its own; the ledger is.
type UserModerationStat struct {
	UID          string    `gorm:"column:uid;primaryKey;size:128"`
	ModApprovals int64     `gorm:"not null;default:0"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (UserModerationStat) TableName() string {
	return "user_moderation_stats"
}
