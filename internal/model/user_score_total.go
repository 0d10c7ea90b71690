package model

import "time"

// UserScoreTotal is the materialized sum of all ScoreEvent deltas for a user,
// maintained in the same transaction as every ledger insert.
type UserScoreTotal struct {
	UID         string    `gorm:"column:uid;primaryKey;size:128"`
	TotalPoints int64     `gorm:"column:total_points;not null;default:0"` // scaled by Scale
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (UserScoreTotal) TableName() string {
	return "user_score_totals"
}
