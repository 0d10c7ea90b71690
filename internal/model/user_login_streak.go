package model

import "time"

// UserLoginStreak tracks consecutive login days. LastLoginDate is a calendar
// date in "2006-01-02" form so same-day logins compare without timezone drift.
type UserLoginStreak struct {
	UID           string    `gorm:"column:uid;primaryKey;size:128"`
	CurrentStreak int       `gorm:"not null;default:0"`
	LongestStreak int       `gorm:"not null;default:0"`
	LastLoginDate string    `gorm:"size:10"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (UserLoginStreak) TableName() string {
	return "user_login_streaks"
}
