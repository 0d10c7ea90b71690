package model

import "time"

type Reply struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	PostID        uint64    `gorm:"index;not null"`
	AuthorUID     string    `gorm:"size:128;index;not null"`
	ParentReplyID *uint64   `gorm:"index"` // nil for a top-level reply
	Body          string    `gorm:"type:text;not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (Reply) TableName() string {
	return "replies"
}
