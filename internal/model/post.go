package model

import "time"

type Post struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	AuthorUID string    `gorm:"size:128;index;not null"`
	Title     string    `gorm:"size:200;not null"`
	Body      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Post) TableName() string {
	return "posts"
}
