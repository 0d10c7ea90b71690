package model

import "time"

type ReportStatus string

const (
	ReportOpen     ReportStatus = "open"
	ReportResolved ReportStatus = "resolved"
)

// Report is one user's report of one post. Multiple reporters produce multiple
// rows for the same post.
type Report struct {
	ID          uint64       `gorm:"primaryKey;autoIncrement"`
	PostID      uint64       `gorm:"index;not null"`
	ReporterUID string       `gorm:"size:128;not null"`
	Reason      string       `gorm:"size:500"`
	Status      ReportStatus `gorm:"size:16;not null;default:open"`
	CreatedAt   time.Time    `gorm:"autoCreateTime"`
}

func (Report) TableName() string {
	return "reports"
}
