package model

import "time"

// ReplyClassification pins the classifier verdict for a reply the first time a
// vote needs it. Reversals reuse the stored label verbatim, so a
// non-deterministic classifier can never produce a mismatched inverse trickle.
type ReplyClassification struct {
	ReplyID    uint64    `gorm:"primaryKey"`
	Label      string    `gorm:"size:16;not null"`
	Confidence float64   `gorm:"not null"`
	Source     string    `gorm:"size:32;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (ReplyClassification) TableName() string {
	return "reply_classifications"
}
