package model

import "time"

// ReplyAncestry is the precomputed lineage of a reply, created lazily the first
// time trickle resolution needs it and immutable afterwards. Author UIDs are
// denormalized so reversals never re-walk the tree.
type ReplyAncestry struct {
	ReplyID              uint64    `gorm:"primaryKey"`
	ParentReplyID        *uint64   `gorm:"index"`
	ParentAuthorUID      string    `gorm:"size:128"`
	GrandparentReplyID   *uint64
	GrandparentAuthorUID string    `gorm:"size:128"`
	RootPostID           uint64    `gorm:"not null"`
	RootAuthorUID        string    `gorm:"size:128;not null"`
	CreatedAt            time.Time `gorm:"autoCreateTime"`
}

func (ReplyAncestry) TableName() string {
	return "reply_ancestries"
}
