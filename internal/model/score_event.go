package model

import "time"

// Scale is the fixed-point factor for all point magnitudes. Fractional trickle
// amounts (quarters, halves) stay exact as scaled integers; conversion to human
// units happens only at presentation boundaries.
const Scale int64 = 1000

// PointsValue converts a scaled integer into display units.
func PointsValue(scaled int64) float64 {
	return float64(scaled) / float64(Scale)
}

type EventType string

const (
	EventPostCreated        EventType = "POST_CREATED"
	EventReplyCreated       EventType = "REPLY_CREATED"
	EventReactionReceived   EventType = "REACTION_RECEIVED"
	EventReactionRemoved    EventType = "REACTION_REMOVED"
	EventReactionEngagement EventType = "REACTION_ENGAGEMENT"
	EventTrickleParent      EventType = "TRICKLE_PARENT"
	EventTrickleGrandparent EventType = "TRICKLE_GRANDPARENT"
	EventTrickleRoot        EventType = "TRICKLE_ROOT"
	EventModApprovedBonus   EventType = "MOD_APPROVED_BONUS"
	EventModApprovedRev     EventType = "MOD_APPROVED_BONUS_REVERSAL"
	EventReportPenalty      EventType = "REPORT_CONFIRMED_PENALTY"
	EventReportConfirmedRwd EventType = "REPORT_CONFIRMED_REPORTER_REWARD"
	EventReportRejectedRwd  EventType = "REPORT_REJECTED_REPORTER_REWARD"
	EventStreak7            EventType = "STREAK_7"
	EventStreak30           EventType = "STREAK_30"
	EventStreak90           EventType = "STREAK_90"
	EventStreak180          EventType = "STREAK_180"
	EventStreak365          EventType = "STREAK_365"
	EventAdminAdjust        EventType = "ADMIN_ADJUST"
)

type RefType string

const (
	RefPost   RefType = "post"
	RefReply  RefType = "reply"
	RefReport RefType = "report"
	RefUser   RefType = "user"
	RefStreak RefType = "streak"
)

// ScoreEvent is an immutable ledger row. Rows are never mutated or deleted;
// corrections are new compensating rows.
type ScoreEvent struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	EventUUID   string    `gorm:"size:36;uniqueIndex;not null"`
	UserUID     string    `gorm:"size:128;index;not null"` // beneficiary
	ActorUID    string    `gorm:"size:128;not null"`       // triggering actor
	EventType   EventType `gorm:"size:40;index:idx_type_ref;not null"`
	DeltaPoints int64     `gorm:"not null"` // scaled by Scale
	RefType     RefType   `gorm:"size:16;index:idx_type_ref;not null"`
	RefID       uint64    `gorm:"index:idx_type_ref;not null"`
	Meta        string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

func (ScoreEvent) TableName() string {
	return "score_events"
}
