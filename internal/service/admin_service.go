package service

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/threadline/threadline-backend/internal/model"
	"github.com/threadline/threadline-backend/internal/repository"
)

type AdminService interface {
	// Adjust records a direct, reason-tagged point change. A zero delta is a
	// silent no-op, never recorded.
	Adjust(ctx context.Context, targetUID, actorUID string, deltaPoints int64, reason string) error
}

type adminService struct {
	events repository.ScoreEventRepository
}

func NewAdminService(events repository.ScoreEventRepository) AdminService {
	return &adminService{events: events}
}

func (s *adminService) Adjust(ctx context.Context, targetUID, actorUID string, deltaPoints int64, reason string) error {
	if targetUID == "" {
		return errors.New("target user is required")
	}
	if deltaPoints == 0 {
		log.WithFields(log.Fields{"target": targetUID, "actor": actorUID}).Debug("zero-delta adjustment ignored")
		return nil
	}
	return s.events.RecordEvents(ctx, []*model.ScoreEvent{{
		UserUID:     targetUID,
		ActorUID:    actorUID,
		EventType:   model.EventAdminAdjust,
		DeltaPoints: deltaPoints,
		RefType:     model.RefUser,
		RefID:       0,
		Meta:        metaJSON(map[string]string{"reason": reason}),
	}})
}
