package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/threadline/threadline-backend/internal/model"
	"github.com/threadline/threadline-backend/internal/repository"
	"gorm.io/gorm"
)

type ReportDecision string

const (
	DecisionDeleted  ReportDecision = "deleted"
	DecisionWarned   ReportDecision = "warned"
	DecisionRetained ReportDecision = "retained"
)

var ErrUnknownDecision = errors.New("unknown report decision")

// errNoApproval reports that a reversal found no approval event to balance.
// Internal to the reversal flow; callers fall back to retry or recheck.
var errNoApproval = errors.New("no approval recorded")

// Moderation magnitudes, scaled.
const (
	pointsModBonus        = 3 * model.Scale
	pointsReportPenalty   = -5 * model.Scale
	pointsConfirmedReward = 2 * model.Scale
	pointsRejectedReward  = 1 * model.Scale
)

type ModerationService interface {
	Approve(ctx context.Context, postID uint64, moderatorUID string) error
	// Reverse undoes a prior approval bonus. It never errors to the caller on a
	// race with the approval; balance is restored by bounded retry or, failing
	// that, a single deferred recheck.
	Reverse(ctx context.Context, postID uint64, moderatorUID string) error
	ResolveReport(ctx context.Context, postID uint64, decision ReportDecision, moderatorUID string) error
}

type moderationService struct {
	events  repository.ScoreEventRepository
	stats   repository.ModerationStatRepository
	posts   repository.PostRepository
	reports repository.ReportRepository

	retryAttempts int
	retryDelay    time.Duration
	recheckDelay  time.Duration
}

func NewModerationService(
	events repository.ScoreEventRepository,
	stats repository.ModerationStatRepository,
	posts repository.PostRepository,
	reports repository.ReportRepository,
) ModerationService {
	return &moderationService{
		events:        events,
		stats:         stats,
		posts:         posts,
		reports:       reports,
		retryAttempts: 5,
		retryDelay:    20 * time.Millisecond,
		recheckDelay:  300 * time.Millisecond,
	}
}

func (s *moderationService) Approve(ctx context.Context, postID uint64, moderatorUID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	approvals, err := s.events.CountForUser(ctx, post.AuthorUID, model.EventModApprovedBonus, model.RefPost, postID)
	if err != nil {
		return err
	}
	if approvals > 0 {
		return nil
	}
	if err := s.events.RecordEvents(ctx, []*model.ScoreEvent{{
		UserUID:     post.AuthorUID,
		ActorUID:    moderatorUID,
		EventType:   model.EventModApprovedBonus,
		DeltaPoints: pointsModBonus,
		RefType:     model.RefPost,
		RefID:       postID,
	}}); err != nil {
		return err
	}
	return s.stats.Increment(ctx, post.AuthorUID)
}

func (s *moderationService) Reverse(ctx context.Context, postID uint64, moderatorUID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	// Fast path: a nonzero approvals counter means some approval by this author
	// is committed. The counter spans all of the author's posts, so the approval
	// for this particular post may still be in flight; in that case fall through
	// to the retry path instead of dropping the reversal.
	if stat, serr := s.stats.Get(ctx, post.AuthorUID); serr == nil && stat.ModApprovals > 0 {
		err := s.applyReversal(ctx, post.AuthorUID, postID, moderatorUID)
		if !errors.Is(err, errNoApproval) {
			return err
		}
	}

	approvals, err := s.countApprovalsWithRetry(ctx, post.AuthorUID, postID)
	if err != nil {
		return err
	}
	if approvals == 0 {
		// The approval may still be in flight. Schedule exactly one deferred
		// recheck and return so user-facing latency stays bounded.
		log.WithFields(log.Fields{
			"post_id": postID,
			"author":  post.AuthorUID,
		}).Warn("reversal requested before approval visible, scheduling recheck")
		s.scheduleRecheck(post.AuthorUID, postID, moderatorUID)
		return nil
	}
	return s.applyReversal(ctx, post.AuthorUID, postID, moderatorUID)
}

func (s *moderationService) countApprovalsWithRetry(ctx context.Context, authorUID string, postID uint64) (int64, error) {
	var approvals int64
	var err error
	for attempt := 0; attempt < s.retryAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(s.retryDelay)
		}
		approvals, err = s.events.CountForUser(ctx, authorUID, model.EventModApprovedBonus, model.RefPost, postID)
		if err != nil {
			return 0, err
		}
		if approvals > 0 {
			return approvals, nil
		}
	}
	return approvals, nil
}

// scheduleRecheck arms a one-shot timer that re-evaluates counts later and
// applies the reversal then if warranted. Fire-and-forget: failures are
// logged, never surfaced, never retried. A duplicate late execution is
// harmless because applyReversal recounts before emitting.
func (s *moderationService) scheduleRecheck(authorUID string, postID uint64, moderatorUID string) {
	time.AfterFunc(s.recheckDelay, func() {
		ctx := context.Background()
		approvals, err := s.events.CountForUser(ctx, authorUID, model.EventModApprovedBonus, model.RefPost, postID)
		if err != nil {
			log.WithFields(log.Fields{"post_id": postID}).WithError(err).Warn("deferred reversal recheck failed")
			return
		}
		if approvals == 0 {
			log.WithFields(log.Fields{"post_id": postID}).Warn("deferred reversal recheck found no approval, dropping")
			return
		}
		if err := s.applyReversal(ctx, authorUID, postID, moderatorUID); err != nil {
			log.WithFields(log.Fields{"post_id": postID}).WithError(err).Warn("deferred reversal failed")
		}
	})
}

// applyReversal emits at most one compensating event, keeping
// reversalCount <= approvalCount for the (author, post) pair. Returns
// errNoApproval when no bonus exists for the pair at all, so callers can
// distinguish an unbalanced race from an already balanced history.
func (s *moderationService) applyReversal(ctx context.Context, authorUID string, postID uint64, moderatorUID string) error {
	approvals, err := s.events.CountForUser(ctx, authorUID, model.EventModApprovedBonus, model.RefPost, postID)
	if err != nil {
		return err
	}
	if approvals == 0 {
		return errNoApproval
	}
	reversals, err := s.events.CountForUser(ctx, authorUID, model.EventModApprovedRev, model.RefPost, postID)
	if err != nil {
		return err
	}
	if reversals >= approvals {
		return nil // already balanced
	}
	if err := s.events.RecordEvents(ctx, []*model.ScoreEvent{{
		UserUID:     authorUID,
		ActorUID:    moderatorUID,
		EventType:   model.EventModApprovedRev,
		DeltaPoints: -pointsModBonus,
		RefType:     model.RefPost,
		RefID:       postID,
		Meta:        fmt.Sprintf(`{"sequence":%d}`, reversals+1),
	}}); err != nil {
		return err
	}
	return s.stats.DecrementFloor(ctx, authorUID)
}

func (s *moderationService) ResolveReport(ctx context.Context, postID uint64, decision ReportDecision, moderatorUID string) error {
	if decision != DecisionDeleted && decision != DecisionWarned && decision != DecisionRetained {
		return ErrUnknownDecision
	}
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	reporters, err := s.reports.OpenReporters(ctx, postID)
	if err != nil {
		return err
	}

	var events []*model.ScoreEvent
	if decision == DecisionDeleted || decision == DecisionWarned {
		events = append(events, &model.ScoreEvent{
			UserUID:     post.AuthorUID,
			ActorUID:    moderatorUID,
			EventType:   model.EventReportPenalty,
			DeltaPoints: pointsReportPenalty,
			RefType:     model.RefPost,
			RefID:       postID,
			Meta:        metaJSON(map[string]string{"decision": string(decision)}),
		})
		for _, uid := range reporters {
			events = append(events, &model.ScoreEvent{
				UserUID:     uid,
				ActorUID:    moderatorUID,
				EventType:   model.EventReportConfirmedRwd,
				DeltaPoints: pointsConfirmedReward,
				RefType:     model.RefPost,
				RefID:       postID,
			})
		}
	} else {
		for _, uid := range reporters {
			events = append(events, &model.ScoreEvent{
				UserUID:     uid,
				ActorUID:    moderatorUID,
				EventType:   model.EventReportRejectedRwd,
				DeltaPoints: pointsRejectedReward,
				RefType:     model.RefPost,
				RefID:       postID,
			})
		}
	}
	if err := s.events.RecordEvents(ctx, events); err != nil {
		return err
	}
	return s.reports.ResolveByPost(ctx, postID)
}
