package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/threadline/threadline-backend/internal/model"
	"github.com/threadline/threadline-backend/internal/repository"
)

const dateLayout = "2006-01-02"

// streakTier pairs a consecutive-day threshold with its one-time bonus.
// Bonuses are additive: crossing 30 grants only the 30-day bonus, the 7-day
// bonus was already granted on day 7.
type streakTier struct {
	days  int
	bonus int64 // scaled
	event model.EventType
}

var streakTiers = []streakTier{
	{7, 5 * model.Scale, model.EventStreak7},
	{30, 10 * model.Scale, model.EventStreak30},
	{90, 25 * model.Scale, model.EventStreak90},
	{180, 50 * model.Scale, model.EventStreak180},
	{365, 100 * model.Scale, model.EventStreak365},
}

type StreakService interface {
	// RecordLogin bumps the user's streak for the login day and grants any
	// threshold bonus crossed. Repeat logins on the same day are no-ops.
	RecordLogin(ctx context.Context, uid string, at time.Time) (*model.UserLoginStreak, error)
	// BreakLapsed zeroes the counters of users who missed a day. Run daily.
	BreakLapsed(ctx context.Context, now time.Time) error
}

type streakService struct {
	events  repository.ScoreEventRepository
	streaks repository.LoginStreakRepository
}

func NewStreakService(events repository.ScoreEventRepository, streaks repository.LoginStreakRepository) StreakService {
	return &streakService{events: events, streaks: streaks}
}

func (s *streakService) RecordLogin(ctx context.Context, uid string, at time.Time) (*model.UserLoginStreak, error) {
	streak, err := s.streaks.Get(ctx, uid)
	if err != nil {
		return nil, err
	}

	today := at.Format(dateLayout)
	if streak.LastLoginDate == today {
		return streak, nil
	}

	yesterday := at.AddDate(0, 0, -1).Format(dateLayout)
	newCount := 1
	if streak.LastLoginDate == yesterday {
		newCount = streak.CurrentStreak + 1
	}

	// Bonus first, counter second. If the ledger write fails the counter stays
	// put and the next login retries the grant; the prior-event check keeps a
	// failed counter save from granting twice.
	for _, tier := range streakTiers {
		if newCount != tier.days {
			continue
		}
		granted, err := s.events.CountForUser(ctx, uid, tier.event, model.RefStreak, uint64(tier.days))
		if err != nil {
			return nil, err
		}
		if granted > 0 {
			break
		}
		if err := s.events.RecordEvents(ctx, []*model.ScoreEvent{{
			UserUID:     uid,
			ActorUID:    uid,
			EventType:   tier.event,
			DeltaPoints: tier.bonus,
			RefType:     model.RefStreak,
			RefID:       uint64(tier.days),
			Meta:        fmt.Sprintf(`{"streak":%d}`, newCount),
		}}); err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"uid": uid, "streak": newCount}).Info("streak bonus granted")
		break
	}

	streak.CurrentStreak = newCount
	if newCount > streak.LongestStreak {
		streak.LongestStreak = newCount
	}
	streak.LastLoginDate = today
	if err := s.streaks.Save(ctx, streak); err != nil {
		return nil, err
	}
	return streak, nil
}

func (s *streakService) BreakLapsed(ctx context.Context, now time.Time) error {
	cutoff := now.AddDate(0, 0, -1).Format(dateLayout)
	n, err := s.streaks.ResetLapsed(ctx, cutoff)
	if err != nil {
		return err
	}
	if n > 0 {
		log.WithField("broken", n).Info("lapsed login streaks reset")
	}
	return nil
}
