// Package jobs runs the background schedule: a daily sweep that breaks login
// streaks of users who missed a day.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/threadline/threadline-backend/internal/service"
)

type Scheduler struct {
	cron    *cron.Cron
	streaks service.StreakService
}

func NewScheduler(streaks service.StreakService) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		streaks: streaks,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.cron.AddFunc("5 0 * * *", func() {
		if err := s.streaks.BreakLapsed(ctx, time.Now()); err != nil {
			log.WithError(err).Error("streak lapse sweep failed")
		}
	})
	s.cron.Start()
	log.Info("scheduler started")
}

func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	log.Info("scheduler stopped")
}
