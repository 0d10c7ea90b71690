package service

import (
	"context"

	"github.com/threadline/threadline-backend/internal/model"
	"github.com/threadline/threadline-backend/internal/repository"
)

const (
	defaultLeaderboardLimit = 20
	maxLeaderboardLimit     = 100
	defaultStatDays         = 30
	maxStatDays             = 90
)

// ScoreService is the read path over the ledger's materialized aggregates.
type ScoreService interface {
	GetTotal(ctx context.Context, uid string) (*model.UserScoreTotal, error)
	Leaderboard(ctx context.Context, limit, offset int) ([]model.UserScoreTotal, error)
	DailyStats(ctx context.Context, uid string, days int) ([]repository.DailyStat, error)
}

type scoreService struct {
	events repository.ScoreEventRepository
}

func NewScoreService(events repository.ScoreEventRepository) ScoreService {
	return &scoreService{events: events}
}

func (s *scoreService) GetTotal(ctx context.Context, uid string) (*model.UserScoreTotal, error) {
	return s.events.GetTotal(ctx, uid)
}

func (s *scoreService) Leaderboard(ctx context.Context, limit, offset int) ([]model.UserScoreTotal, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.events.Leaderboard(ctx, limit, offset)
}

func (s *scoreService) DailyStats(ctx context.Context, uid string, days int) ([]repository.DailyStat, error) {
	if days <= 0 {
		days = defaultStatDays
	}
	if days > maxStatDays {
		days = maxStatDays
	}
	return s.events.DailyStats(ctx, uid, days)
}
