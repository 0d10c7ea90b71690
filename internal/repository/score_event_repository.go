package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/threadline/threadline-backend/internal/model"
	"gorm.io/gorm"
)

var ErrDBNotReady = errors.New("database not initialized")

// DailyStat is one day's aggregate for a user.
type DailyStat struct {
	Day    string `gorm:"column:day"`
	Points int64  `gorm:"column:points"` // scaled by model.Scale
	Events int64  `gorm:"column:events"`
}

type ScoreEventRepository interface {
	// RecordEvents appends the batch and bumps every affected UserScoreTotal in
	// one transaction. An empty batch is a no-op. Nothing is ever partially applied.
	RecordEvents(ctx context.Context, events []*model.ScoreEvent) error
	CountForUser(ctx context.Context, uid string, t model.EventType, refType model.RefType, refID uint64) (int64, error)
	CountForActor(ctx context.Context, actorUID string, t model.EventType, refType model.RefType, refID uint64) (int64, error)
	GetTotal(ctx context.Context, uid string) (*model.UserScoreTotal, error)
	Leaderboard(ctx context.Context, limit, offset int) ([]model.UserScoreTotal, error)
	DailyStats(ctx context.Context, uid string, days int) ([]DailyStat, error)
	SetDB(db *gorm.DB)
}

type scoreEventRepository struct {
	db *gorm.DB
}

func NewScoreEventRepository(db *gorm.DB) ScoreEventRepository {
	return &scoreEventRepository{db: db}
}

func (r *scoreEventRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *scoreEventRepository) RecordEvents(ctx context.Context, events []*model.ScoreEvent) error {
	if len(events) == 0 {
		return nil
	}
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deltas := make(map[string]int64)
		for _, ev := range events {
			if ev.EventUUID == "" {
				ev.EventUUID = uuid.NewString()
			}
			if err := tx.Create(ev).Error; err != nil {
				return err
			}
			deltas[ev.UserUID] += ev.DeltaPoints
		}
		for uid, delta := range deltas {
			var total model.UserScoreTotal
			if err := tx.Where("uid = ?", uid).
				FirstOrCreate(&total, &model.UserScoreTotal{UID: uid}).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.UserScoreTotal{}).
				Where("uid = ?", uid).
				Update("total_points", gorm.Expr("total_points + ?", delta)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *scoreEventRepository) CountForUser(ctx context.Context, uid string, t model.EventType, refType model.RefType, refID uint64) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.ScoreEvent{}).
		Where("user_uid = ? AND event_type = ? AND ref_type = ? AND ref_id = ?", uid, t, refType, refID).
		Count(&n).Error
	return n, err
}

func (r *scoreEventRepository) CountForActor(ctx context.Context, actorUID string, t model.EventType, refType model.RefType, refID uint64) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.ScoreEvent{}).
		Where("actor_uid = ? AND event_type = ? AND ref_type = ? AND ref_id = ?", actorUID, t, refType, refID).
		Count(&n).Error
	return n, err
}

func (r *scoreEventRepository) GetTotal(ctx context.Context, uid string) (*model.UserScoreTotal, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var total model.UserScoreTotal
	if err := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		FirstOrCreate(&total, &model.UserScoreTotal{UID: uid}).Error; err != nil {
		return nil, err
	}
	return &total, nil
}

func (r *scoreEventRepository) Leaderboard(ctx context.Context, limit, offset int) ([]model.UserScoreTotal, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.UserScoreTotal
	if err := r.db.WithContext(ctx).
		Order("total_points DESC, uid ASC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *scoreEventRepository) DailyStats(ctx context.Context, uid string, days int) ([]DailyStat, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	since := time.Now().AddDate(0, 0, -days)
	var stats []DailyStat
	if err := r.db.WithContext(ctx).
		Model(&model.ScoreEvent{}).
		Select("DATE(created_at) AS day, SUM(delta_points) AS points, COUNT(*) AS events").
		Where("user_uid = ? AND created_at >= ?", uid, since).
		Group("DATE(created_at)").
		Order("day DESC").
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
