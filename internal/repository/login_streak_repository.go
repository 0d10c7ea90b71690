package repository

import (
	"context"

	"github.com/threadline/threadline-backend/internal/model"
	"gorm.io/gorm"
)

type LoginStreakRepository interface {
	Get(ctx context.Context, uid string) (*model.UserLoginStreak, error)
	Save(ctx context.Context, streak *model.UserLoginStreak) error
	// ResetLapsed zeroes counters of users whose last login is before the cutoff
	// date so the next login starts a fresh run.
	ResetLapsed(ctx context.Context, cutoffDate string) (int64, error)
	SetDB(db *gorm.DB)
}

type loginStreakRepository struct {
	db *gorm.DB
}

func NewLoginStreakRepository(db *gorm.DB) LoginStreakRepository {
	return &loginStreakRepository{db: db}
}

func (r *loginStreakRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *loginStreakRepository) Get(ctx context.Context, uid string) (*model.UserLoginStreak, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var streak model.UserLoginStreak
	if err := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		FirstOrCreate(&streak, &model.UserLoginStreak{UID: uid}).Error; err != nil {
		return nil, err
	}
	return &streak, nil
}

func (r *loginStreakRepository) Save(ctx context.Context, streak *model.UserLoginStreak) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(streak).Error
}

func (r *loginStreakRepository) ResetLapsed(ctx context.Context, cutoffDate string) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Model(&model.UserLoginStreak{}).
		Where("current_streak > 0 AND last_login_date < ?", cutoffDate).
		Update("current_streak", 0)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
