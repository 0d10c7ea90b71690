package repository

import (
	"context"

	"github.com/threadline/threadline-backend/internal/model"
	"gorm.io/gorm"
)

type ModerationStatRepository interface {
	Get(ctx context.Context, uid string) (*model.UserModerationStat, error)
	Increment(ctx context.Context, uid string) error
	// DecrementFloor subtracts one approval but never drops below zero.
	DecrementFloor(ctx context.Context, uid string) error
	SetDB(db *gorm.DB)
}

type moderationStatRepository struct {
	db *gorm.DB
}

func NewModerationStatRepository(db *gorm.DB) ModerationStatRepository {
	return &moderationStatRepository{db: db}
}

func (r *moderationStatRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *moderationStatRepository) Get(ctx context.Context, uid string) (*model.UserModerationStat, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var stat model.UserModerationStat
	if err := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		FirstOrCreate(&stat, &model.UserModerationStat{UID: uid}).Error; err != nil {
		return nil, err
	}
	return &stat, nil
}

func (r *moderationStatRepository) Increment(ctx context.Context, uid string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stat model.UserModerationStat
		if err := tx.Where("uid = ?", uid).
			FirstOrCreate(&stat, &model.UserModerationStat{UID: uid}).Error; err != nil {
			return err
		}
		return tx.Model(&model.UserModerationStat{}).
			Where("uid = ?", uid).
			Update("mod_approvals", gorm.Expr("mod_approvals + 1")).Error
	})
}

func (r *moderationStatRepository) DecrementFloor(ctx context.Context, uid string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.UserModerationStat{}).
		Where("uid = ? AND mod_approvals > 0", uid).
		Update("mod_approvals", gorm.Expr("mod_approvals - 1")).Error
}
