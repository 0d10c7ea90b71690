package repository

import (
	"context"
	"errors"

	"github.com/threadline/threadline-backend/internal/model"
	"gorm.io/gorm"
)

type ReplyClassificationRepository interface {
	Find(ctx context.Context, replyID uint64) (*model.ReplyClassification, error)
	FindOrCreate(ctx context.Context, row *model.ReplyClassification) (*model.ReplyClassification, error)
	SetDB(db *gorm.DB)
}

type replyClassificationRepository struct {
	db *gorm.DB
}

func NewReplyClassificationRepository(db *gorm.DB) ReplyClassificationRepository {
	return &replyClassificationRepository{db: db}
}

func (r *replyClassificationRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *replyClassificationRepository) Find(ctx context.Context, replyID uint64) (*model.ReplyClassification, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var row model.ReplyClassification
	if err := r.db.WithContext(ctx).First(&row, "reply_id = ?", replyID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *replyClassificationRepository) FindOrCreate(ctx context.Context, row *model.ReplyClassification) (*model.ReplyClassification, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var existing model.ReplyClassification
	err := r.db.WithContext(ctx).
		Where("reply_id = ?", row.ReplyID).
		FirstOrCreate(&existing, row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.Find(ctx, row.ReplyID)
		}
		return nil, err
	}
	return &existing, nil
}
