package repository

import (
	"context"

	"github.com/threadline/threadline-backend/internal/model"
	"gorm.io/gorm"
)

type ReplyRepository interface {
	Create(ctx context.Context, reply *model.Reply) error
	FindByID(ctx context.Context, id uint64) (*model.Reply, error)
	SetDB(db *gorm.DB)
}

type replyRepository struct {
	db *gorm.DB
}

func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

func (r *replyRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *replyRepository) Create(ctx context.Context, reply *model.Reply) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(reply).Error
}

func (r *replyRepository) FindByID(ctx context.Context, id uint64) (*model.Reply, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var reply model.Reply
	if err := r.db.WithContext(ctx).First(&reply, id).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}
