package repository

import (
	"context"

	"github.com/threadline/threadline-backend/internal/model"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	FindByID(ctx context.Context, id uint64) (*model.Post, error)
	SetDB(db *gorm.DB)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var p model.Post
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
