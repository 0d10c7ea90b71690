package repository

import (
	"context"
	"errors"

	"github.com/threadline/threadline-backend/internal/model"
	"gorm.io/gorm"
)

type ReplyAncestryRepository interface {
	Find(ctx context.Context, replyID uint64) (*model.ReplyAncestry, error)
	// FindOrCreate inserts the row unless one already exists for the reply.
	// Safe under concurrent callers; the first insert wins and everyone reads it.
	FindOrCreate(ctx context.Context, row *model.ReplyAncestry) (*model.ReplyAncestry, error)
	SetDB(db *gorm.DB)
}

type replyAncestryRepository struct {
	db *gorm.DB
}

func NewReplyAncestryRepository(db *gorm.DB) ReplyAncestryRepository {
	return &replyAncestryRepository{db: db}
}

func (r *replyAncestryRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *replyAncestryRepository) Find(ctx context.Context, replyID uint64) (*model.ReplyAncestry, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var row model.ReplyAncestry
	if err := r.db.WithContext(ctx).First(&row, "reply_id = ?", replyID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *replyAncestryRepository) FindOrCreate(ctx context.Context, row *model.ReplyAncestry) (*model.ReplyAncestry, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var existing model.ReplyAncestry
	err := r.db.WithContext(ctx).
		Where("reply_id = ?", row.ReplyID).
		FirstOrCreate(&existing, row).Error
	if err != nil {
		// A concurrent caller may have inserted between the find and the create;
		// the unique key rejects ours, so read theirs.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.Find(ctx, row.ReplyID)
		}
		return nil, err
	}
	return &existing, nil
}
