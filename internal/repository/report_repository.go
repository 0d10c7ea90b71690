package repository

import (
	"context"

	"github.com/threadline/threadline-backend/internal/model"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	// OpenReporters returns the distinct reporter UIDs with open reports on a post.
	OpenReporters(ctx context.Context, postID uint64) ([]string, error)
	ResolveByPost(ctx context.Context, postID uint64) error
	SetDB(db *gorm.DB)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) OpenReporters(ctx context.Context, postID uint64) ([]string, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var uids []string
	if err := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Distinct("reporter_uid").
		Where("post_id = ? AND status = ?", postID, model.ReportOpen).
		Pluck("reporter_uid", &uids).Error; err != nil {
		return nil, err
	}
	return uids, nil
}

func (r *reportRepository) ResolveByPost(ctx context.Context, postID uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("post_id = ? AND status = ?", postID, model.ReportOpen).
		Update("status", model.ReportResolved).Error
}
