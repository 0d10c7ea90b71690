package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/threadline/threadline-backend/internal/model"
	"github.com/threadline/threadline-backend/internal/repository"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

// Creation awards, scaled.
const (
	pointsPostCreated  = 2 * model.Scale
	pointsReplyCreated = 1 * model.Scale
)

type ContentService interface {
	CreatePost(ctx context.Context, post *model.Post) error
	CreateReply(ctx context.Context, reply *model.Reply) error
	ReportPost(ctx context.Context, report *model.Report) error
}

type contentService struct {
	events  repository.ScoreEventRepository
	posts   repository.PostRepository
	replies repository.ReplyRepository
	reports repository.ReportRepository
}

func NewContentService(events repository.ScoreEventRepository, posts repository.PostRepository, replies repository.ReplyRepository, reports repository.ReportRepository) ContentService {
	return &contentService{events: events, posts: posts, replies: replies, reports: reports}
}

func (s *contentService) CreatePost(ctx context.Context, post *model.Post) error {
	if post.AuthorUID == "" {
		return errors.New("author is required")
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return err
	}
	return s.events.RecordEvents(ctx, []*model.ScoreEvent{{
		UserUID:     post.AuthorUID,
		ActorUID:    post.AuthorUID,
		EventType:   model.EventPostCreated,
		DeltaPoints: pointsPostCreated,
		RefType:     model.RefPost,
		RefID:       post.ID,
	}})
}

func (s *contentService) CreateReply(ctx context.Context, reply *model.Reply) error {
	if reply.AuthorUID == "" {
		return errors.New("author is required")
	}
	if _, err := s.posts.FindByID(ctx, reply.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if reply.ParentReplyID != nil {
		if _, err := s.replies.FindByID(ctx, *reply.ParentReplyID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
	}
	if err := s.replies.Create(ctx, reply); err != nil {
		return err
	}
	return s.events.RecordEvents(ctx, []*model.ScoreEvent{{
		UserUID:     reply.AuthorUID,
		ActorUID:    reply.AuthorUID,
		EventType:   model.EventReplyCreated,
		DeltaPoints: pointsReplyCreated,
		RefType:     model.RefReply,
		RefID:       reply.ID,
	}})
}

func (s *contentService) ReportPost(ctx context.Context, report *model.Report) error {
	if report.ReporterUID == "" {
		return errors.New("reporter is required")
	}
	if _, err := s.posts.FindByID(ctx, report.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	report.Status = model.ReportOpen
	return s.reports.Create(ctx, report)
}

func metaJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
