package service

import (
	"context"
	"errors"
	"testing"

	"github.com/threadline/threadline-backend/internal/model"
)

func newContentFixture(t *testing.T) (*fakeEventRepo, *fakePostRepo, *fakeReplyRepo, ContentService) {
	t.Helper()
	events := newFakeEventRepo()
	posts := newFakePostRepo()
	replies := newFakeReplyRepo()
	svc := NewContentService(events, posts, replies, newFakeReportRepo())
	return events, posts, replies, svc
}

func TestCreatePostAwardsPoints(t *testing.T) {
	events, _, _, svc := newContentFixture(t)
	post := &model.Post{AuthorUID: "alice", Title: "t", Body: "b"}
	if err := svc.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.ID == 0 {
		t.Fatal("post not persisted")
	}
	if got := events.total("alice"); got != pointsPostCreated {
		t.Fatalf("alice total = %d, want %d", got, pointsPostCreated)
	}
}

func TestCreateReplyAwardsPoints(t *testing.T) {
	events, posts, _, svc := newContentFixture(t)
	ctx := context.Background()
	post := &model.Post{AuthorUID: "alice", Title: "t", Body: "b"}
	posts.Create(ctx, post)

	reply := &model.Reply{PostID: post.ID, AuthorUID: "bob", Body: "hi"}
	if err := svc.CreateReply(ctx, reply); err != nil {
		t.Fatalf("CreateReply: %v", err)
	}
	if got := events.total("bob"); got != pointsReplyCreated {
		t.Fatalf("bob total = %d, want %d", got, pointsReplyCreated)
	}
}

func TestCreateReplyMissingParent(t *testing.T) {
	_, posts, _, svc := newContentFixture(t)
	ctx := context.Background()
	post := &model.Post{AuthorUID: "alice", Title: "t", Body: "b"}
	posts.Create(ctx, post)

	missing := uint64(999)
	reply := &model.Reply{PostID: post.ID, AuthorUID: "bob", ParentReplyID: &missing, Body: "hi"}
	if err := svc.CreateReply(ctx, reply); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateReplyLookupFailureIsNotNotFound(t *testing.T) {
	_, posts, _, svc := newContentFixture(t)
	ctx := context.Background()
	post := &model.Post{AuthorUID: "alice", Title: "t", Body: "b"}
	posts.Create(ctx, post)

	dbErr := errors.New("connection refused")
	posts.findErr = dbErr
	reply := &model.Reply{PostID: post.ID, AuthorUID: "bob", Body: "hi"}
	err := svc.CreateReply(ctx, reply)
	if !errors.Is(err, dbErr) {
		t.Fatalf("err = %v, want the lookup error passed through", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("transient lookup failure reported as not found")
	}
}

func TestReportPostLookupFailureIsNotNotFound(t *testing.T) {
	_, posts, _, svc := newContentFixture(t)
	posts.posts[1] = &model.Post{ID: 1, AuthorUID: "alice"}

	dbErr := errors.New("connection refused")
	posts.findErr = dbErr
	report := &model.Report{PostID: 1, ReporterUID: "rita"}
	err := svc.ReportPost(context.Background(), report)
	if !errors.Is(err, dbErr) {
		t.Fatalf("err = %v, want the lookup error passed through", err)
	}
}

func TestReportPostUnknownPost(t *testing.T) {
	_, _, _, svc := newContentFixture(t)
	report := &model.Report{PostID: 42, ReporterUID: "rita"}
	if err := svc.ReportPost(context.Background(), report); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
