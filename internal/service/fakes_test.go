package service

import (
	"context"
	"sync"

	"github.com/threadline/threadline-backend/internal/classifier"
	"github.com/threadline/threadline-backend/internal/model"
	"github.com/threadline/threadline-backend/internal/repository"
	"gorm.io/gorm"
)

// fakeEventRepo keeps the ledger and totals in memory. Totals are maintained
// exactly like the real repository: in lockstep with every recorded batch.
type fakeEventRepo struct {
	mu        sync.Mutex
	events    []*model.ScoreEvent
	totals    map[string]int64
	nextID    uint64
	recordErr error // when set, RecordEvents fails without writing
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{totals: make(map[string]int64)}
}

func (f *fakeEventRepo) RecordEvents(_ context.Context, events []*model.ScoreEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return f.recordErr
	}
	for _, ev := range events {
		f.nextID++
		ev.ID = f.nextID
		f.events = append(f.events, ev)
		f.totals[ev.UserUID] += ev.DeltaPoints
	}
	return nil
}

func (f *fakeEventRepo) CountForUser(_ context.Context, uid string, t model.EventType, refType model.RefType, refID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, ev := range f.events {
		if ev.UserUID == uid && ev.EventType == t && ev.RefType == refType && ev.RefID == refID {
			n++
		}
	}
	return n, nil
}

func (f *fakeEventRepo) CountForActor(_ context.Context, actorUID string, t model.EventType, refType model.RefType, refID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, ev := range f.events {
		if ev.ActorUID == actorUID && ev.EventType == t && ev.RefType == refType && ev.RefID == refID {
			n++
		}
	}
	return n, nil
}

func (f *fakeEventRepo) GetTotal(_ context.Context, uid string) (*model.UserScoreTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &model.UserScoreTotal{UID: uid, TotalPoints: f.totals[uid]}, nil
}

func (f *fakeEventRepo) Leaderboard(_ context.Context, limit, offset int) ([]model.UserScoreTotal, error) {
	return nil, nil
}

func (f *fakeEventRepo) DailyStats(_ context.Context, uid string, days int) ([]repository.DailyStat, error) {
	return nil, nil
}

func (f *fakeEventRepo) SetDB(*gorm.DB) {}

func (f *fakeEventRepo) total(uid string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totals[uid]
}

func (f *fakeEventRepo) eventsOfType(t model.EventType) []*model.ScoreEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.ScoreEvent
	for _, ev := range f.events {
		if ev.EventType == t {
			out = append(out, ev)
		}
	}
	return out
}

// ledgerSum recomputes a user's total from the raw events; tests compare it
// with the materialized total to check conservation.
func (f *fakeEventRepo) ledgerSum(uid string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for _, ev := range f.events {
		if ev.UserUID == uid {
			sum += ev.DeltaPoints
		}
	}
	return sum
}

type fakePostRepo struct {
	posts   map[uint64]*model.Post
	findErr error // when set, FindByID fails with it
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[uint64]*model.Post)}
}

func (f *fakePostRepo) Create(_ context.Context, p *model.Post) error {
	if p.ID == 0 {
		p.ID = uint64(len(f.posts) + 1)
	}
	f.posts[p.ID] = p
	return nil
}

func (f *fakePostRepo) FindByID(_ context.Context, id uint64) (*model.Post, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakePostRepo) SetDB(*gorm.DB) {}

type fakeReplyRepo struct {
	replies map[uint64]*model.Reply
}

func newFakeReplyRepo() *fakeReplyRepo {
	return &fakeReplyRepo{replies: make(map[uint64]*model.Reply)}
}

func (f *fakeReplyRepo) Create(_ context.Context, r *model.Reply) error {
	if r.ID == 0 {
		r.ID = uint64(len(f.replies) + 1)
	}
	f.replies[r.ID] = r
	return nil
}

func (f *fakeReplyRepo) FindByID(_ context.Context, id uint64) (*model.Reply, error) {
	r, ok := f.replies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakeReplyRepo) SetDB(*gorm.DB) {}

type fakeAncestryRepo struct {
	rows map[uint64]*model.ReplyAncestry
}

func newFakeAncestryRepo() *fakeAncestryRepo {
	return &fakeAncestryRepo{rows: make(map[uint64]*model.ReplyAncestry)}
}

func (f *fakeAncestryRepo) Find(_ context.Context, replyID uint64) (*model.ReplyAncestry, error) {
	row, ok := f.rows[replyID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (f *fakeAncestryRepo) FindOrCreate(_ context.Context, row *model.ReplyAncestry) (*model.ReplyAncestry, error) {
	if existing, ok := f.rows[row.ReplyID]; ok {
		return existing, nil
	}
	f.rows[row.ReplyID] = row
	return row, nil
}

func (f *fakeAncestryRepo) SetDB(*gorm.DB) {}

type fakeClassificationRepo struct {
	rows map[uint64]*model.ReplyClassification
}

func newFakeClassificationRepo() *fakeClassificationRepo {
	return &fakeClassificationRepo{rows: make(map[uint64]*model.ReplyClassification)}
}

func (f *fakeClassificationRepo) Find(_ context.Context, replyID uint64) (*model.ReplyClassification, error) {
	row, ok := f.rows[replyID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (f *fakeClassificationRepo) FindOrCreate(_ context.Context, row *model.ReplyClassification) (*model.ReplyClassification, error) {
	if existing, ok := f.rows[row.ReplyID]; ok {
		return existing, nil
	}
	f.rows[row.ReplyID] = row
	return row, nil
}

func (f *fakeClassificationRepo) SetDB(*gorm.DB) {}

type fakeStatRepo struct {
	mu    sync.Mutex
	stats map[string]int64
}

func newFakeStatRepo() *fakeStatRepo {
	return &fakeStatRepo{stats: make(map[string]int64)}
}

func (f *fakeStatRepo) Get(_ context.Context, uid string) (*model.UserModerationStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &model.UserModerationStat{UID: uid, ModApprovals: f.stats[uid]}, nil
}

func (f *fakeStatRepo) Increment(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats[uid]++
	return nil
}

func (f *fakeStatRepo) DecrementFloor(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stats[uid] > 0 {
		f.stats[uid]--
	}
	return nil
}

func (f *fakeStatRepo) SetDB(*gorm.DB) {}

type fakeStreakRepo struct {
	rows map[string]*model.UserLoginStreak
}

func newFakeStreakRepo() *fakeStreakRepo {
	return &fakeStreakRepo{rows: make(map[string]*model.UserLoginStreak)}
}

func (f *fakeStreakRepo) Get(_ context.Context, uid string) (*model.UserLoginStreak, error) {
	if row, ok := f.rows[uid]; ok {
		return row, nil
	}
	row := &model.UserLoginStreak{UID: uid}
	f.rows[uid] = row
	return row, nil
}

func (f *fakeStreakRepo) Save(_ context.Context, streak *model.UserLoginStreak) error {
	f.rows[streak.UID] = streak
	return nil
}

func (f *fakeStreakRepo) ResetLapsed(_ context.Context, cutoffDate string) (int64, error) {
	var n int64
	for _, row := range f.rows {
		if row.CurrentStreak > 0 && row.LastLoginDate < cutoffDate {
			row.CurrentStreak = 0
			n++
		}
	}
	return n, nil
}

func (f *fakeStreakRepo) SetDB(*gorm.DB) {}

type fakeReportRepo struct {
	reports []*model.Report
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{}
}

func (f *fakeReportRepo) Create(_ context.Context, report *model.Report) error {
	report.ID = uint64(len(f.reports) + 1)
	f.reports = append(f.reports, report)
	return nil
}

func (f *fakeReportRepo) OpenReporters(_ context.Context, postID uint64) ([]string, error) {
	seen := make(map[string]bool)
	var uids []string
	for _, rep := range f.reports {
		if rep.PostID == postID && rep.Status == model.ReportOpen && !seen[rep.ReporterUID] {
			seen[rep.ReporterUID] = true
			uids = append(uids, rep.ReporterUID)
		}
	}
	return uids, nil
}

func (f *fakeReportRepo) ResolveByPost(_ context.Context, postID uint64) error {
	for _, rep := range f.reports {
		if rep.PostID == postID && rep.Status == model.ReportOpen {
			rep.Status = model.ReportResolved
		}
	}
	return nil
}

func (f *fakeReportRepo) SetDB(*gorm.DB) {}

// stubClassifier returns a fixed verdict or error and counts invocations.
type stubClassifier struct {
	label classifier.Label
	err   error
	calls int
}

func (s *stubClassifier) ClassifyReply(_ context.Context, _ uint64, _, _ string) (classifier.Result, error) {
	s.calls++
	if s.err != nil {
		return classifier.Result{}, s.err
	}
	return classifier.Result{Label: s.label, Confidence: 0.9, Source: "stub"}, nil
}
