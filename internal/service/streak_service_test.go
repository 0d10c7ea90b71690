package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/threadline/threadline-backend/internal/model"
)

func newStreakFixture(t *testing.T) (*fakeEventRepo, *fakeStreakRepo, StreakService) {
	t.Helper()
	events := newFakeEventRepo()
	streaks := newFakeStreakRepo()
	return events, streaks, NewStreakService(events, streaks)
}

func day(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}

func TestStreakCrossesSevenDays(t *testing.T) {
	events, streaks, svc := newStreakFixture(t)
	ctx := context.Background()

	streaks.rows["u1"] = &model.UserLoginStreak{UID: "u1", CurrentStreak: 6, LongestStreak: 6, LastLoginDate: "2026-03-09"}
	streak, err := svc.RecordLogin(ctx, "u1", day("2026-03-10"))
	if err != nil {
		t.Fatalf("RecordLogin: %v", err)
	}
	if streak.CurrentStreak != 7 {
		t.Fatalf("streak = %d, want 7", streak.CurrentStreak)
	}
	if got := events.total("u1"); got != 5*model.Scale {
		t.Fatalf("u1 total = %d, want %d (7-day bonus)", got, 5*model.Scale)
	}
	if n := len(events.eventsOfType(model.EventStreak7)); n != 1 {
		t.Fatalf("STREAK_7 events = %d, want 1", n)
	}
}

func TestStreakThirtyGrantsOnlyThirtyBonus(t *testing.T) {
	events, streaks, svc := newStreakFixture(t)
	ctx := context.Background()

	streaks.rows["u1"] = &model.UserLoginStreak{UID: "u1", CurrentStreak: 29, LongestStreak: 29, LastLoginDate: "2026-03-09"}
	if _, err := svc.RecordLogin(ctx, "u1", day("2026-03-10")); err != nil {
		t.Fatalf("RecordLogin: %v", err)
	}
	if n := len(events.eventsOfType(model.EventStreak30)); n != 1 {
		t.Fatalf("STREAK_30 events = %d, want 1", n)
	}
	if n := len(events.eventsOfType(model.EventStreak7)); n != 0 {
		t.Fatalf("STREAK_7 re-granted on day 30")
	}
	if got := events.total("u1"); got != 10*model.Scale {
		t.Fatalf("u1 total = %d, want %d", got, 10*model.Scale)
	}
}

func TestSameDayLoginIsNoop(t *testing.T) {
	events, streaks, svc := newStreakFixture(t)
	ctx := context.Background()

	streaks.rows["u1"] = &model.UserLoginStreak{UID: "u1", CurrentStreak: 6, LastLoginDate: "2026-03-09"}
	for i := 0; i < 3; i++ {
		streak, err := svc.RecordLogin(ctx, "u1", day("2026-03-10"))
		if err != nil {
			t.Fatalf("RecordLogin: %v", err)
		}
		if streak.CurrentStreak != 7 {
			t.Fatalf("streak = %d on repeat login, want 7", streak.CurrentStreak)
		}
	}
	if n := len(events.eventsOfType(model.EventStreak7)); n != 1 {
		t.Fatalf("STREAK_7 events = %d after repeat logins, want 1", n)
	}
}

func TestGapResetsStreak(t *testing.T) {
	_, streaks, svc := newStreakFixture(t)
	ctx := context.Background()

	streaks.rows["u1"] = &model.UserLoginStreak{UID: "u1", CurrentStreak: 12, LongestStreak: 12, LastLoginDate: "2026-03-01"}
	streak, err := svc.RecordLogin(ctx, "u1", day("2026-03-10"))
	if err != nil {
		t.Fatalf("RecordLogin: %v", err)
	}
	if streak.CurrentStreak != 1 {
		t.Fatalf("streak = %d after gap, want 1", streak.CurrentStreak)
	}
	if streak.LongestStreak != 12 {
		t.Fatalf("longest = %d, want 12 preserved", streak.LongestStreak)
	}
}

func TestBonusSurvivesLedgerFailure(t *testing.T) {
	events, streaks, svc := newStreakFixture(t)
	ctx := context.Background()

	streaks.rows["u1"] = &model.UserLoginStreak{UID: "u1", CurrentStreak: 6, LongestStreak: 6, LastLoginDate: "2026-03-09"}

	// The ledger write fails on the threshold day. The counter must not
	// advance, or the bonus would be unreachable on retry.
	events.recordErr = errors.New("deadlock")
	if _, err := svc.RecordLogin(ctx, "u1", day("2026-03-10")); err == nil {
		t.Fatal("expected error from failed ledger write")
	}
	if got := streaks.rows["u1"].LastLoginDate; got != "2026-03-09" {
		t.Fatalf("last login advanced to %s despite failed grant", got)
	}

	events.recordErr = nil
	streak, err := svc.RecordLogin(ctx, "u1", day("2026-03-10"))
	if err != nil {
		t.Fatalf("RecordLogin retry: %v", err)
	}
	if streak.CurrentStreak != 7 {
		t.Fatalf("streak = %d after retry, want 7", streak.CurrentStreak)
	}
	if n := len(events.eventsOfType(model.EventStreak7)); n != 1 {
		t.Fatalf("STREAK_7 events = %d after retry, want 1", n)
	}
	if got := events.total("u1"); got != 5*model.Scale {
		t.Fatalf("u1 total = %d, want %d", got, 5*model.Scale)
	}
}

func TestThresholdBonusGrantedOnceEver(t *testing.T) {
	events, streaks, svc := newStreakFixture(t)
	ctx := context.Background()

	streaks.rows["u1"] = &model.UserLoginStreak{UID: "u1", CurrentStreak: 6, LongestStreak: 6, LastLoginDate: "2026-03-09"}
	if _, err := svc.RecordLogin(ctx, "u1", day("2026-03-10")); err != nil {
		t.Fatalf("RecordLogin: %v", err)
	}

	// Streak breaks, then climbs back to 7. The 7-day bonus stays a one-time grant.
	streaks.rows["u1"] = &model.UserLoginStreak{UID: "u1", CurrentStreak: 6, LongestStreak: 7, LastLoginDate: "2026-04-09"}
	if _, err := svc.RecordLogin(ctx, "u1", day("2026-04-10")); err != nil {
		t.Fatalf("RecordLogin after reset: %v", err)
	}
	if n := len(events.eventsOfType(model.EventStreak7)); n != 1 {
		t.Fatalf("STREAK_7 events = %d after re-crossing, want 1", n)
	}
}

func TestBreakLapsed(t *testing.T) {
	_, streaks, svc := newStreakFixture(t)
	ctx := context.Background()

	streaks.rows["fresh"] = &model.UserLoginStreak{UID: "fresh", CurrentStreak: 3, LastLoginDate: "2026-03-09"}
	streaks.rows["stale"] = &model.UserLoginStreak{UID: "stale", CurrentStreak: 8, LastLoginDate: "2026-03-05"}

	if err := svc.BreakLapsed(ctx, day("2026-03-10")); err != nil {
		t.Fatalf("BreakLapsed: %v", err)
	}
	if streaks.rows["fresh"].CurrentStreak != 3 {
		t.Fatalf("fresh streak reset, want preserved")
	}
	if streaks.rows["stale"].CurrentStreak != 0 {
		t.Fatalf("stale streak = %d, want 0", streaks.rows["stale"].CurrentStreak)
	}
}
