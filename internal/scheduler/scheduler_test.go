package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
)

type fakeSweeper struct{ days []time.Time }

func (f *fakeSweeper) Sweep(_ context.Context, today time.Time) ([]models.Alert, error) {
	f.days = append(f.days, today)
	return []models.Alert{{ID: "a"}, {ID: "b"}}, nil
}

type fakeDigest struct{ err error }

func (f fakeDigest) DailyDigest(_ context.Context, date time.Time) (string, error) {
	return "Dairy summary " + date.Format(models.DateLayout), f.err
}

type captureNotifier struct{ messages []string }

func (c *captureNotifier) Notify(_ context.Context, message string) error {
	c.messages = append(c.messages, message)
	return nil
}

func (c *captureNotifier) Send(ctx context.Context, msg models.OutboundMessage) error {
	return c.Notify(ctx, msg.Message)
}

func TestNewSchedulerRejectsBadExpression(t *testing.T) {
	_, err := NewScheduler(Schedules{Sweep: "every morning"}, time.UTC, &fakeSweeper{}, nil, nil, nil)
	if err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestJobsUseSchedulerLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	sweeper := &fakeSweeper{}
	notifier := &captureNotifier{}
	s, err := NewScheduler(Schedules{Sweep: "0 6 * * *", Digest: "0 19 * * *"}, loc, sweeper, fakeDigest{}, notifier, nil)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	if got := len(s.cron.Entries()); got != 2 {
		t.Fatalf("expected 2 jobs, got %d", got)
	}
	s.now = func() time.Time { return time.Date(2024, 1, 20, 22, 30, 0, 0, time.UTC) }

	n, err := s.SweepNow(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("SweepNow = %d, %v", n, err)
	}
	if day := sweeper.days[0].Format(models.DateLayout); day != "2024-01-21" {
		t.Fatalf("sweep should run on the local day, got %s", day)
	}

	if err := s.DigestNow(context.Background()); err != nil {
		t.Fatalf("DigestNow: %v", err)
	}
	if len(notifier.messages) != 1 || notifier.messages[0] != "Dairy summary 2024-01-21" {
		t.Fatalf("unexpected digest messages %v", notifier.messages)
	}
}

func TestDigestFailureIsNotSent(t *testing.T) {
	notifier := &captureNotifier{}
	s, err := NewScheduler(Schedules{}, nil, nil, fakeDigest{err: errors.New("store offline")}, notifier, nil)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	if err := s.DigestNow(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if len(notifier.messages) != 0 {
		t.Fatalf("nothing should be sent on failure")
	}
}
