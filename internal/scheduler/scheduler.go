// Package scheduler runs the alert sweep and the daily digest on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairyflow/internal/domain/models"
	"github.com/mamadbah2/dairyflow/internal/service/notify"
)

const jobTimeout = 2 * time.Minute

// Sweeper raises derived alerts for a day.
type Sweeper interface {
	Sweep(ctx context.Context, today time.Time) ([]models.Alert, error)
}

// Digester renders the daily summary.
type Digester interface {
	DailyDigest(ctx context.Context, date time.Time) (string, error)
}

// Schedules are the cron expressions of the jobs. An empty expression disables the job.
type Schedules struct {
	Sweep  string
	Digest string
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	sweeper  Sweeper
	digest   Digester
	notifier notify.Notifier
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewScheduler creates a scheduler firing in loc and registers the configured jobs.
func NewScheduler(schedules Schedules, loc *time.Location, sweeper Sweeper, digest Digester, notifier notify.Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	if notifier == nil {
		notifier = notify.NewNop(logger)
	}

	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		sweeper:  sweeper,
		digest:   digest,
		notifier: notifier,
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}

	if schedules.Sweep != "" && sweeper != nil {
		if _, err := s.cron.AddFunc(schedules.Sweep, s.runSweep); err != nil {
			return nil, fmt.Errorf("schedule alert sweep %q: %w", schedules.Sweep, err)
		}
	}
	if schedules.Digest != "" && digest != nil {
		if _, err := s.cron.AddFunc(schedules.Digest, s.runDigest); err != nil {
			return nil, fmt.Errorf("schedule daily digest %q: %w", schedules.Digest, err)
		}
	}
	return s, nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.SweepNow(ctx); err != nil {
		s.logger.Error("alert sweep failed", zap.Error(err))
	}
}

func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := s.DigestNow(ctx); err != nil {
		s.logger.Error("daily digest failed", zap.Error(err))
	}
}

// SweepNow runs the alert sweep for the current day and returns how many alerts it raised.
func (s *Scheduler) SweepNow(ctx context.Context) (int, error) {
	created, err := s.sweeper.Sweep(ctx, s.now().In(s.loc))
	if err != nil {
		return 0, err
	}
	s.logger.Debug("scheduled sweep done", zap.Int("created", len(created)))
	return len(created), nil
}

// DigestNow builds the daily digest and sends it to the farm recipient.
func (s *Scheduler) DigestNow(ctx context.Context) error {
	text, err := s.digest.DailyDigest(ctx, s.now().In(s.loc))
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}
	if err := s.notifier.Notify(ctx, text); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	s.logger.Info("daily digest sent")
	return nil
}
