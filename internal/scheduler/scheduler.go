package scheduler

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/hivetool/internal/config"
)

// DigestRunner publishes the weekly digest.
type DigestRunner interface {
	RunWeekly(ctx context.Context, now time.Time, dryRun bool) (string, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	digest   DigestRunner
	schedule string
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler builds a scheduler running in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, digest DigestRunner, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		digest:   digest,
		schedule: cfg.CronSchedule,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Start registers the weekly digest and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sendWeeklyDigest); err != nil {
		return fmt.Errorf("schedule weekly digest %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running digest to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendWeeklyDigest() {
	s.logger.Info("generating weekly digest")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.digest.RunWeekly(ctx, s.now(), false); err != nil {
		s.logger.Error("failed to publish weekly digest", zap.Error(err))
		return
	}
	s.logger.Info("weekly digest sent successfully")
}
