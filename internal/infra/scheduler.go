package infra

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// SnapshotRefresher reloads a cached market snapshot
type SnapshotRefresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler runs the periodic market snapshot refresh
type Scheduler struct {
	cron      *cron.Cron
	refresher SnapshotRefresher
	spec      string
	timeout   time.Duration
	log       logrus.FieldLogger
}

// NewScheduler creates a new scheduler.
// spec is a standard 5-field cron expression and defaults to every minute.
func NewScheduler(refresher SnapshotRefresher, spec string, log logrus.FieldLogger) *Scheduler {
	if spec == "" {
		spec = "*/1 * * * *"
	}
	return &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		spec:      spec,
		timeout:   30 * time.Second,
		log:       log.WithField("component", "scheduler"),
	}
}

// Start registers the refresh job and starts the cron loop
func (s *Scheduler) Start() error {
	s.log.WithField("spec", s.spec).Info("Starting market snapshot scheduler")

	if _, err := s.cron.AddFunc(s.spec, s.runOnce); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("[OK] Scheduler started")
	return nil
}

// RunNow refreshes the snapshot immediately
func (s *Scheduler) RunNow() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.refresher.Refresh(ctx)
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	s.log.Info("Stopping scheduler...")
	<-s.cron.Stop().Done()
	s.log.Info("[OK] Scheduler stopped")
}

func (s *Scheduler) runOnce() {
	if err := s.RunNow(); err != nil {
		s.log.WithError(err).Error("Scheduled market snapshot refresh failed")
	}
}
