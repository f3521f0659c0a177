// Package scheduler drives evaluation and reconciliation from cron expressions.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/edgecast/internal/service"
)

// Evaluator runs one evaluation cycle
type Evaluator interface {
	RunCycle(ctx context.Context) (*service.CycleReport, error)
}

// Reconciler runs one reconciliation pass
type Reconciler interface {
	Reconcile(ctx context.Context) (*service.ReconcileReport, error)
}

// Scheduler manages the scheduled pipeline jobs
type Scheduler struct {
	cron            *cron.Cron
	logger          *logrus.Entry
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	jobTimeout      time.Duration
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler. Overlapping runs of the same job are skipped.
func NewScheduler(logger *logrus.Logger) *Scheduler {
	entry := logger.WithField("component", "scheduler")
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger:          entry,
		jobIDs:          make([]cron.EntryID, 0),
		jobTimeout:      30 * time.Minute,
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleEvaluation schedules evaluation cycles
func (s *Scheduler) ScheduleEvaluation(cronExpression string, evaluator Evaluator) error {
	return s.addJob("evaluate", cronExpression, func(ctx context.Context) error {
		report, err := evaluator.RunCycle(ctx)
		if err != nil {
			return err
		}
		s.logger.WithFields(logrus.Fields{
			"run_id":          report.RunID,
			"recommendations": len(report.Recommendations),
			"failures":        len(report.Failures),
		}).Info("Scheduled evaluation completed")
		return nil
	})
}

// ScheduleReconciliation schedules reconciliation passes
func (s *Scheduler) ScheduleReconciliation(cronExpression string, reconciler Reconciler) error {
	return s.addJob("reconcile", cronExpression, func(ctx context.Context) error {
		report, err := reconciler.Reconcile(ctx)
		if err != nil {
			return err
		}
		s.logger.WithFields(logrus.Fields{
			"checked":  report.Checked,
			"resolved": report.Resolved,
		}).Info("Scheduled reconciliation completed")
		return nil
	})
}

func (s *Scheduler) addJob(name, cronExpression string, run func(context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()

		if err := run(ctx); err != nil {
			s.logger.WithField("job", name).WithError(err).Error("Scheduled job failed")
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":      name,
		"schedule": cronExpression,
	}).Info("Scheduled job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for running jobs up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler stop timed out after %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}
