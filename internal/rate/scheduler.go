package rate

import (
	"context"
	"errors"
	"sync"
	"time"

	"tipocambio/internal/domain"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

const DefaultCron = "0 7 * * *"

type SyncRunner interface {
	Sync(ctx context.Context) domain.SyncResult
}

// Scheduler triggers the sync at every occurrence of a cron expression.
// Missed occurrences are not caught up and runs are not serialized.
type Scheduler struct {
	runner   SyncRunner
	cronExpr string
	location *time.Location
	clock    clockwork.Clock
	// -----
	mu    sync.Mutex
	sched gocron.Scheduler
	job   gocron.Job
}

func (s *Scheduler) Start(ctx context.Context) error {
	opts := []gocron.SchedulerOption{gocron.WithLocation(s.location)}
	if s.clock != nil {
		opts = append(opts, gocron.WithClock(s.clock))
	}
	scheduler, err := gocron.NewScheduler(opts...)
	if err != nil {
		return err
	}

	task := func(jobCtx context.Context) {
		logrus.Info("Running scheduled exchange rate sync")
		s.runner.Sync(jobCtx)
	}

	job, err := scheduler.NewJob(
		gocron.CronJob(s.cronExpr, false),
		gocron.NewTask(task),
		gocron.WithName("exchange-rate-sync"),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return err
	}

	s.mu.Lock()
	s.sched = scheduler
	s.job = job
	s.mu.Unlock()

	scheduler.Start()
	logrus.Infof("Exchange rate sync scheduled with %q (%s)", s.cronExpr, s.location)

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

// NextRun returns the next time the sync will fire.
func (s *Scheduler) NextRun() (time.Time, error) {
	s.mu.Lock()
	job := s.job
	s.mu.Unlock()
	if job == nil {
		return time.Time{}, errors.New("scheduler is not running")
	}
	return job.NextRun()
}

// NextRuns returns the next count fire times.
func (s *Scheduler) NextRuns(count int) ([]time.Time, error) {
	s.mu.Lock()
	job := s.job
	s.mu.Unlock()
	if job == nil {
		return nil, errors.New("scheduler is not running")
	}
	return job.NextRuns(count)
}

func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	s.job = nil
	return err
}

// NewScheduler builds a scheduler for cronExpr in loc. An empty expression means DefaultCron,
// a nil clock means the wall clock.
func NewScheduler(runner SyncRunner, cronExpr string, loc *time.Location, clock clockwork.Clock) *Scheduler {
	if cronExpr == "" {
		cronExpr = DefaultCron
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{runner: runner, cronExpr: cronExpr, location: loc, clock: clock}
}
