package cleaner

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"tg-autodelete/internal/logger"
)

// Scheduler triggers the cleaner on a fixed interval. Timer fires that
// arrive while a sweep is still running are skipped; the cleaner's own run
// lock covers manual triggers arriving through other entry points.
type Scheduler struct {
	cleaner  *Cleaner
	cron     *cron.Cron
	interval time.Duration
}

// NewScheduler creates a scheduler sweeping every interval.
func NewScheduler(cleaner *Cleaner, interval time.Duration) *Scheduler {
	return &Scheduler{
		cleaner:  cleaner,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{}))),
		interval: interval,
	}
}

// Start begins periodic sweeping until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(func() {
		s.cleaner.Sweep(ctx)
	}))
	s.cron.Start()

	logger.Infof("Sweep scheduler started with interval: %v", s.interval)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

// Stop halts scheduling and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	logger.Infof("Sweep scheduler stopped")
}

// NextRun returns when the next scheduled sweep fires, or the zero time if
// the scheduler is not running.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// cronLogger routes cron's messages into the application log.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debugf("cron: %s %v", msg, keysAndValues)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Errorf("cron: %s: %v %v", msg, err, keysAndValues)
}
