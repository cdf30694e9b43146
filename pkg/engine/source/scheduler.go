package source

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// RefreshScheduler periodically invokes a refresh callback on a cron
// schedule. It backstops the watcher for backends that emit no change
// events, such as the SQLite store or network filesystems.
type RefreshScheduler struct {
	cron     *cron.Cron
	logger   *slog.Logger
	schedule string

	mu      sync.Mutex
	running bool
}

// NewRefreshScheduler creates a scheduler with a standard cron schedule,
// e.g. "*/15 * * * *" for every 15 minutes.
func NewRefreshScheduler(schedule string, logger *slog.Logger) *RefreshScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RefreshScheduler{
		cron:     cron.New(),
		logger:   logger,
		schedule: schedule,
	}
}

// Start begins running refresh on the schedule.
func (s *RefreshScheduler) Start(refresh func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.logger.Debug("running scheduled rule set refresh")
		if err := refresh(); err != nil {
			s.logger.Error("scheduled rule set refresh failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("rule set refresh scheduler started", "schedule", s.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false

	s.logger.Info("rule set refresh scheduler stopped")
}
