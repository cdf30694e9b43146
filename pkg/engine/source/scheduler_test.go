package source

import (
	"testing"
)

func TestRefreshSchedulerStartStop(t *testing.T) {
	s := NewRefreshScheduler("*/15 * * * *", nil)

	if err := s.Start(func() error { return nil }); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer s.Stop()

	if err := s.Start(func() error { return nil }); err == nil {
		t.Error("second Start() should fail while running")
	}
}

func TestRefreshSchedulerInvalidSchedule(t *testing.T) {
	s := NewRefreshScheduler("not a cron expression", nil)
	if err := s.Start(func() error { return nil }); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestRefreshSchedulerStopWithoutStart(t *testing.T) {
	s := NewRefreshScheduler("*/5 * * * *", nil)
	// Stop on a never-started scheduler is a no-op.
	s.Stop()
}
