package cli

import (
	"os"
	"syscall"
	"testing"
	"time"
)

func TestSetupSignalHandler(t *testing.T) {
	ctx := SetupSignalHandler()

	select {
	case <-ctx.Done():
		t.Error("context cancelled before any signal")
	default:
	}

	if ctx.Done() == nil {
		t.Error("context has no Done channel")
	}
}

func TestWaitForShutdownEmptyInitially(t *testing.T) {
	sigChan := WaitForShutdown()
	if sigChan == nil {
		t.Fatal("WaitForShutdown() returned nil channel")
	}

	select {
	case sig := <-sigChan:
		t.Errorf("unexpected signal %v before any was sent", sig)
	case <-time.After(10 * time.Millisecond):
	}
}

func TestWaitForShutdownReceivesSignal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping signal delivery test in short mode")
	}

	sigChan := WaitForShutdown()

	go func() {
		time.Sleep(50 * time.Millisecond)
		p, _ := os.FindProcess(os.Getpid())
		_ = p.Signal(syscall.SIGTERM)
	}()

	select {
	case sig := <-sigChan:
		if sig != syscall.SIGTERM {
			t.Errorf("signal = %v, want SIGTERM", sig)
		}
	case <-time.After(200 * time.Millisecond):
		t.Skip("signal not delivered within timeout")
	}
}

func TestSignalContextDrivesShutdown(t *testing.T) {
	// The serve command blocks on this context to trigger server shutdown;
	// a long validation run checks it between rules.
	ctx := SetupSignalHandler()

	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(done)
	}()

	select {
	case <-done:
		t.Error("shutdown triggered before any signal")
	case <-time.After(10 * time.Millisecond):
	}
}
