package shutdown

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCoordinator_PhaseOrder(t *testing.T) {
	c := NewCoordinator(nil)

	var mu sync.Mutex
	var order []string
	record := func(name string) func(context.Context) error {
		return func(ctx context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}
	}

	// Registered out of order; phases decide execution order.
	c.RegisterFunc("transport", record("transport"), PhaseTransport)
	c.RegisterFunc("store", record("store"), PhaseStore)

	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	if len(order) != 2 || order[0] != "store" || order[1] != "transport" {
		t.Errorf("execution order = %v, want [store transport]", order)
	}
}

func TestCoordinator_ConcurrentWithinPhase(t *testing.T) {
	c := NewCoordinator(nil)

	// Two handlers in the same phase rendezvous with each other. This
	// only completes if they run concurrently.
	barrier := make(chan struct{})
	meet := func(ctx context.Context) error {
		select {
		case barrier <- struct{}{}:
		case <-barrier:
		case <-time.After(2 * time.Second):
			return errors.New("peer never arrived")
		}
		return nil
	}
	c.RegisterFunc("a", meet, PhaseStore)
	c.RegisterFunc("b", meet, PhaseStore)

	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestCoordinator_CollectsErrors(t *testing.T) {
	c := NewCoordinator(nil)

	boom := errors.New("boom")
	c.RegisterFunc("failing", func(ctx context.Context) error { return boom }, PhaseStore)

	ran := false
	c.RegisterFunc("later", func(ctx context.Context) error {
		ran = true
		return nil
	}, PhaseTransport)

	err := c.Shutdown(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Shutdown error = %v, want to wrap boom", err)
	}
	if !ran {
		t.Error("later phases must still run after a handler fails")
	}
}

func TestCoordinator_SecondShutdownReturnsFirstOutcome(t *testing.T) {
	c := NewCoordinator(nil)

	boom := errors.New("boom")
	c.RegisterFunc("failing", func(ctx context.Context) error { return boom }, PhaseStore)

	first := c.Shutdown(context.Background())
	second := c.Shutdown(context.Background())

	if !errors.Is(first, boom) || !errors.Is(second, boom) {
		t.Errorf("first = %v, second = %v, both should report the original failure", first, second)
	}
}

func TestCoordinator_Timeout(t *testing.T) {
	c := NewCoordinator(nil)

	c.RegisterFunc("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, PhaseStore)
	c.RegisterFunc("never", func(ctx context.Context) error {
		t.Error("later phase should not run after the deadline")
		return nil
	}, PhaseTransport)

	err := c.ShutdownWithTimeout(50 * time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("ShutdownWithTimeout error = %v, want ErrTimeout", err)
	}
}

func TestCoordinator_Trigger(t *testing.T) {
	c := NewCoordinator(nil)

	done := make(chan struct{})
	c.RegisterFunc("store", func(ctx context.Context) error {
		close(done)
		return nil
	}, PhaseStore)

	c.HandleSignals()
	c.Trigger()

	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not complete after Trigger")
	}
	select {
	case <-done:
	default:
		t.Error("handler did not run")
	}
	if err := c.Err(); err != nil {
		t.Errorf("Err = %v, want nil", err)
	}
}
