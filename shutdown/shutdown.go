// Package shutdown coordinates graceful teardown of the client session.
//
// The synchronizer and its transport must stop in order: first the store
// (no more reconciliation passes), then the transport (session close).
// The coordinator runs registered handlers in ascending phase order,
// concurrently within a phase.
package shutdown

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/renderloop/configsync/logging"
)

// Common errors.
var (
	// ErrAlreadyShutdown indicates shutdown was already initiated.
	ErrAlreadyShutdown = errors.New("shutdown already initiated")

	// ErrTimeout indicates shutdown did not complete within the timeout.
	ErrTimeout = errors.New("shutdown timeout exceeded")
)

// Conventional phases for the client session.
const (
	// PhaseStore stops the synchronizer before the session link drops.
	PhaseStore = 10

	// PhaseTransport tears down the session link.
	PhaseTransport = 20
)

// DefaultTimeout bounds a signal-initiated shutdown.
const DefaultTimeout = 10 * time.Second

// Handler is implemented by components that need graceful shutdown.
type Handler interface {
	// OnShutdown is called when shutdown is initiated. The context is
	// cancelled when the timeout is reached.
	OnShutdown(ctx context.Context) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context) error

// OnShutdown implements Handler.
func (f HandlerFunc) OnShutdown(ctx context.Context) error {
	return f(ctx)
}

type registration struct {
	name    string
	handler Handler
	phase   int
}

// Coordinator runs registered handlers in phase order on shutdown.
type Coordinator struct {
	log *logging.Logger

	mu       sync.Mutex
	handlers []registration

	once       sync.Once
	err        error
	done       chan struct{}
	signalChan chan os.Signal
}

// NewCoordinator creates a shutdown coordinator. A nil logger disables
// progress logging.
func NewCoordinator(log *logging.Logger) *Coordinator {
	if log == nil {
		log = logging.New()
		log.SetOutput(io.Discard)
	}
	return &Coordinator{
		log:        log,
		done:       make(chan struct{}),
		signalChan: make(chan os.Signal, 1),
	}
}

// Register adds a handler for the given phase. Lower phases run first;
// handlers sharing a phase run concurrently.
func (c *Coordinator) Register(name string, handler Handler, phase int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, registration{name: name, handler: handler, phase: phase})
}

// RegisterFunc registers a plain function as a handler.
func (c *Coordinator) RegisterFunc(name string, fn func(ctx context.Context) error, phase int) {
	c.Register(name, HandlerFunc(fn), phase)
}

// Shutdown runs all handlers. Subsequent calls return the first run's
// outcome, or ErrAlreadyShutdown while that run is still in progress.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.once.Do(func() {
		c.err = c.run(ctx)
		close(c.done)
	})

	select {
	case <-c.done:
		return c.err
	default:
		return ErrAlreadyShutdown
	}
}

// ShutdownWithTimeout runs Shutdown bounded by the given timeout.
func (c *Coordinator) ShutdownWithTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return c.Shutdown(ctx)
}

// HandleSignals triggers shutdown on SIGTERM or SIGINT.
func (c *Coordinator) HandleSignals() {
	signal.Notify(c.signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-c.signalChan
		_ = c.ShutdownWithTimeout(DefaultTimeout)
	}()
}

// Trigger initiates shutdown as if a signal had arrived.
func (c *Coordinator) Trigger() {
	select {
	case c.signalChan <- syscall.SIGTERM:
	default:
	}
}

// Done is closed when shutdown has completed.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Err returns the shutdown outcome. Only valid after Done is closed.
func (c *Coordinator) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

func (c *Coordinator) run(ctx context.Context) error {
	c.mu.Lock()
	handlers := make([]registration, len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].phase < handlers[j].phase
	})

	var errs []error
	for start := 0; start < len(handlers); {
		end := start
		for end < len(handlers) && handlers[end].phase == handlers[start].phase {
			end++
		}

		select {
		case <-ctx.Done():
			errs = append(errs, ErrTimeout)
			return errors.Join(errs...)
		default:
		}

		errs = append(errs, c.runPhase(ctx, handlers[start:end])...)
		start = end
	}

	return errors.Join(errs...)
}

func (c *Coordinator) runPhase(ctx context.Context, handlers []registration) []error {
	results := make([]error, len(handlers))
	var wg sync.WaitGroup

	for i, reg := range handlers {
		wg.Add(1)
		go func(idx int, r registration) {
			defer wg.Done()
			start := time.Now()
			err := r.handler.OnShutdown(ctx)
			results[idx] = err
			if err != nil {
				c.log.Error("shutdown handler failed", map[string]interface{}{
					"handler": r.name,
					"phase":   r.phase,
					"error":   err.Error(),
				})
				return
			}
			c.log.Debug("shutdown handler done", map[string]interface{}{
				"handler": r.name,
				"phase":   r.phase,
				"took":    time.Since(start).String(),
			})
		}(i, reg)
	}

	wg.Wait()

	var errs []error
	for _, err := range results {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
