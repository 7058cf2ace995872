package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/renderloop/configsync/errors"
	"github.com/renderloop/configsync/logging"
	"github.com/renderloop/configsync/protocol"
	"github.com/renderloop/configsync/telemetry"
	"github.com/renderloop/configsync/transport"
)

// setting is one named unit of remote-synchronized state.
type setting struct {
	desired     protocol.Command
	current     protocol.Command // nil until confirmed
	notifies    bool
	waiting     bool
	lastSync    time.Time
	resyncCount int
}

// Store tracks desired vs. confirmed state per key and drives outbound
// synchronization against the remote renderer.
type Store struct {
	tr       transport.Transport
	interval time.Duration
	limit    int
	log      *logging.Logger
	tracer   *telemetry.Tracer

	mu         sync.Mutex
	settings   map[string]*setting
	timedOut   bool
	timeoutCBs []func()

	listenOnce sync.Once
	closeOnce  sync.Once
	done       chan struct{}

	now func() time.Time
}

// NewStore creates a Store with a fixed key set. The store does not own the
// transport; it only sends on it and commands a disconnect on timeout.
func NewStore(tr transport.Transport, specs []SettingSpec, cfg Config) (*Store, error) {
	if tr == nil {
		return nil, ErrNilTransport
	}
	if len(specs) == 0 {
		return nil, ErrNoSettings
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	interval := cfg.ResyncInterval
	if interval == 0 {
		interval = DefaultConfig().ResyncInterval
	}
	limit := cfg.ResyncLimit
	if limit == 0 {
		limit = DefaultConfig().ResyncLimit
	}
	log := cfg.Logger
	if log == nil {
		log = logging.New().WithComponent("reconcile")
	}

	settings := make(map[string]*setting, len(specs))
	for _, spec := range specs {
		if spec.Key == "" {
			return nil, ErrEmptyKey
		}
		if spec.Initial == nil {
			return nil, ErrNilInitial
		}
		if _, exists := settings[spec.Key]; exists {
			return nil, ErrDuplicateKey
		}
		settings[spec.Key] = &setting{
			desired:  spec.Initial,
			notifies: spec.ServerNotifies,
		}
	}

	s := &Store{
		tr:       tr,
		interval: interval,
		limit:    limit,
		log:      log,
		tracer:   telemetry.GetTracer(),
		settings: settings,
		done:     make(chan struct{}),
		now:      time.Now,
	}

	go s.pollLoop()

	return s, nil
}

// Get returns the last confirmed state for key, or nil if the key is
// unknown or never confirmed.
func (s *Store) Get(key string) protocol.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.settings[key]
	if !ok {
		return nil
	}
	return st.current
}

// Desired returns the current desired state for key. A nil return means the
// key was never registered, which is a caller bug.
func (s *Store) Desired(key string) protocol.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.settings[key]
	if !ok {
		return nil
	}
	return st.desired
}

// IsAwaitingCompletion reports whether a change to key is mid-flight.
func (s *Store) IsAwaitingCompletion(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.settings[key]
	return ok && st.waiting
}

// Set requests that key's desired state become cmd. Writes to unknown keys,
// nil values, and keys awaiting completion are dropped, not queued; a
// successful write triggers an asynchronous reconciliation pass.
func (s *Store) Set(key string, cmd protocol.Command) {
	if cmd == nil {
		s.log.WriteRejected(key, "nil value")
		return
	}

	s.mu.Lock()
	st, ok := s.settings[key]
	if !ok {
		s.mu.Unlock()
		s.log.WriteRejected(key, errors.UnknownKey(key).Error())
		return
	}
	if st.waiting {
		s.mu.Unlock()
		s.log.WriteRejected(key, errors.WriteInFlight(key).Error())
		return
	}

	st.desired = cmd
	st.lastSync = s.now()
	s.mu.Unlock()

	go s.sync("set")
}

// Send serializes cmd and forwards it to the transport without touching any
// setting's state. Used for one-shot commands such as rotation pulses.
func (s *Store) Send(cmd protocol.Command) error {
	data, err := cmd.Marshal()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tr.Send(data); err != nil {
		if err == transport.ErrClosed {
			return errors.TransportClosed("renderer session is closed", errors.WithCause(err))
		}
		return err
	}
	return nil
}

// Resync clears confirmed state, retry counts, and the timeout flag for
// every key, then re-sends all desired state. Called after a (re)connection.
func (s *Store) Resync() {
	s.mu.Lock()
	for _, st := range s.settings {
		st.current = nil
		st.waiting = false
		st.resyncCount = 0
	}
	s.timedOut = false
	s.mu.Unlock()

	go s.sync("resync")
}

// TimedOut reports whether the server stopped confirming changes and the
// store forced a disconnect.
func (s *Store) TimedOut() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timedOut
}

// OnTimeout registers a callback invoked when confirmation starvation is
// escalated. Callbacks run outside the store's critical section.
func (s *Store) OnTimeout(callback func()) {
	s.mu.Lock()
	s.timeoutCBs = append(s.timeoutCBs, callback)
	s.mu.Unlock()
}

// Close stops the staleness poll. The acknowledgment listener ends when the
// transport's inbound stream does; the transport itself is left alone.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// sync runs one reconciliation pass under the store's lock.
func (s *Store) sync(trigger string) {
	s.mu.Lock()
	s.reconcileLocked(trigger)
	s.mu.Unlock()
}

// reconcileLocked sends desired state for every key whose confirmed state
// is absent or divergent. Caller must hold s.mu; the whole pass is one
// critical section so no partial view of the store is observable.
func (s *Store) reconcileLocked(trigger string) {
	s.listenOnce.Do(func() {
		go s.listen()
	})

	_, span := s.tracer.StartReconcileSpan(context.Background())

	sent := 0
	now := s.now()
	for key, st := range s.settings {
		if st.current != nil && st.current.Equal(st.desired) {
			continue
		}

		data, err := st.desired.Marshal()
		if err != nil {
			s.log.Error("encode_failed", map[string]interface{}{
				"key":   key,
				"error": err,
			})
			continue
		}
		if err := s.tr.Send(data); err != nil {
			s.log.Warn("send_failed", map[string]interface{}{
				"key":   key,
				"error": err,
			})
		}

		if st.notifies {
			st.waiting = true
		} else {
			// No confirmation expected; assume applied.
			st.current = st.desired
		}
		st.lastSync = now
		sent++
		s.log.SyncSent(key, st.desired.CommandType())
	}

	pending := 0
	for _, st := range s.settings {
		if st.waiting {
			pending++
		}
	}
	s.tracer.EndReconcileSpan(span, telemetry.ReconcileSpanOptions{
		Trigger: trigger,
		Sent:    sent,
		Pending: pending,
	}, nil)
}

// listen consumes inbound payloads for the lifetime of the transport.
func (s *Store) listen() {
	for data := range s.tr.Inbound() {
		s.handleInbound(data)
	}
}

// handleInbound resolves every waiting key whose variant set the renderer
// just confirmed. A notification with no waiting keys is a no-op.
func (s *Store) handleInbound(data []byte) {
	ack, err := protocol.ParseAck(data)
	if err != nil {
		s.log.MessageDropped(err.Error())
		return
	}

	_, span := s.tracer.StartAckSpan(context.Background())

	s.mu.Lock()
	resolved := 0
	for _, st := range s.settings {
		if st.notifies && st.waiting && st.desired.AckKey() == ack.VariantSet {
			st.current = st.desired
			st.waiting = false
			st.resyncCount = 0
			resolved++
		}
	}
	s.mu.Unlock()

	s.log.AckReceived(ack.VariantSet, resolved)
	s.tracer.EndAckSpan(span, telemetry.AckSpanOptions{
		VariantSet: ack.VariantSet,
		Resolved:   resolved,
	}, nil)
}

// pollLoop runs the staleness poll until Close.
func (s *Store) pollLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.pollOnce()
		}
	}
}

// pollOnce scans waiting keys, escalates starved ones, and re-sends stale
// ones in a single pass after the scan.
func (s *Store) pollOnce() {
	var callbacks []func()

	s.mu.Lock()
	now := s.now()
	needSync := false
	escalated := false
	wasTimedOut := s.timedOut

	for key, st := range s.settings {
		if !st.waiting {
			continue
		}
		if st.resyncCount > s.limit {
			// Give up waiting: adopt the desired state locally and
			// surface the failure session-wide.
			count := st.resyncCount
			st.current = st.desired
			st.waiting = false
			st.resyncCount = 0
			s.timedOut = true
			escalated = true
			s.log.TimeoutEscalated(key, count)
		} else if now.Sub(st.lastSync) > s.interval {
			st.resyncCount++
			s.log.ResyncScheduled(key, st.resyncCount)
			needSync = true
		}
	}

	// Disconnect once per timed-out episode; Resync re-arms escalation.
	if escalated && !wasTimedOut {
		_ = s.tr.Disconnect()
		callbacks = append(callbacks, s.timeoutCBs...)
	}
	if needSync {
		s.reconcileLocked("poll")
	}
	s.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}
}
