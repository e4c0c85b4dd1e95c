package connectivity

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

//go:generate moq -out prober_mock.go . Prober

// Prober performs the active connectivity check, a lightweight round trip
// against the backend's health endpoint.
type Prober interface {
	Probe(ctx context.Context) error
}

// Handler receives the new verdict on every connectivity transition.
type Handler func(online bool)

// State is a point-in-time connectivity snapshot.
type State struct {
	LastChangedAt time.Time
	Online        bool
}

const defaultProbeInterval = 30 * time.Second

// Monitor tracks whether the process currently has network access.
// It is constructed explicitly and injected into its consumers; there is
// no package-level instance.
//
// Two signal sources feed it: the periodic active probe started by
// Initialize, and passive reports via SetOnline from callers that observe
// request outcomes.
type Monitor struct {
	prober   Prober
	logger   *slog.Logger
	interval time.Duration

	mu          sync.Mutex
	changedAt   time.Time
	handlers    []subscription
	nextID      int
	online      bool
	initialized bool
}

type subscription struct {
	handler Handler
	id      int
}

// New creates a monitor that verifies connectivity through prober every
// interval. A non-positive interval falls back to 30s.
func New(prober Prober, interval time.Duration, logger *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	return &Monitor{
		prober:   prober,
		logger:   logger,
		interval: interval,
	}
}

// Initialize seeds the verdict with one synchronous probe and starts the
// background probe loop, which runs until ctx is done. Idempotent; extra
// calls are no-ops.
func (m *Monitor) Initialize(ctx context.Context) {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return
	}
	m.initialized = true
	m.mu.Unlock()

	m.Verify(ctx)

	go m.probeLoop(ctx)
}

func (m *Monitor) probeLoop(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Verify(ctx)
		}
	}
}

// IsOnline returns the current cached verdict without blocking.
func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// State returns the current verdict and when it last changed.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{Online: m.online, LastChangedAt: m.changedAt}
}

// Subscribe registers a handler fired synchronously, in registration
// order, on every transition. The returned func removes the subscription.
func (m *Monitor) Subscribe(h Handler) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.handlers = append(m.handlers, subscription{handler: h, id: id})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, sub := range m.handlers {
			if sub.id == id {
				m.handlers = append(m.handlers[:i], m.handlers[i+1:]...)
				return
			}
		}
	}
}

// SetOnline reports a passively observed verdict (a request that failed
// with a transport error, or one that succeeded while marked offline).
// Handlers fire only on an actual transition.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	m.changedAt = time.Now()

	handlers := make([]subscription, len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	if m.logger != nil {
		m.logger.Info("connectivity changed", "online", online)
	}

	for _, sub := range handlers {
		sub.handler(online)
	}
}

// Verify performs the active probe and reconciles the cached verdict with
// its outcome. A probe failure is itself a valid verdict (offline), never
// an error surfaced to the caller.
func (m *Monitor) Verify(ctx context.Context) bool {
	err := m.prober.Probe(ctx)
	online := err == nil
	if err != nil && m.logger != nil {
		m.logger.Debug("connectivity probe failed", "error", err)
	}
	m.SetOnline(online)
	return online
}
