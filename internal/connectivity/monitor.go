package connectivity

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Event int

const (
	EventOffline Event = iota
	EventOnline
)

func (e Event) String() string {
	if e == EventOnline {
		return "online"
	}
	return "offline"
}

// ProbeFunc reports whether the backend is reachable right now.
type ProbeFunc func(ctx context.Context) bool

const probeTimeout = 5 * time.Second

// Monitor is the connectivity oracle and background sync trigger. It probes
// on demand and on an interval, publishes online/offline transitions to
// subscribers, and on reconnection runs the registered best-effort sync tasks
// plus the guaranteed manual fallback.
type Monitor struct {
	probe    ProbeFunc
	interval time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	subs     []chan Event
	tasks    map[string]func(context.Context)
	fallback func(context.Context)
	online   bool
	probed   bool

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewMonitor(probe ProbeFunc, interval time.Duration, logger *zap.Logger) *Monitor {
	return &Monitor{
		probe:    probe,
		interval: interval,
		logger:   logger,
		tasks:    make(map[string]func(context.Context)),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Online probes at call time; the result is never served from a staleness
// window.
func (m *Monitor) Online() bool {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	online := m.probe(ctx)
	m.record(online)
	return online
}

// Subscribe returns a channel receiving connectivity transitions. Sends are
// non-blocking; a slow subscriber misses events rather than stalling the
// monitor.
func (m *Monitor) Subscribe() <-chan Event {
	ch := make(chan Event, 4)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

// RegisterSyncTask registers a named best-effort task run when connectivity
// returns. The platform may never invoke it; the fallback is the guaranteed
// path.
func (m *Monitor) RegisterSyncTask(name string, fn func(context.Context)) {
	m.mu.Lock()
	m.tasks[name] = fn
	m.mu.Unlock()
}

// SetFallback sets the manual sync invocation that always runs on an
// offline-to-online transition.
func (m *Monitor) SetFallback(fn func(context.Context)) {
	m.mu.Lock()
	m.fallback = fn
	m.mu.Unlock()
}

// Start begins the background probe loop.
func (m *Monitor) Start() {
	go m.loop()
}

// Stop halts the probe loop; an in-flight sync is not cancelled.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	<-m.done
}

func (m *Monitor) loop() {
	defer close(m.done)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
			online := m.probe(ctx)
			cancel()
			m.record(online)
		}
	}
}

func (m *Monitor) record(online bool) {
	m.mu.Lock()
	was, probed := m.online, m.probed
	m.online, m.probed = online, true
	subs := make([]chan Event, len(m.subs))
	copy(subs, m.subs)
	tasks := make(map[string]func(context.Context), len(m.tasks))
	for name, fn := range m.tasks {
		tasks[name] = fn
	}
	fallback := m.fallback
	m.mu.Unlock()

	if probed && was == online {
		return
	}

	event := EventOffline
	if online {
		event = EventOnline
	}
	m.logger.Info("Connectivity changed", zap.String("status", event.String()))

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}

	// Going offline only updates status; sync fires on the way back up, and
	// only on a real transition, not on the first probe.
	if !online || !probed || was {
		return
	}

	for name, fn := range tasks {
		m.logger.Info("Triggering background sync task", zap.String("task", name))
		go fn(context.Background())
	}
	if fallback != nil {
		m.logger.Info("Triggering manual sync fallback")
		go fallback(context.Background())
	}
}
