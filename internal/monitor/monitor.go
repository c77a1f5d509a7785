// Package monitor polls the alerts endpoint in the background and
// keeps a cheap unread indicator the UI can read at any time.
package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"investctl/internal/logging"
	"investctl/internal/models"
)

// DefaultPollInterval is used when the configuration leaves the
// interval unset.
const DefaultPollInterval = 60 * time.Second

// AlertPoller is the one remote call the monitor needs.
type AlertPoller interface {
	Alerts(ctx context.Context, unreadOnly bool, limit int) ([]models.Alert, error)
}

// Monitor maintains the unread-alerts indicator. A poll failure keeps
// the previous value; the indicator may be stale but is never wrong
// about what the service last confirmed.
type Monitor struct {
	client   AlertPoller
	interval time.Duration
	log      zerolog.Logger

	hasUnread atomic.Bool

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// New creates a Monitor. interval <= 0 falls back to the default.
func New(client AlertPoller, interval time.Duration, log zerolog.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Monitor{client: client, interval: interval, log: log}
}

// Start launches the polling goroutine. The first poll runs
// immediately, then one per interval. Starting a running monitor is a
// no-op.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running = true

	go m.run(ctx)
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	m.poll(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

// poll asks for at most one unread alert; existence is all the
// indicator needs.
func (m *Monitor) poll(ctx context.Context) {
	alerts, err := m.client.Alerts(ctx, true, 1)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logging.LogPoll(m.log, m.hasUnread.Load(), err)
		return
	}

	m.hasUnread.Store(len(alerts) > 0)
	logging.LogPoll(m.log, len(alerts) > 0, nil)
}

// HasUnread reports the last confirmed indicator value.
func (m *Monitor) HasUnread() bool {
	return m.hasUnread.Load()
}

// Refresh forces a poll outside the schedule, e.g. right after an
// alert was marked read.
func (m *Monitor) Refresh(ctx context.Context) {
	m.poll(ctx)
}

// Stop halts polling and waits for the goroutine to exit. Safe to
// call on a monitor that never started.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel, done := m.cancel, m.done
	m.running = false
	m.mu.Unlock()

	cancel()
	<-done
}
