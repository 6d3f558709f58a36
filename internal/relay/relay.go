// Package relay keeps the single upstream event subscription and fans its
// events out to every open view.
package relay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/nhath/frogtable/internal/events"
)

// Settings controls liveness monitoring
type Settings struct {
	// CheckInterval is how often liveness is checked
	CheckInterval time.Duration
	// StaleAfter is how long the stream may stay silent before it is reopened
	StaleAfter time.Duration
	// Now is the clock; tests replace it
	Now func() time.Time
}

// DefaultSettings checks every 5s and reconnects after 10s of silence
func DefaultSettings() *Settings {
	return &Settings{
		CheckInterval: 5000 * time.Millisecond,
		StaleAfter:    10000 * time.Millisecond,
		Now:           time.Now,
	}
}

// Source opens one upstream subscription
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Subscriber receives every non-heartbeat event, in receipt order.
// It runs on the relay's reader goroutine and must not block for long.
type Subscriber func(events.Event)

type subscriber struct {
	id uint64
	fn Subscriber
}

// Status is a point-in-time view of the relay
type Status struct {
	Connected     bool
	LastMessageAt time.Time
	Reconnects    int
	Subscribers   int
}

// Relay owns the only upstream subscription of the process. Construct one
// at startup and run it until exit.
type Relay struct {
	src      Source
	logger   *slog.Logger
	settings *Settings

	mu            sync.Mutex
	ctx           context.Context
	cancel        context.CancelFunc // cancels the current subscription
	body          io.ReadCloser
	generation    uint64
	connected     bool
	lastMessageAt time.Time
	reconnects    int

	// serializes fan-out so a superseded reader cannot interleave
	deliverMu sync.Mutex

	subMu       sync.Mutex
	nextSubID   uint64
	subscribers []subscriber // copy on write
}

// New creates a relay reading from src
func New(src Source, logger *slog.Logger, settings *Settings) *Relay {
	if settings == nil {
		settings = DefaultSettings()
	}
	defaults := DefaultSettings()
	if settings.Now == nil {
		settings.Now = defaults.Now
	}
	if settings.CheckInterval <= 0 {
		settings.CheckInterval = defaults.CheckInterval
	}
	if settings.StaleAfter <= 0 {
		settings.StaleAfter = defaults.StaleAfter
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Relay{
		src:      src,
		logger:   logger,
		settings: settings,
	}
}

// Subscribe registers fn and returns a function that removes it
func (r *Relay) Subscribe(fn Subscriber) (unsubscribe func()) {
	r.subMu.Lock()
	r.nextSubID++
	id := r.nextSubID
	next := slices.Clone(r.subscribers)
	next = append(next, subscriber{id: id, fn: fn})
	r.subscribers = next
	r.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.unsubscribe(id) })
	}
}

func (r *Relay) unsubscribe(id uint64) {
	r.subMu.Lock()
	defer r.subMu.Unlock()

	i := slices.IndexFunc(r.subscribers, func(s subscriber) bool { return s.id == id })
	if i < 0 {
		return
	}
	next := slices.Clone(r.subscribers)
	r.subscribers = slices.Delete(next, i, i+1)
}

func (r *Relay) snapshot() []subscriber {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	return r.subscribers
}

// Status reports connection and subscriber state
func (r *Relay) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Status{
		Connected:     r.connected,
		LastMessageAt: r.lastMessageAt,
		Reconnects:    r.reconnects,
		Subscribers:   len(r.snapshot()),
	}
}

// Run connects and monitors liveness until ctx is done
func (r *Relay) Run(ctx context.Context) error {
	r.mu.Lock()
	r.ctx = ctx
	r.mu.Unlock()

	r.connect()
	defer r.disconnect()

	ticker := time.NewTicker(r.settings.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.checkLiveness()
		}
	}
}

// checkLiveness reopens the subscription when it has been silent too long.
// It reports whether a reconnect happened.
func (r *Relay) checkLiveness() bool {
	r.mu.Lock()
	silent := r.settings.Now().Sub(r.lastMessageAt)
	stale := silent > r.settings.StaleAfter
	if stale {
		r.reconnects++
	}
	attempt := r.reconnects
	r.mu.Unlock()

	if !stale {
		return false
	}
	r.logger.Info("event stream stale, reconnecting", "silent", silent, "attempt", attempt)
	r.connect()
	return true
}

// connect replaces the current subscription with a new one. The open runs
// on its own goroutine so a server that never answers cannot stall the
// liveness monitor; the next stale check cancels it.
func (r *Relay) connect() {
	r.mu.Lock()
	r.closeLocked()
	parent := r.ctx
	if parent == nil {
		parent = context.Background()
	}
	if parent.Err() != nil {
		r.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel
	r.generation++
	gen := r.generation
	r.lastMessageAt = r.settings.Now()
	r.mu.Unlock()

	go r.open(ctx, gen)
}

func (r *Relay) open(ctx context.Context, gen uint64) {
	body, err := r.src.Open(ctx)
	if err != nil {
		if r.current(gen) {
			r.onError(err)
		}
		return
	}

	r.mu.Lock()
	if gen != r.generation {
		// replaced while opening
		r.mu.Unlock()
		body.Close()
		return
	}
	r.body = body
	r.connected = true
	r.mu.Unlock()

	r.logger.Debug("event stream connected", "generation", gen)
	r.read(gen, body)
}

// disconnect closes the current subscription without opening a new one
func (r *Relay) disconnect() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeLocked()
	r.generation++
}

func (r *Relay) closeLocked() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.body != nil {
		r.body.Close()
		r.body = nil
	}
	r.connected = false
}

func (r *Relay) read(gen uint64, body io.Reader) {
	reader := events.NewReader(body)
	for {
		msg, err := reader.Next()
		if err != nil {
			if r.current(gen) {
				r.markDisconnected(gen)
				if !errors.Is(err, io.EOF) {
					r.onError(err)
				} else {
					r.logger.Debug("event stream ended", "generation", gen)
				}
			}
			return
		}
		r.onMessage(gen, msg)
	}
}

func (r *Relay) current(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return gen == r.generation
}

func (r *Relay) markDisconnected(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen == r.generation {
		r.connected = false
	}
}

// onMessage records liveness and fans the event out
func (r *Relay) onMessage(gen uint64, raw []byte) {
	r.deliverMu.Lock()
	defer r.deliverMu.Unlock()

	r.mu.Lock()
	if gen != r.generation {
		r.mu.Unlock()
		return
	}
	r.lastMessageAt = r.settings.Now()
	r.mu.Unlock()

	ev, err := events.Decode(raw)
	if err != nil {
		r.logger.Warn("dropping event", "error", err)
		return
	}

	switch ev := ev.(type) {
	case events.Ping:
		return
	case events.QueryUpdated:
		r.publish(ev)
	}
}

func (r *Relay) publish(ev events.Event) {
	for _, s := range r.snapshot() {
		s.fn(ev)
	}
}

// onError only logs; reconnects are driven by liveness
func (r *Relay) onError(err error) {
	r.logger.Warn("event stream error", "error", err)
}
