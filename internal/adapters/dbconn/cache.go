// Package dbconn keeps one shared, lazily created storage connection per process.
package dbconn

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"devevent/internal/domain"
)

// Handle is a live connection to the backing store.
type Handle interface {
	// Ready reports, without I/O, whether the handle can still serve queries.
	Ready() bool
	Close() error
}

// Dialer opens a new Handle.
type Dialer[H Handle] func(ctx context.Context) (H, error)

// Connection states reported by Info.
const (
	StateUnconnected = "unconnected"
	StateConnecting  = "connecting"
	StateReady       = "ready"
)

// ConnectionInfo describes the cache for health checks.
type ConnectionInfo struct {
	Ready bool   `json:"ready"`
	State string `json:"state"`
	Dials int64  `json:"dials"`
}

const flightKey = "connect"

// Cache memoizes a single Handle. Concurrent cold-start callers share one
// in-flight dial; a failed dial is reported to all of them and the next call
// starts over.
type Cache[H Handle] struct {
	dial    Dialer[H]
	timeout time.Duration
	logger  *slog.Logger

	mu         sync.Mutex
	handle     H
	connected  bool
	connecting atomic.Int32 // dials in progress; Release can leave an old one running
	dials      atomic.Int64
	group      singleflight.Group
}

// NewCache returns an empty cache. timeout bounds each dial; zero means no bound
// beyond what the dialer itself enforces.
func NewCache[H Handle](dial Dialer[H], timeout time.Duration, logger *slog.Logger) *Cache[H] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache[H]{dial: dial, timeout: timeout, logger: logger}
}

// Acquire returns the cached handle when it is ready, otherwise joins or
// starts a dial. ctx only bounds how long this caller waits; the shared
// dial keeps running for the other waiters.
func (c *Cache[H]) Acquire(ctx context.Context) (H, error) {
	if h, ok := c.cached(); ok {
		return h, nil
	}

	ch := c.group.DoChan(flightKey, func() (any, error) {
		// A dial that finished between our cache check and DoChan already stored its handle.
		if h, ok := c.cached(); ok {
			return h, nil
		}
		return c.connect(context.WithoutCancel(ctx))
	})

	var zero H
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(H), nil
	case <-ctx.Done():
		return zero, &domain.ConnectionError{Err: ctx.Err()}
	}
}

func (c *Cache[H]) connect(ctx context.Context) (H, error) {
	c.connecting.Add(1)
	defer c.connecting.Add(-1)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.dials.Add(1)
	c.logger.Info("creating new database connection")
	h, err := c.dial(ctx)
	if err != nil {
		c.logger.Error("database connection failed", "err", err)
		var zero H
		var connErr *domain.ConnectionError
		if errors.As(err, &connErr) {
			return zero, err
		}
		return zero, &domain.ConnectionError{Err: err}
	}

	c.mu.Lock()
	if c.connected && c.handle.Ready() {
		// Release raced this dial and a newer dial already won; keep the stored one.
		existing := c.handle
		c.mu.Unlock()
		_ = h.Close()
		return existing, nil
	}
	c.handle = h
	c.connected = true
	c.mu.Unlock()
	c.logger.Info("database connection established")
	return h, nil
}

// cached returns the stored handle if it is still ready. A stale handle is
// dropped and closed so the caller dials again.
func (c *Cache[H]) cached() (H, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero H
	if !c.connected {
		return zero, false
	}
	if c.handle.Ready() {
		return c.handle, true
	}
	stale := c.handle
	c.handle = zero
	c.connected = false
	c.logger.Warn("cached database connection is no longer ready, reconnecting")
	if err := stale.Close(); err != nil {
		c.logger.Debug("closing stale database connection", "err", err)
	}
	return zero, false
}

// IsReady reports whether a ready handle is cached. It never blocks on I/O.
func (c *Cache[H]) IsReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected && c.handle.Ready()
}

// Release closes the cached handle, if any, and clears the in-flight marker.
func (c *Cache[H]) Release() error {
	c.group.Forget(flightKey)

	c.mu.Lock()
	var zero H
	h, had := c.handle, c.connected
	c.handle = zero
	c.connected = false
	c.mu.Unlock()

	if !had {
		return nil
	}
	if err := h.Close(); err != nil {
		return err
	}
	c.logger.Info("disconnected from database")
	return nil
}

// Info returns the current state of the cache.
func (c *Cache[H]) Info() ConnectionInfo {
	ready := c.IsReady()
	state := StateUnconnected
	switch {
	case ready:
		state = StateReady
	case c.connecting.Load() > 0:
		state = StateConnecting
	}
	return ConnectionInfo{Ready: ready, State: state, Dials: c.dials.Load()}
}

// Warm acquires a handle and discards it, connecting if needed.
func (c *Cache[H]) Warm(ctx context.Context) error {
	_, err := c.Acquire(ctx)
	return err
}
