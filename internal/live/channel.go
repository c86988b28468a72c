// Package live is the synchronization engine between the server's push
// events and the locally held view of jobs and chat runs. It keeps one
// event subscription per target, reconciles pushed updates with snapshot
// fetches, recovers from connection loss with a fixed-delay retry, and
// drives the chat run state machine that accumulates streamed answers.
//
// The reconcilers in this package are pure state holders: they are driven
// by one caller at a time (the UI event loop or a watch loop) and return
// effect descriptions instead of performing I/O themselves.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"outline/internal/client"
	"outline/internal/logging"
)

type openFunc func(ctx context.Context) (<-chan client.StreamEvent, func(), error)

// handleFunc dispatches one decoded event and reports whether it was a
// terminal event for the subscription target.
type handleFunc func(ev client.StreamEvent) bool

// channel owns a single live subscription. Subscribing to a new target
// tears down the previous one first; a stream that ends without a terminal
// event and without a deliberate unsubscribe counts as a connection loss,
// which notifies the caller and arms the retry supervisor. The generation
// counter invalidates readers and retries that belong to a superseded
// subscription.
type channel struct {
	mu     sync.Mutex
	logger logging.Logger
	retry  *Supervisor

	gen    uint64
	key    string
	open   openFunc
	handle handleFunc
	lost   func()
	cancel func()
	active bool
}

type channelConfig struct {
	logger     logging.Logger
	retryDelay time.Duration
}

// ChannelOption adjusts channel construction.
type ChannelOption func(*channelConfig)

func WithLogger(logger logging.Logger) ChannelOption {
	return func(c *channelConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithRetryDelay(delay time.Duration) ChannelOption {
	return func(c *channelConfig) {
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

func newChannel(opts ...ChannelOption) *channel {
	cfg := channelConfig{logger: logging.Nop(), retryDelay: DefaultRetryDelay}
	for _, opt := range opts {
		opt(&cfg)
	}
	c := &channel{logger: cfg.logger}
	c.retry = NewSupervisor(cfg.retryDelay, c.retryFire)
	return c
}

// subscribe opens a stream for key. Subscribing to the current key while
// its stream is healthy is a no-op; any other call supersedes the previous
// subscription and cancels a pending retry.
func (c *channel) subscribe(key string, open openFunc, handle handleFunc, lost func()) error {
	c.mu.Lock()
	if c.active && c.key == key {
		c.mu.Unlock()
		return nil
	}
	c.retire()
	c.key = key
	c.open = open
	c.handle = handle
	c.lost = lost
	gen := c.gen
	c.mu.Unlock()

	return c.establish(gen)
}

// unsubscribe deliberately closes the current stream. It never produces a
// connection-loss signal.
func (c *channel) unsubscribe() {
	c.mu.Lock()
	c.retire()
	c.key = ""
	c.open = nil
	c.handle = nil
	c.lost = nil
	c.mu.Unlock()
}

func (c *channel) target() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key, c.key != ""
}

// retire invalidates the current subscription. Callers hold c.mu.
func (c *channel) retire() {
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.active = false
	c.retry.Cancel()
}

func (c *channel) establish(gen uint64) error {
	c.mu.Lock()
	if gen != c.gen || c.open == nil {
		c.mu.Unlock()
		return nil
	}
	open := c.open
	handle := c.handle
	lost := c.lost
	key := c.key
	c.mu.Unlock()

	ch, stop, err := open(context.Background())
	if err != nil {
		return err
	}

	c.mu.Lock()
	if gen != c.gen {
		// Superseded while dialing.
		c.mu.Unlock()
		stop()
		go drain(ch)
		return nil
	}
	c.cancel = stop
	c.active = true
	c.mu.Unlock()

	c.logger.Debug("subscribed", logging.F("target", key))
	go c.read(gen, ch, handle, lost)
	return nil
}

func (c *channel) read(gen uint64, ch <-chan client.StreamEvent, handle handleFunc, lost func()) {
	terminal := false
	for ev := range ch {
		c.mu.Lock()
		stale := gen != c.gen
		c.mu.Unlock()
		if stale {
			return
		}
		if handle(ev) {
			terminal = true
		}
	}

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.active = false
	c.cancel = nil
	key := c.key
	if terminal {
		c.mu.Unlock()
		c.logger.Debug("stream finished", logging.F("target", key))
		return
	}
	c.retry.Arm()
	c.mu.Unlock()

	c.logger.Warn("connection lost", logging.F("target", key))
	if lost != nil {
		lost()
	}
}

// retryFire re-establishes the subscription that was live when the loss
// was observed. A failed reattempt counts as another loss: the caller is
// notified again and one more retry is armed.
func (c *channel) retryFire() {
	c.mu.Lock()
	if c.active || c.key == "" {
		c.mu.Unlock()
		return
	}
	gen := c.gen
	key := c.key
	lost := c.lost
	c.mu.Unlock()

	if err := c.establish(gen); err != nil {
		c.logger.Warn("reconnect failed", logging.F("target", key), logging.F("error", err))
		c.mu.Lock()
		rearm := gen == c.gen
		if rearm {
			c.retry.Arm()
		}
		c.mu.Unlock()
		if rearm && lost != nil {
			lost()
		}
	}
}

func drain(ch <-chan client.StreamEvent) {
	for range ch {
	}
}

func decodeEvent(logger logging.Logger, ev client.StreamEvent, out any) bool {
	if err := json.Unmarshal(ev.Data, out); err != nil {
		logger.Warn("dropping malformed event",
			logging.F("event", ev.Name),
			logging.F("error", err))
		return false
	}
	return true
}

func requireID(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(name + " is required")
	}
	return nil
}
