// File: facade/streams.go
// Unified facade layer for the hioload-stream library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Streams aggregates the event loop, the receive-buffer pool and the
// byte counters behind one entry point. Adapters created through the
// facade share the loop and the counter collector. The facade owns the
// loop goroutine: Start spawns it, Shutdown stops it and is idempotent.
//
// The single-threaded contract still applies: once Start has run, talk
// to adapters only from loop callbacks, or do all submissions before
// Start.

package facade

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/momentics/hioload-stream/api"
	"github.com/momentics/hioload-stream/control"
	"github.com/momentics/hioload-stream/pool"
	"github.com/momentics/hioload-stream/reactor"
	"github.com/momentics/hioload-stream/stream"
)

// Config holds parameters immutable per run.
type Config struct {
	ReadBufferSize   int            // Suggested size handed to allocate callbacks
	MaxEventsPerPoll int            // Poll batch size of the loop
	PollTimeoutMs    int            // Loop wakeup interval for cancellation checks
	EnableCounters   bool           // Whether adapters record byte counters
	Logger           zerolog.Logger // Loop and facade logging
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		ReadBufferSize:   64 * 1024,
		MaxEventsPerPoll: 128,
		PollTimeoutMs:    100,
		EnableCounters:   true,
		Logger:           zerolog.Nop(),
	}
}

// Streams is the main facade type. It implements api.GracefulShutdown.
type Streams struct {
	cfg      *Config
	loop     *reactor.Loop
	bufPool  *pool.BytePool
	counters *control.Counters

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	stopped bool
}

var _ api.GracefulShutdown = (*Streams)(nil)

// New creates the facade and its subsystems from cfg.
func New(cfg *Config) (*Streams, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	loop, err := reactor.New(
		reactor.WithLogger(cfg.Logger),
		reactor.WithReadBufferSize(cfg.ReadBufferSize),
		reactor.WithMaxEvents(cfg.MaxEventsPerPoll),
		reactor.WithPollTimeout(cfg.PollTimeoutMs),
	)
	if err != nil {
		return nil, fmt.Errorf("create loop: %w", err)
	}
	s := &Streams{
		cfg:     cfg,
		loop:    loop,
		bufPool: pool.NewBytePool(cfg.ReadBufferSize),
	}
	if cfg.EnableCounters {
		s.counters = control.NewCounters()
	}
	return s, nil
}

// Loop exposes the event loop.
func (s *Streams) Loop() *reactor.Loop {
	return s.loop
}

// BufferPool exposes the shared receive-buffer pool.
func (s *Streams) BufferPool() *pool.BytePool {
	return s.bufPool
}

// Counters exposes the byte counters, or nil when disabled.
func (s *Streams) Counters() *control.Counters {
	return s.counters
}

// NewAdapter wires a stream adapter over h, sharing the facade's loop
// and collector.
func (s *Streams) NewAdapter(h api.Handle, sink api.EventSink) *stream.Adapter {
	var opts []stream.AdapterOption
	if s.counters != nil {
		opts = append(opts, stream.WithCollector(s.counters))
	}
	return stream.NewAdapter(s.loop, h, sink, opts...)
}

// Start spawns the loop goroutine.
func (s *Streams) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("facade already started")
	}
	s.started = true
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		if err := s.loop.Run(ctx); err != nil && ctx.Err() == nil {
			s.cfg.Logger.Error().Err(err).Msg("event loop exited")
		}
	}()
	return nil
}

// Shutdown implements api.GracefulShutdown: it stops the loop goroutine
// and releases the poller. Safe to call more than once.
func (s *Streams) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	s.stopped = true
	if s.started {
		s.cancel()
		<-s.done
	}
	return s.loop.Close()
}
