// File: fake/sink.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"sync"

	"github.com/momentics/hioload-stream/api"
)

// ReadEvent records one OnRead delivery.
type ReadEvent struct {
	N   int
	Buf []byte
	Err error
}

// Completion records one write or shutdown completion.
type Completion struct {
	Req api.Request
	Err error
}

// Sink is a recording api.EventSink. Allocation defaults to a fresh
// buffer of the suggested size.
type Sink struct {
	mu        sync.Mutex
	allocFunc api.AllocFunc
	allocs    []int
	reads     []ReadEvent
	writes    []Completion
	shutdowns []Completion
}

var _ api.EventSink = (*Sink)(nil)

// NewSink creates a recording sink.
func NewSink() *Sink {
	return &Sink{}
}

// SetAllocFunc overrides the allocate behavior.
func (s *Sink) SetAllocFunc(f api.AllocFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allocFunc = f
}

// OnAllocate implements api.EventSink.
func (s *Sink) OnAllocate(suggested int) []byte {
	s.mu.Lock()
	s.allocs = append(s.allocs, suggested)
	f := s.allocFunc
	s.mu.Unlock()
	if f != nil {
		return f(suggested)
	}
	return make([]byte, suggested)
}

// OnRead implements api.EventSink.
func (s *Sink) OnRead(n int, buf []byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads = append(s.reads, ReadEvent{N: n, Buf: buf, Err: err})
}

// OnWriteComplete implements api.EventSink.
func (s *Sink) OnWriteComplete(req api.Request, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, Completion{Req: req, Err: err})
}

// OnShutdownComplete implements api.EventSink.
func (s *Sink) OnShutdownComplete(req api.Request, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdowns = append(s.shutdowns, Completion{Req: req, Err: err})
}

// Allocs returns the recorded allocation hints.
func (s *Sink) Allocs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.allocs))
	copy(out, s.allocs)
	return out
}

// Reads returns the recorded read deliveries.
func (s *Sink) Reads() []ReadEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ReadEvent, len(s.reads))
	copy(out, s.reads)
	return out
}

// WriteCompletions returns the recorded write completions in order.
func (s *Sink) WriteCompletions() []Completion {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Completion, len(s.writes))
	copy(out, s.writes)
	return out
}

// ShutdownCompletions returns the recorded shutdown completions in order.
func (s *Sink) ShutdownCompletions() []Completion {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Completion, len(s.shutdowns))
	copy(out, s.shutdowns)
	return out
}
