// File: fake/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Test-driven api.Loop: nothing happens until the test delivers
// readiness or completions explicitly, which makes callback ordering
// fully deterministic.

package fake

import (
	"sync"

	"github.com/momentics/hioload-stream/api"
)

type loopOp struct {
	bufs     [][]byte
	transfer api.Handle
	shutdown bool
	done     api.CompleteFunc
}

type loopReader struct {
	alloc api.AllocFunc
	read  api.ReadFunc
}

// Loop is a fake api.Loop.
type Loop struct {
	mu        sync.Mutex
	readers   map[api.Handle]*loopReader
	stopped   map[api.Handle]int
	ops       map[api.Handle][]*loopOp
	submitErr error
	startErr  error
}

var _ api.Loop = (*Loop)(nil)

// NewLoop creates an idle fake loop.
func NewLoop() *Loop {
	return &Loop{
		readers: make(map[api.Handle]*loopReader),
		stopped: make(map[api.Handle]int),
		ops:     make(map[api.Handle][]*loopOp),
	}
}

// SetSubmitError makes SubmitWrite and SubmitShutdown fail synchronously.
func (l *Loop) SetSubmitError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.submitErr = err
}

// SetStartError makes StartRead fail synchronously.
func (l *Loop) SetStartError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.startErr = err
}

// StartRead implements api.Loop.
func (l *Loop) StartRead(h api.Handle, alloc api.AllocFunc, read api.ReadFunc) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.startErr != nil {
		return l.startErr
	}
	l.readers[h] = &loopReader{alloc: alloc, read: read}
	return nil
}

// StopRead implements api.Loop.
func (l *Loop) StopRead(h api.Handle) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.readers, h)
	l.stopped[h]++
	return nil
}

// SubmitWrite implements api.Loop.
func (l *Loop) SubmitWrite(h api.Handle, bufs [][]byte, transfer api.Handle, done api.CompleteFunc) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.submitErr != nil {
		return l.submitErr
	}
	l.ops[h] = append(l.ops[h], &loopOp{bufs: bufs, transfer: transfer, done: done})
	return nil
}

// SubmitShutdown implements api.Loop.
func (l *Loop) SubmitShutdown(h api.Handle, done api.CompleteFunc) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.submitErr != nil {
		return l.submitErr
	}
	l.ops[h] = append(l.ops[h], &loopOp{shutdown: true, done: done})
	return nil
}

// Reading reports whether h currently has read interest.
func (l *Loop) Reading(h api.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.readers[h]
	return ok
}

// StopCalls returns how many StopRead calls h received.
func (l *Loop) StopCalls(h api.Handle) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped[h]
}

// PendingOps returns the number of queued, uncompleted operations on h.
func (l *Loop) PendingOps(h api.Handle) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ops[h])
}

// DeliverRead drives one allocate/read cycle: the registered allocate
// callback supplies the buffer, data is copied in, and the read callback
// fires with (len(data), buf, err). It reports whether h had read
// interest.
func (l *Loop) DeliverRead(h api.Handle, data []byte, err error) bool {
	l.mu.Lock()
	r, ok := l.readers[h]
	l.mu.Unlock()
	if !ok {
		return false
	}
	suggested := len(data)
	if suggested == 0 {
		suggested = 64 * 1024
	}
	buf := r.alloc(suggested)
	n := copy(buf, data)
	r.read(n, buf, err)
	return true
}

// CompleteNext resolves the oldest queued operation on h with err. It
// reports whether an operation was pending.
func (l *Loop) CompleteNext(h api.Handle, err error) bool {
	l.mu.Lock()
	queue := l.ops[h]
	if len(queue) == 0 {
		l.mu.Unlock()
		return false
	}
	op := queue[0]
	l.ops[h] = queue[1:]
	l.mu.Unlock()
	op.done(err)
	return true
}

// CompleteAll resolves every queued operation on h in order.
func (l *Loop) CompleteAll(h api.Handle, err error) int {
	n := 0
	for l.CompleteNext(h, err) {
		n++
	}
	return n
}
