// File: reactor/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Single-goroutine event loop. All Loop methods must be called from the
// loop goroutine or before Run starts; completion callbacks always fire
// on the loop goroutine. This is the cooperative model of api.Loop, so
// there is no locking around stream state.

package reactor

import (
	"context"
	"errors"

	"github.com/eapache/queue"
	"github.com/rs/zerolog"

	"github.com/momentics/hioload-stream/api"
	"github.com/momentics/hioload-stream/stream"
)

// poller abstracts the platform readiness facility.
type poller interface {
	add(fd int) error
	mod(fd int, read, write bool) error
	del(fd int) error
	wait(events []pollEvent, timeoutMs int) (int, error)
	close() error
}

// pollEvent is one readiness notification.
type pollEvent struct {
	fd       int
	readable bool
	writable bool
	failed   bool
}

// writeOp is one queued write: borrowed buffer views, an optional
// transfer handle, and the completion callback.
type writeOp struct {
	bufs     [][]byte
	transfer api.Handle
	done     api.CompleteFunc
}

// shutdownOp is one queued half-close.
type shutdownOp struct {
	done api.CompleteFunc
}

// streamState is the loop's bookkeeping for one registered handle.
type streamState struct {
	h       api.Handle
	reading bool
	alloc   api.AllocFunc
	read    api.ReadFunc
	ops     *queue.Queue
}

// Loop is the epoll-backed api.Loop implementation.
type Loop struct {
	log         zerolog.Logger
	p           poller
	streams     map[int]*streamState
	readBufSize int
	maxEvents   int
	pollTimeout int
	closed      bool
}

var _ api.Loop = (*Loop)(nil)

// Option customizes loop construction.
type Option func(*Loop)

// WithLogger attaches a zerolog logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Loop) {
		l.log = log
	}
}

// WithReadBufferSize sets the suggested size passed to allocate
// callbacks. Default 64 KiB.
func WithReadBufferSize(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.readBufSize = n
		}
	}
}

// WithMaxEvents sets the poll batch size. Default 128.
func WithMaxEvents(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.maxEvents = n
		}
	}
}

// WithPollTimeout sets the poll wait timeout in milliseconds; the loop
// wakes at least this often to observe context cancellation. Default 100.
func WithPollTimeout(ms int) Option {
	return func(l *Loop) {
		if ms > 0 {
			l.pollTimeout = ms
		}
	}
}

// New creates a loop over the platform poller.
func New(opts ...Option) (*Loop, error) {
	p, err := newPoller()
	if err != nil {
		return nil, err
	}
	l := &Loop{
		log:         zerolog.Nop(),
		p:           p,
		streams:     make(map[int]*streamState),
		readBufSize: 64 * 1024,
		maxEvents:   128,
		pollTimeout: 100,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *Loop) ensure(h api.Handle) (*streamState, error) {
	if l.closed {
		return nil, api.ErrLoopClosed
	}
	fd := h.FD()
	if fd < 0 {
		return nil, api.ErrInvalidArgument
	}
	st, ok := l.streams[fd]
	if ok {
		return st, nil
	}
	if err := l.p.add(fd); err != nil {
		return nil, err
	}
	st = &streamState{h: h, ops: queue.New()}
	l.streams[fd] = st
	l.log.Debug().Int("fd", fd).Str("kind", h.Kind().String()).Msg("handle registered")
	return st, nil
}

func (l *Loop) updateInterest(st *streamState) {
	fd := st.h.FD()
	if fd < 0 {
		return
	}
	if err := l.p.mod(fd, st.reading, st.ops.Length() > 0); err != nil {
		l.log.Warn().Int("fd", fd).Err(err).Msg("interest update failed")
	}
}

// StartRead implements api.Loop.
func (l *Loop) StartRead(h api.Handle, alloc api.AllocFunc, read api.ReadFunc) error {
	st, err := l.ensure(h)
	if err != nil {
		return err
	}
	st.alloc = alloc
	st.read = read
	st.reading = true
	l.updateInterest(st)
	return nil
}

// StopRead implements api.Loop. Unknown handles are a no-op so stopping
// before any start is always safe.
func (l *Loop) StopRead(h api.Handle) error {
	st, ok := l.streams[h.FD()]
	if !ok {
		return nil
	}
	st.reading = false
	l.updateInterest(st)
	return nil
}

// SubmitWrite implements api.Loop.
func (l *Loop) SubmitWrite(h api.Handle, bufs [][]byte, transfer api.Handle, done api.CompleteFunc) error {
	if transfer != nil {
		p, ok := h.(api.IPCHandle)
		if !ok || !p.IPC() {
			return api.ErrInvalidArgument
		}
	}
	st, err := l.ensure(h)
	if err != nil {
		return err
	}
	st.ops.Add(&writeOp{bufs: bufs, transfer: transfer, done: done})
	l.updateInterest(st)
	return nil
}

// SubmitShutdown implements api.Loop.
func (l *Loop) SubmitShutdown(h api.Handle, done api.CompleteFunc) error {
	st, err := l.ensure(h)
	if err != nil {
		return err
	}
	st.ops.Add(&shutdownOp{done: done})
	l.updateInterest(st)
	return nil
}

// Detach removes a handle from the loop ahead of the external close
// protocol. Operations still queued complete with api.ErrClosed.
func (l *Loop) Detach(h api.Handle) error {
	fd := h.FD()
	st, ok := l.streams[fd]
	if !ok {
		return api.ErrNotRegistered
	}
	delete(l.streams, fd)
	if err := l.p.del(fd); err != nil {
		l.log.Warn().Int("fd", fd).Err(err).Msg("poller deregistration failed")
	}
	for st.ops.Length() > 0 {
		switch op := st.ops.Remove().(type) {
		case *writeOp:
			op.done(api.ErrClosed)
		case *shutdownOp:
			op.done(api.ErrClosed)
		}
	}
	return nil
}

// Run drives the loop until ctx is cancelled or the loop is closed.
func (l *Loop) Run(ctx context.Context) error {
	events := make([]pollEvent, l.maxEvents)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if l.closed {
			return nil
		}
		n, err := l.p.wait(events, l.pollTimeout)
		if err != nil {
			if l.closed {
				return nil
			}
			return err
		}
		for i := 0; i < n; i++ {
			st, ok := l.streams[events[i].fd]
			if !ok {
				continue
			}
			if events[i].readable || events[i].failed {
				l.onReadable(st)
			}
			if events[i].writable || events[i].failed {
				l.onWritable(st)
			}
		}
	}
}

// Close shuts the loop down. Queued operations are abandoned without
// completion; callers should Detach handles first.
func (l *Loop) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	return l.p.close()
}

// onReadable runs one allocate/read cycle and delivers the outcome
// unchanged. A spurious wakeup (would-block) delivers nothing.
func (l *Loop) onReadable(st *streamState) {
	if !st.reading {
		return
	}
	buf := st.alloc(l.readBufSize)
	if len(buf) == 0 {
		st.read(0, buf, api.ErrNoBufferSpace)
		return
	}
	n, err := st.h.Read(buf)
	if errors.Is(err, api.ErrWouldBlock) {
		return
	}
	st.read(n, buf, err)
}

// onWritable drains the operation queue until it empties or the kernel
// stops accepting bytes. Completion callbacks fire in queue order.
func (l *Loop) onWritable(st *streamState) {
	for st.ops.Length() > 0 {
		switch op := st.ops.Peek().(type) {
		case *writeOp:
			if !l.driveWrite(st, op) {
				l.updateInterest(st)
				return
			}
		case *shutdownOp:
			st.ops.Remove()
			op.done(st.h.Shutdown())
		}
	}
	l.updateInterest(st)
}

// driveWrite pushes one queued write forward. It reports false when the
// kernel would block and the operation must wait for the next readiness.
func (l *Loop) driveWrite(st *streamState, op *writeOp) bool {
	if len(op.bufs) == 0 && op.transfer == nil {
		st.ops.Remove()
		op.done(nil)
		return true
	}

	var n int
	var err error
	if op.transfer != nil {
		n, err = st.h.(api.IPCHandle).WriteMsg(op.bufs, op.transfer)
		if err == nil {
			// Ancillary rights travel with the sendmsg that
			// succeeded; never resend them on a partial write.
			op.transfer = nil
		}
	} else {
		n, err = st.h.Writev(op.bufs)
	}
	if errors.Is(err, api.ErrWouldBlock) {
		return false
	}
	if err != nil {
		st.ops.Remove()
		op.done(err)
		return true
	}

	op.bufs = stream.ConsumeBuffers(op.bufs, n)
	if len(op.bufs) > 0 {
		return false
	}
	st.ops.Remove()
	op.done(nil)
	return true
}
