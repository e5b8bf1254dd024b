// File: stream/adapter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Adapter owns one duplex handle and bridges the host event loop to an
// EventSink. No read or write reaches the loop while the handle slot is
// empty; after Detach every operation is rejected with
// api.ErrInvalidArgument.

package stream

import (
	"errors"
	"fmt"

	"github.com/momentics/hioload-stream/api"
)

// Adapter is the non-blocking stream I/O adapter.
type Adapter struct {
	loop      api.Loop
	handle    api.Handle
	sink      api.EventSink
	acceptor  api.Acceptor
	collector api.Collector
	pending   api.Handle
}

// AdapterOption customizes adapter construction.
type AdapterOption func(*Adapter)

// WithCollector installs a byte counter observer. The default discards
// all observations.
func WithCollector(c api.Collector) AdapterOption {
	return func(a *Adapter) {
		if c != nil {
			a.collector = c
		}
	}
}

// WithAcceptor overrides how transferred handles are reconstructed.
func WithAcceptor(acc api.Acceptor) AdapterOption {
	return func(a *Adapter) {
		if acc != nil {
			a.acceptor = acc
		}
	}
}

// NewAdapter wires an adapter over an already-open handle. The handle is
// exclusively owned by the adapter from here on; the caller interacts
// with it only through adapter operations and the external close
// protocol.
func NewAdapter(loop api.Loop, h api.Handle, sink api.EventSink, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		loop:      loop,
		handle:    h,
		sink:      sink,
		acceptor:  DefaultAcceptor(),
		collector: api.NopCollector{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handle returns the owned handle, or nil after Detach.
func (a *Adapter) Handle() api.Handle {
	return a.handle
}

// IPC reports whether the owned handle is a pipe in handle-passing mode.
func (a *Adapter) IPC() bool {
	p, ok := a.handle.(api.IPCHandle)
	return ok && p.IPC()
}

// ReadStart registers the handle for readiness notifications and begins
// the allocate/read cycle. Calling it twice is the caller's
// responsibility to avoid; this layer does not guard against it.
func (a *Adapter) ReadStart() error {
	if a.handle == nil {
		return api.ErrInvalidArgument
	}
	if err := a.loop.StartRead(a.handle, a.onAlloc, a.onRead); err != nil {
		return fmt.Errorf("read start: %w", err)
	}
	return nil
}

// ReadStop deregisters read interest. Safe to call even if reading was
// never started.
func (a *Adapter) ReadStop() error {
	if a.handle == nil {
		return nil
	}
	return a.loop.StopRead(a.handle)
}

func (a *Adapter) onAlloc(suggested int) []byte {
	return a.sink.OnAllocate(suggested)
}

// onRead is the read-completion path. The pending-handle kind is queried
// before the byte count is inspected; on a data-carrying read any
// transferred handle is accepted and parked in the pending slot before
// the sink sees the payload.
//
// An accept failure here is a protocol-invariant violation: the loop
// reported a pending handle that cannot be materialized, so adapter and
// loop disagree about kernel state. That is unrecoverable and panics
// rather than aborting the process outright, leaving the decision to die
// to the embedder's outermost recover.
func (a *Adapter) onRead(n int, buf []byte, err error) {
	kind := api.KindUnknown
	if p, ok := a.handle.(api.IPCHandle); ok && p.IPC() && p.PendingCount() > 0 {
		kind = p.PendingKind()
	}

	if n > 0 {
		switch a.handle.Kind() {
		case api.KindTCP:
			a.collector.BytesReceived(api.KindTCP, n)
		case api.KindNamedPipe:
			a.collector.BytesReceived(api.KindNamedPipe, n)
		}

		if kind != api.KindUnknown {
			obj, aerr := a.acceptor.Accept(kind, a.handle.(api.IPCHandle))
			if aerr != nil {
				panic(fmt.Errorf("accept of pending %s handle failed: %w", kind, aerr))
			}
			a.pending = obj
		}
	}

	a.sink.OnRead(n, buf, err)
}

// TakePendingHandle claims the handle transferred by the most recent IPC
// read. The slot is cleared on return, so each transferred handle can be
// claimed exactly once; nil means nothing is pending.
func (a *Adapter) TakePendingHandle() api.Handle {
	h := a.pending
	a.pending = nil
	return h
}

// Write dispatches an asynchronous write of bufs through req. A non-nil
// transfer is sent atomically with the payload and requires an IPC pipe;
// on any other handle the call fails with api.ErrInvalidArgument before
// touching the kernel.
//
// A nil return means the operation was dispatched and OnWriteComplete
// will fire exactly once. A non-nil return is a dispatch failure: no
// completion callback follows.
func (a *Adapter) Write(req *WriteRequest, bufs [][]byte, transfer api.Handle) error {
	if a.handle == nil || req == nil {
		return api.ErrInvalidArgument
	}
	if transfer != nil {
		p, ok := a.handle.(api.IPCHandle)
		if !ok || !p.IPC() {
			return api.ErrInvalidArgument
		}
	}
	req.bufs = bufs
	req.transfer = transfer

	err := a.loop.SubmitWrite(a.handle, bufs, transfer, func(status error) {
		req.resolve(status)
		a.sink.OnWriteComplete(req, status)
	})
	if err != nil {
		return err
	}

	switch a.handle.Kind() {
	case api.KindTCP:
		a.collector.BytesSent(api.KindTCP, TotalLen(bufs))
	case api.KindNamedPipe:
		a.collector.BytesSent(api.KindNamedPipe, TotalLen(bufs))
	}
	req.dispatched = true
	return nil
}

// TryWrite opportunistically drains bufs through one synchronous
// non-blocking kernel write, bypassing the async path. Zero progress
// (would-block, not-supported) is success with bufs untouched; the
// caller falls back to Write. On progress, bufs is mutated in place to
// the unsent remainder per ConsumeBuffers.
func (a *Adapter) TryWrite(bufs *[][]byte) error {
	if a.handle == nil || bufs == nil {
		return api.ErrInvalidArgument
	}
	n, err := a.handle.Writev(*bufs)
	if errors.Is(err, api.ErrWouldBlock) || errors.Is(err, api.ErrNotSupported) {
		return nil
	}
	if err != nil {
		return err
	}
	*bufs = ConsumeBuffers(*bufs, n)
	return nil
}

// Shutdown dispatches an asynchronous half-close: stop sending, keep
// receiving. It queues behind all previously submitted writes. The same
// dispatch/completion split as Write applies.
func (a *Adapter) Shutdown(req *ShutdownRequest) error {
	if a.handle == nil || req == nil {
		return api.ErrInvalidArgument
	}
	err := a.loop.SubmitShutdown(a.handle, func(status error) {
		req.resolve(status)
		a.sink.OnShutdownComplete(req, status)
	})
	if err != nil {
		return err
	}
	req.dispatched = true
	return nil
}

// IsAlive reports whether the handle is present and its close protocol
// has not begun.
func (a *Adapter) IsAlive() bool {
	return a.handle != nil && a.handle.IsAlive()
}

// IsClosing reports whether the handle is absent or closing down.
func (a *Adapter) IsClosing() bool {
	return a.handle == nil || a.handle.IsClosing()
}

// SetBlocking toggles the handle's kernel blocking mode. On a dead
// handle it returns api.ErrInvalidArgument without a kernel call.
func (a *Adapter) SetBlocking(enable bool) error {
	if !a.IsAlive() {
		return api.ErrInvalidArgument
	}
	return a.handle.SetBlocking(enable)
}

// WriteQueueSize returns the kernel's count of bytes queued for send, or
// 0 when the handle is absent. Backpressure policy lives above this
// layer; the adapter only reports.
func (a *Adapter) WriteQueueSize() int {
	if a.handle == nil {
		return 0
	}
	return a.handle.WriteQueueSize()
}

// FD returns the OS-level descriptor number for diagnostics, or api.NoFD
// when the handle is absent or cannot provide one.
func (a *Adapter) FD() int {
	if a.handle == nil {
		return api.NoFD
	}
	return a.handle.FD()
}

// Detach empties the handle slot as part of the external close protocol
// and returns the handle for that protocol to finish. Every subsequent
// operation on the adapter is rejected.
func (a *Adapter) Detach() api.Handle {
	h := a.handle
	a.handle = nil
	return h
}
