// File: api/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Host event-loop contract. The reactor package provides the epoll-backed
// implementation; fake.Loop provides a test-driven one.

package api

// AllocFunc supplies a receive buffer immediately before data is read.
// The suggested size is a hint, not a hard limit; the returned buffer is
// handed directly to the kernel with no intermediate copy.
type AllocFunc func(suggested int) []byte

// ReadFunc delivers the outcome of one read cycle. n is the byte count
// filled into buf (n >= 0); err is nil on plain data, io.EOF at end of
// stream, or the kernel error. n and err are forwarded exactly as the
// loop observed them.
type ReadFunc func(n int, buf []byte, err error)

// CompleteFunc delivers the completion status of a dispatched write or
// shutdown operation. nil means success.
type CompleteFunc func(err error)

// Loop is the host event loop a stream adapter dispatches to.
//
// All methods and all registered callbacks execute on the single loop
// goroutine (or before the loop starts). Completion ordering guarantee:
// operations submitted against the same handle complete in submission
// order within each category (writes in write order, reads in arrival
// order). No ordering holds across categories.
//
// A submit error is a dispatch failure: no completion callback follows.
// There is no cancellation; closing the handle is the only way to abandon
// submitted operations.
type Loop interface {
	// StartRead registers the handle for readiness notifications and
	// begins the allocate/read cycle.
	StartRead(h Handle, alloc AllocFunc, read ReadFunc) error

	// StopRead deregisters read interest. Safe to call when reading
	// was never started.
	StopRead(h Handle) error

	// SubmitWrite queues one vectored write. When transfer is
	// non-nil the handle must be an IPC pipe and the descriptor is
	// sent atomically with the first data of this write.
	SubmitWrite(h Handle, bufs [][]byte, transfer Handle, done CompleteFunc) error

	// SubmitShutdown queues a half-close behind all previously
	// submitted writes on the same handle.
	SubmitShutdown(h Handle, done CompleteFunc) error
}
