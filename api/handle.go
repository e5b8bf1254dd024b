// File: api/handle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Duplex handle abstraction. A Handle wraps one open OS-level I/O resource
// (socket, pipe, TTY) and exposes the non-blocking kernel operations the
// stream layer and the event loop need. Concrete fd-backed implementations
// live in the transport package; controllable doubles live in fake.

package api

// NoFD is returned by Handle.FD when no descriptor number is available,
// either because the platform or handle state cannot provide one or
// because the handle is not fd-backed at all.
const NoFD = -1

// Handle is an exclusively owned, open duplex I/O handle.
//
// Read and Writev are non-blocking kernel calls: they never park the
// calling goroutine. Writev reports zero progress through ErrWouldBlock
// rather than blocking. All methods must be invoked from the event-loop
// goroutine that owns the handle.
type Handle interface {
	// Kind reports the handle variant.
	Kind() HandleKind

	// FD returns the OS-level descriptor number for diagnostics and
	// loop registration, or NoFD when unavailable.
	FD() int

	// Read performs one non-blocking read into p. It returns
	// ErrWouldBlock when no data is available, io.EOF at end of
	// stream, and n > 0 with a nil error otherwise.
	Read(p []byte) (int, error)

	// Writev performs one non-blocking vectored write of bufs and
	// returns the number of bytes the kernel accepted. ErrWouldBlock
	// and ErrNotSupported signal zero progress.
	Writev(bufs [][]byte) (int, error)

	// Shutdown half-closes the handle: no further sends, receives
	// stay open.
	Shutdown() error

	// SetBlocking toggles the descriptor's kernel blocking mode.
	SetBlocking(enable bool) error

	// WriteQueueSize returns the kernel's count of bytes queued for
	// send on this handle, or 0 when the count is unavailable.
	WriteQueueSize() int

	// IsAlive reports whether the handle's close protocol has not
	// begun.
	IsAlive() bool

	// IsClosing reports whether the close protocol has begun or
	// finished.
	IsClosing() bool

	// Close begins and completes the close protocol. A second call
	// returns ErrClosed without touching the descriptor.
	Close() error
}

// IPCHandle extends Handle for Unix-domain pipes that may carry
// transferred descriptors alongside byte data.
//
// A transferred descriptor discovered during Read is parked in a pending
// queue; it must be claimed through AcceptPending exactly once before it
// can be wrapped into a new Handle.
type IPCHandle interface {
	Handle

	// IPC reports whether the pipe was opened in handle-passing mode.
	// The flag is immutable after construction.
	IPC() bool

	// WriteMsg writes bufs and, when transfer is non-nil, atomically
	// attaches transfer's descriptor as ancillary data.
	WriteMsg(bufs [][]byte, transfer Handle) (int, error)

	// PendingCount returns the number of unclaimed transferred
	// descriptors.
	PendingCount() int

	// PendingKind probes the kind of the oldest unclaimed descriptor,
	// or KindUnknown when none is pending.
	PendingKind() HandleKind

	// AcceptPending pops the oldest unclaimed descriptor and hands
	// its ownership to the caller. It fails with ErrNoPendingHandle
	// when the queue is empty.
	AcceptPending() (int, error)
}

// Acceptor instantiates the Handle variant matching a transferred-handle
// kind and completes the accept against the parent pipe. The stream
// package installs a descriptor-backed default; tests may inject fakes.
type Acceptor interface {
	Accept(kind HandleKind, parent IPCHandle) (Handle, error)
}
