// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Common error taxonomy for hioload-stream.
//
// Transient kernel conditions (ErrWouldBlock, ErrNotSupported) mean "zero
// progress, retry through the async path" and are never fatal. Misuse of
// a dead or mismatched handle surfaces as ErrInvalidArgument before any
// kernel call is attempted.

package api

import "fmt"

var (
	// ErrWouldBlock reports that a non-blocking kernel call accepted
	// no data (EAGAIN/EWOULDBLOCK).
	ErrWouldBlock = fmt.Errorf("operation would block")

	// ErrNotSupported reports that the kernel does not implement the
	// attempted call on this handle (ENOSYS/EOPNOTSUPP).
	ErrNotSupported = fmt.Errorf("operation not supported")

	// ErrInvalidArgument reports misuse: operating on a dead handle,
	// passing a transfer handle over a non-IPC pipe, and similar.
	ErrInvalidArgument = fmt.Errorf("invalid argument")

	// ErrClosed reports that the handle's close protocol has already
	// run.
	ErrClosed = fmt.Errorf("handle is closed")

	// ErrNoPendingHandle reports an AcceptPending call with no
	// unclaimed transferred descriptor.
	ErrNoPendingHandle = fmt.Errorf("no pending handle")

	// ErrUnknownHandleKind reports a transferred descriptor whose
	// kind is outside the closed TCP/pipe/UDP set.
	ErrUnknownHandleKind = fmt.Errorf("unknown handle kind")

	// ErrNoBufferSpace reports an allocate callback that returned an
	// empty buffer.
	ErrNoBufferSpace = fmt.Errorf("no buffer space allocated")

	// ErrNotRegistered reports a loop operation on a handle the loop
	// has never seen.
	ErrNotRegistered = fmt.Errorf("handle not registered with loop")

	// ErrLoopClosed reports a submission against a loop that has
	// shut down.
	ErrLoopClosed = fmt.Errorf("event loop is closed")
)
