// File: api/sink.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// EventSink is the consumer side of a stream adapter: the object model
// that issues read/write/shutdown operations and receives completion
// notifications. All callbacks fire on the event-loop goroutine.

package api

// EventSink receives stream events from an adapter.
type EventSink interface {
	// OnAllocate returns the buffer the kernel fills on the next
	// read. suggested is a size hint; returning a smaller or larger
	// buffer is legal. Returning an empty buffer aborts the read
	// cycle with ErrNoBufferSpace.
	OnAllocate(suggested int) []byte

	// OnRead delivers one read result: n bytes filled into buf, or
	// an error (io.EOF for end of stream). The adapter forwards n,
	// buf and err unchanged and never closes the handle itself; the
	// sink decides whether to stop reading or tear down.
	OnRead(n int, buf []byte, err error)

	// OnWriteComplete fires exactly once per dispatched write
	// request. The request's buffers may be released afterwards.
	OnWriteComplete(req Request, err error)

	// OnShutdownComplete fires exactly once per dispatched shutdown
	// request.
	OnShutdownComplete(req Request, err error)
}

// Request is the view of an in-flight operation handed back through
// completion callbacks. The concrete types are stream.WriteRequest and
// stream.ShutdownRequest.
type Request interface {
	// Dispatched reports whether the operation was submitted to the
	// loop.
	Dispatched() bool

	// Resolved reports whether the completion status has been set.
	Resolved() bool

	// Err returns the completion status once resolved; nil means
	// success.
	Err() error
}
