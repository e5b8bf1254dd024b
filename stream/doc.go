// File: stream/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package stream contains the core of hioload-stream: the Adapter that
// bridges a host event loop (api.Loop) to an object model (api.EventSink)
// over one duplex handle. It drives the allocate/read/dispatch cycle,
// submits writes and shutdowns with per-request completion, performs the
// partial-write buffer slicing for the synchronous TryWrite path, tracks
// handle liveness, and reconstructs handles transferred in-band over IPC
// pipes.
//
// Everything in this package runs on the single event-loop goroutine; see
// the api.Loop contract for the ordering guarantees callers may rely on.

package stream
