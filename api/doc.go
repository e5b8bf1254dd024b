// File: api/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package api defines the public contracts of hioload-stream: the duplex
// Handle abstraction over an open OS-level descriptor, the Loop contract a
// host event loop must satisfy, the EventSink callback surface consumed by
// stream adapters, handle-kind tagging for IPC handle passing, the byte
// counter Collector, and the common error taxonomy.
//
// All interfaces here follow the single-threaded cooperative model: every
// Loop operation and every callback executes on one event-loop goroutine,
// so implementations carry no internal locking for adapter state.

package api
