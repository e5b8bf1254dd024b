// File: api/counters.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Byte counter observer. Counters are best-effort telemetry attributed by
// handle kind; they never influence correctness, so the collector is an
// injected interface with a no-op default rather than package-level state.

package api

// Collector observes bytes moved through stream adapters.
type Collector interface {
	// BytesSent records n payload bytes dispatched for sending on a
	// handle of the given kind.
	BytesSent(kind HandleKind, n int)

	// BytesReceived records n payload bytes read from a handle of
	// the given kind.
	BytesReceived(kind HandleKind, n int)
}

// NopCollector discards all observations. It is the default collector of
// stream adapters.
type NopCollector struct{}

// BytesSent implements Collector.
func (NopCollector) BytesSent(HandleKind, int) {}

// BytesReceived implements Collector.
func (NopCollector) BytesReceived(HandleKind, int) {}
