// File: control/counters.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Byte counters attributed by handle kind. Telemetry only: values are
// best-effort and never correctness-bearing. Counters uses atomics so a
// monitoring goroutine may snapshot while the loop goroutine records.

package control

import (
	"sync/atomic"

	"github.com/momentics/hioload-stream/api"
)

// Counters is an api.Collector backed by atomic per-kind counters.
type Counters struct {
	tcpSent  atomic.Int64
	tcpRecv  atomic.Int64
	pipeSent atomic.Int64
	pipeRecv atomic.Int64
}

var _ api.Collector = (*Counters)(nil)

// NewCounters creates a zeroed counter set.
func NewCounters() *Counters {
	return &Counters{}
}

// BytesSent implements api.Collector. Kinds outside TCP and pipe are not
// attributed.
func (c *Counters) BytesSent(kind api.HandleKind, n int) {
	switch kind {
	case api.KindTCP:
		c.tcpSent.Add(int64(n))
	case api.KindNamedPipe:
		c.pipeSent.Add(int64(n))
	}
}

// BytesReceived implements api.Collector.
func (c *Counters) BytesReceived(kind api.HandleKind, n int) {
	switch kind {
	case api.KindTCP:
		c.tcpRecv.Add(int64(n))
	case api.KindNamedPipe:
		c.pipeRecv.Add(int64(n))
	}
}

// Snapshot returns the current counter values keyed for monitoring.
func (c *Counters) Snapshot() map[string]int64 {
	return map[string]int64{
		"net_bytes_sent":      c.tcpSent.Load(),
		"net_bytes_received":  c.tcpRecv.Load(),
		"pipe_bytes_sent":     c.pipeSent.Load(),
		"pipe_bytes_received": c.pipeRecv.Load(),
	}
}
