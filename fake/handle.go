// File: fake/handle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"sync"

	"github.com/momentics/hioload-stream/api"
)

// WritevResult scripts the outcome of one Writev call.
type WritevResult struct {
	N   int
	Err error
}

// Handle is a fake api.Handle with scripted behavior.
//
// With no script installed, Writev accepts everything it is offered and
// Read reports would-block.
type Handle struct {
	mu            sync.Mutex
	kind          api.HandleKind
	fd            int
	writevScript  []WritevResult
	written       []byte
	writevCalls   int
	queueSize     int
	closing       bool
	closed        bool
	shutdownErr   error
	shutdownCalls int
	blockingCalls int
	readScript    []readResult
}

type readResult struct {
	data []byte
	err  error
}

var _ api.Handle = (*Handle)(nil)

// NewHandle creates a fake handle of the given kind.
func NewHandle(kind api.HandleKind) *Handle {
	return &Handle{kind: kind, fd: api.NoFD}
}

// SetFD scripts the descriptor number returned by FD.
func (h *Handle) SetFD(fd int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fd = fd
}

// PushWritevResult appends one scripted Writev outcome.
func (h *Handle) PushWritevResult(n int, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writevScript = append(h.writevScript, WritevResult{N: n, Err: err})
}

// PushReadResult appends one scripted Read outcome.
func (h *Handle) PushReadResult(data []byte, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readScript = append(h.readScript, readResult{data: data, err: err})
}

// SetWriteQueueSize scripts the kernel write-queue depth.
func (h *Handle) SetWriteQueueSize(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queueSize = n
}

// SetClosing moves the handle into closing state.
func (h *Handle) SetClosing(closing bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closing = closing
}

// SetShutdownError scripts the Shutdown outcome.
func (h *Handle) SetShutdownError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shutdownErr = err
}

// Written returns a copy of all bytes the fake kernel accepted.
func (h *Handle) Written() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]byte, len(h.written))
	copy(out, h.written)
	return out
}

// WritevCalls returns how many Writev calls were made.
func (h *Handle) WritevCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.writevCalls
}

// ShutdownCalls returns how many Shutdown calls were made.
func (h *Handle) ShutdownCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shutdownCalls
}

// BlockingCalls returns how many SetBlocking calls reached the handle.
func (h *Handle) BlockingCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.blockingCalls
}

// Kind implements api.Handle.
func (h *Handle) Kind() api.HandleKind {
	return h.kind
}

// FD implements api.Handle.
func (h *Handle) FD() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fd
}

// Read implements api.Handle, consuming the read script.
func (h *Handle) Read(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.readScript) == 0 {
		return 0, api.ErrWouldBlock
	}
	r := h.readScript[0]
	h.readScript = h.readScript[1:]
	n := copy(p, r.data)
	return n, r.err
}

// Writev implements api.Handle, consuming the writev script. The bytes
// the scripted outcome accepts are recorded in Written.
func (h *Handle) Writev(bufs [][]byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.writevLocked(bufs)
}

func (h *Handle) writevLocked(bufs [][]byte) (int, error) {
	h.writevCalls++
	total := 0
	for _, b := range bufs {
		total += len(b)
	}
	res := WritevResult{N: total}
	if len(h.writevScript) > 0 {
		res = h.writevScript[0]
		h.writevScript = h.writevScript[1:]
	}
	if res.Err != nil {
		return 0, res.Err
	}
	remain := res.N
	for _, b := range bufs {
		if remain <= 0 {
			break
		}
		take := len(b)
		if take > remain {
			take = remain
		}
		h.written = append(h.written, b[:take]...)
		remain -= take
	}
	return res.N, nil
}

// Shutdown implements api.Handle.
func (h *Handle) Shutdown() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shutdownCalls++
	return h.shutdownErr
}

// SetBlocking implements api.Handle and counts kernel touches so tests
// can assert liveness gating.
func (h *Handle) SetBlocking(enable bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.blockingCalls++
	return nil
}

// WriteQueueSize implements api.Handle.
func (h *Handle) WriteQueueSize() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.queueSize
}

// IsAlive implements api.Handle.
func (h *Handle) IsAlive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.closing && !h.closed
}

// IsClosing implements api.Handle.
func (h *Handle) IsClosing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closing || h.closed
}

// Close implements api.Handle.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return api.ErrClosed
	}
	h.closed = true
	return nil
}
