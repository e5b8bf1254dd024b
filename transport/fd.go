// File: transport/fd.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// FDHandle wraps one open descriptor as an api.Handle. Constructors take
// ownership of the descriptor and switch it to non-blocking mode; from
// then on all I/O goes through the internal/sockfd layer.

package transport

import (
	"fmt"

	"github.com/momentics/hioload-stream/api"
	"github.com/momentics/hioload-stream/internal/sockfd"
)

// FDHandle is a descriptor-backed duplex handle.
type FDHandle struct {
	kind api.HandleKind
	fd   int
	cs   closeState
}

var _ api.Handle = (*FDHandle)(nil)

func newFDHandle(kind api.HandleKind, fd int) (*FDHandle, error) {
	if fd < 0 {
		return nil, api.ErrInvalidArgument
	}
	if err := sockfd.SetNonblock(fd, true); err != nil {
		return nil, fmt.Errorf("set nonblock: %w", err)
	}
	return &FDHandle{kind: kind, fd: fd}, nil
}

// NewTCP wraps a connected TCP socket descriptor.
func NewTCP(fd int) (*FDHandle, error) {
	return newFDHandle(api.KindTCP, fd)
}

// NewPipe wraps a Unix-domain stream socket or FIFO descriptor.
func NewPipe(fd int) (*FDHandle, error) {
	return newFDHandle(api.KindNamedPipe, fd)
}

// NewUDP wraps a UDP socket descriptor.
func NewUDP(fd int) (*FDHandle, error) {
	return newFDHandle(api.KindUDP, fd)
}

// NewTTY wraps a terminal descriptor.
func NewTTY(fd int) (*FDHandle, error) {
	return newFDHandle(api.KindTTY, fd)
}

// FromFD wraps fd, probing its kind through the kernel.
func FromFD(fd int) (*FDHandle, error) {
	kind, err := sockfd.SocketKind(fd)
	if err != nil {
		return nil, fmt.Errorf("probe handle kind: %w", err)
	}
	return newFDHandle(kind, fd)
}

// Kind implements api.Handle.
func (h *FDHandle) Kind() api.HandleKind {
	return h.kind
}

// FD implements api.Handle. After Close it returns api.NoFD.
func (h *FDHandle) FD() int {
	return h.fd
}

// Read implements api.Handle.
func (h *FDHandle) Read(p []byte) (int, error) {
	return sockfd.Read(h.fd, p)
}

// Writev implements api.Handle.
func (h *FDHandle) Writev(bufs [][]byte) (int, error) {
	return sockfd.Writev(h.fd, bufs)
}

// Shutdown implements api.Handle: SHUT_WR half-close.
func (h *FDHandle) Shutdown() error {
	if !h.cs.alive() {
		return api.ErrClosed
	}
	return sockfd.ShutdownWrite(h.fd)
}

// SetBlocking implements api.Handle.
func (h *FDHandle) SetBlocking(enable bool) error {
	if !h.cs.alive() {
		return api.ErrClosed
	}
	return sockfd.SetNonblock(h.fd, !enable)
}

// WriteQueueSize implements api.Handle. Unreadable depth reports as 0.
func (h *FDHandle) WriteQueueSize() int {
	if !h.cs.alive() {
		return 0
	}
	n, err := sockfd.OutqBytes(h.fd)
	if err != nil {
		return 0
	}
	return n
}

// IsAlive implements api.Handle.
func (h *FDHandle) IsAlive() bool {
	return h.cs.alive()
}

// IsClosing implements api.Handle.
func (h *FDHandle) IsClosing() bool {
	return h.cs.closing()
}

// Close implements api.Handle. The descriptor is released exactly once;
// later calls return api.ErrClosed.
func (h *FDHandle) Close() error {
	if err := h.cs.begin(); err != nil {
		return err
	}
	err := sockfd.Close(h.fd)
	h.fd = api.NoFD
	h.cs.finish()
	return err
}
