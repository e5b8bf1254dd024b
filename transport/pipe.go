// File: transport/pipe.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// IPCPipe is a Unix-domain stream handle that may additionally carry
// transferred descriptors (SCM_RIGHTS) alongside byte data. Descriptors
// discovered during Read are parked in a pending queue until a consumer
// claims them through AcceptPending, exactly once each. Descriptors still
// unclaimed when the pipe closes are closed with it.

package transport

import (
	"github.com/momentics/hioload-stream/api"
	"github.com/momentics/hioload-stream/internal/sockfd"
)

// IPCPipe is a named-pipe handle with optional handle-passing mode.
type IPCPipe struct {
	FDHandle
	ipc     bool
	pending []int
}

var _ api.IPCHandle = (*IPCPipe)(nil)

// NewIPCPipe wraps a Unix-domain stream socket descriptor. With ipc set,
// reads collect transferred descriptors and WriteMsg may attach one.
func NewIPCPipe(fd int, ipc bool) (*IPCPipe, error) {
	base, err := newFDHandle(api.KindNamedPipe, fd)
	if err != nil {
		return nil, err
	}
	return &IPCPipe{FDHandle: *base, ipc: ipc}, nil
}

// IPC implements api.IPCHandle.
func (p *IPCPipe) IPC() bool {
	return p.ipc
}

// Read implements api.Handle. In IPC mode it uses recvmsg so ancillary
// descriptors attached to the payload are captured; each captured
// descriptor is switched to non-blocking mode and queued as pending.
func (p *IPCPipe) Read(buf []byte) (int, error) {
	if !p.ipc {
		return p.FDHandle.Read(buf)
	}
	n, fds, err := sockfd.RecvmsgRights(p.fd, buf)
	for _, fd := range fds {
		if nerr := sockfd.SetNonblock(fd, true); nerr != nil {
			_ = sockfd.Close(fd)
			continue
		}
		p.pending = append(p.pending, fd)
	}
	return n, err
}

// WriteMsg implements api.IPCHandle. A nil transfer degrades to a plain
// vectored write; a non-nil transfer requires IPC mode.
func (p *IPCPipe) WriteMsg(bufs [][]byte, transfer api.Handle) (int, error) {
	if transfer == nil {
		return p.Writev(bufs)
	}
	if !p.ipc {
		return 0, api.ErrInvalidArgument
	}
	tfd := transfer.FD()
	if tfd == api.NoFD {
		return 0, api.ErrInvalidArgument
	}
	return sockfd.SendmsgRights(p.fd, bufs, tfd)
}

// PendingCount implements api.IPCHandle.
func (p *IPCPipe) PendingCount() int {
	return len(p.pending)
}

// PendingKind implements api.IPCHandle.
func (p *IPCPipe) PendingKind() api.HandleKind {
	if len(p.pending) == 0 {
		return api.KindUnknown
	}
	kind, err := sockfd.SocketKind(p.pending[0])
	if err != nil {
		return api.KindUnknown
	}
	return kind
}

// AcceptPending implements api.IPCHandle. Ownership of the returned
// descriptor moves to the caller.
func (p *IPCPipe) AcceptPending() (int, error) {
	if len(p.pending) == 0 {
		return api.NoFD, api.ErrNoPendingHandle
	}
	fd := p.pending[0]
	p.pending = p.pending[1:]
	return fd, nil
}

// Close implements api.Handle. Unclaimed pending descriptors are released
// together with the pipe itself.
func (p *IPCPipe) Close() error {
	for _, fd := range p.pending {
		_ = sockfd.Close(fd)
	}
	p.pending = nil
	return p.FDHandle.Close()
}
