// File: fake/ipc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"sync"

	"github.com/momentics/hioload-stream/api"
)

// PendingFD scripts one transferred descriptor waiting on a fake pipe.
type PendingFD struct {
	Kind api.HandleKind
	FD   int
}

// IPCPipe is a fake api.IPCHandle.
type IPCPipe struct {
	Handle

	pmu       sync.Mutex
	ipc       bool
	pending   []PendingFD
	acceptErr error
	transfers []api.Handle
}

var _ api.IPCHandle = (*IPCPipe)(nil)

// NewIPCPipe creates a fake named-pipe handle; ipc enables the
// handle-passing mode flag.
func NewIPCPipe(ipc bool) *IPCPipe {
	return &IPCPipe{
		Handle: Handle{kind: api.KindNamedPipe, fd: api.NoFD},
		ipc:    ipc,
	}
}

// PushPending queues one scripted transferred descriptor.
func (p *IPCPipe) PushPending(kind api.HandleKind, fd int) {
	p.pmu.Lock()
	defer p.pmu.Unlock()
	p.pending = append(p.pending, PendingFD{Kind: kind, FD: fd})
}

// SetAcceptError makes AcceptPending fail.
func (p *IPCPipe) SetAcceptError(err error) {
	p.pmu.Lock()
	defer p.pmu.Unlock()
	p.acceptErr = err
}

// Transfers returns the handles sent through WriteMsg.
func (p *IPCPipe) Transfers() []api.Handle {
	p.pmu.Lock()
	defer p.pmu.Unlock()
	out := make([]api.Handle, len(p.transfers))
	copy(out, p.transfers)
	return out
}

// IPC implements api.IPCHandle.
func (p *IPCPipe) IPC() bool {
	return p.ipc
}

// WriteMsg implements api.IPCHandle, recording the transfer and writing
// the payload through the scripted Writev path.
func (p *IPCPipe) WriteMsg(bufs [][]byte, transfer api.Handle) (int, error) {
	if transfer != nil {
		if !p.ipc {
			return 0, api.ErrInvalidArgument
		}
		p.pmu.Lock()
		p.transfers = append(p.transfers, transfer)
		p.pmu.Unlock()
	}
	return p.Writev(bufs)
}

// PendingCount implements api.IPCHandle.
func (p *IPCPipe) PendingCount() int {
	p.pmu.Lock()
	defer p.pmu.Unlock()
	return len(p.pending)
}

// PendingKind implements api.IPCHandle.
func (p *IPCPipe) PendingKind() api.HandleKind {
	p.pmu.Lock()
	defer p.pmu.Unlock()
	if len(p.pending) == 0 {
		return api.KindUnknown
	}
	return p.pending[0].Kind
}

// AcceptPending implements api.IPCHandle.
func (p *IPCPipe) AcceptPending() (int, error) {
	p.pmu.Lock()
	defer p.pmu.Unlock()
	if p.acceptErr != nil {
		return api.NoFD, p.acceptErr
	}
	if len(p.pending) == 0 {
		return api.NoFD, api.ErrNoPendingHandle
	}
	fd := p.pending[0].FD
	p.pending = p.pending[1:]
	return fd, nil
}
