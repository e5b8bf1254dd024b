// File: stream/accept.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Default reconstruction of handles transferred over an IPC pipe. The
// transferable kinds form a closed set with one constructor per variant;
// anything else is a protocol error, never a best-effort guess.

package stream

import (
	"fmt"

	"github.com/momentics/hioload-stream/api"
	"github.com/momentics/hioload-stream/transport"
)

type fdAcceptor struct{}

// DefaultAcceptor returns the descriptor-backed acceptor used by
// NewAdapter unless WithAcceptor overrides it.
func DefaultAcceptor() api.Acceptor {
	return fdAcceptor{}
}

// Accept implements api.Acceptor. The kind is validated before the
// pending descriptor is claimed, so a protocol error leaves the parent's
// pending queue intact for diagnosis.
func (fdAcceptor) Accept(kind api.HandleKind, parent api.IPCHandle) (api.Handle, error) {
	if !kind.Transferable() {
		return nil, fmt.Errorf("%w: %s", api.ErrUnknownHandleKind, kind)
	}
	fd, err := parent.AcceptPending()
	if err != nil {
		return nil, err
	}
	switch kind {
	case api.KindTCP:
		return transport.NewTCP(fd)
	case api.KindNamedPipe:
		return transport.NewIPCPipe(fd, false)
	default:
		return transport.NewUDP(fd)
	}
}
