// File: api/kind.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Closed set of handle kinds. Only KindTCP, KindNamedPipe and KindUDP are
// legal as transferred-handle kinds over an IPC pipe; KindTTY exists for
// local terminal handles and is never accepted from a peer.

package api

// HandleKind identifies the variant of a duplex I/O handle.
type HandleKind int

const (
	// KindUnknown marks an unclassified descriptor. It is also the
	// "nothing pending" answer of IPCHandle.PendingKind.
	KindUnknown HandleKind = iota

	// KindTCP is a TCP stream socket.
	KindTCP

	// KindNamedPipe is a Unix-domain stream socket or FIFO.
	KindNamedPipe

	// KindUDP is a UDP datagram socket.
	KindUDP

	// KindTTY is a terminal device.
	KindTTY
)

// String returns the lowercase kind name.
func (k HandleKind) String() string {
	switch k {
	case KindTCP:
		return "tcp"
	case KindNamedPipe:
		return "pipe"
	case KindUDP:
		return "udp"
	case KindTTY:
		return "tty"
	default:
		return "unknown"
	}
}

// Transferable reports whether a handle of this kind may legally arrive
// as ancillary data on an IPC pipe read.
func (k HandleKind) Transferable() bool {
	return k == KindTCP || k == KindNamedPipe || k == KindUDP
}
