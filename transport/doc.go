// File: transport/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package transport provides the descriptor-backed api.Handle
// implementations: FDHandle for TCP/pipe/UDP/TTY descriptors and IPCPipe
// for Unix-domain pipes in handle-passing mode. Handles own their
// descriptor exclusively and run a small close-state machine (initialized,
// closing, closed) with a double-close guard; IsAlive and IsClosing are
// answered from that state.
//
// All kernel work goes through internal/sockfd, so this package builds on
// every platform and degrades to api.ErrNotSupported where no syscall
// layer exists.

package transport
