//go:build !linux
// +build !linux

// File: internal/sockfd/sockfd_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stub syscall layer for platforms without an implementation. Every call
// fails with api.ErrNotSupported so higher layers degrade predictably.

package sockfd

import "github.com/momentics/hioload-stream/api"

// Read is unavailable on this platform.
func Read(fd int, p []byte) (int, error) {
	return 0, api.ErrNotSupported
}

// Writev is unavailable on this platform.
func Writev(fd int, bufs [][]byte) (int, error) {
	return 0, api.ErrNotSupported
}

// SendmsgRights is unavailable on this platform.
func SendmsgRights(fd int, bufs [][]byte, transferFD int) (int, error) {
	return 0, api.ErrNotSupported
}

// RecvmsgRights is unavailable on this platform.
func RecvmsgRights(fd int, p []byte) (int, []int, error) {
	return 0, nil, api.ErrNotSupported
}

// OutqBytes is unavailable on this platform.
func OutqBytes(fd int) (int, error) {
	return 0, api.ErrNotSupported
}

// SetNonblock is unavailable on this platform.
func SetNonblock(fd int, nonblock bool) error {
	return api.ErrNotSupported
}

// ShutdownWrite is unavailable on this platform.
func ShutdownWrite(fd int) error {
	return api.ErrNotSupported
}

// Close is unavailable on this platform.
func Close(fd int) error {
	return api.ErrNotSupported
}

// SocketKind is unavailable on this platform.
func SocketKind(fd int) (api.HandleKind, error) {
	return api.KindUnknown, api.ErrNotSupported
}
