//go:build linux
// +build linux

// File: internal/sockfd/sockfd_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux syscall layer via golang.org/x/sys/unix. All descriptors handled
// here are expected to be in non-blocking mode; EAGAIN is a normal answer,
// not a failure.

package sockfd

import (
	"io"

	"github.com/momentics/hioload-stream/api"
	"golang.org/x/sys/unix"
)

// maxRightsPerRead bounds how many descriptors one recvmsg may deliver.
const maxRightsPerRead = 16

// Read performs one non-blocking read into p. A zero-byte result on a
// non-empty buffer is reported as io.EOF, matching stream semantics.
func Read(fd int, p []byte) (int, error) {
	n, err := unix.Read(fd, p)
	if err != nil {
		return 0, mapErrno(err)
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Writev performs one non-blocking vectored write and returns the byte
// count the kernel accepted.
func Writev(fd int, bufs [][]byte) (int, error) {
	n, err := unix.Writev(fd, bufs)
	if err != nil {
		return 0, mapErrno(err)
	}
	return n, nil
}

// SendmsgRights writes bufs and, when transferFD >= 0, attaches it as
// SCM_RIGHTS ancillary data so the peer receives a duplicate descriptor
// atomically with the payload.
func SendmsgRights(fd int, bufs [][]byte, transferFD int) (int, error) {
	var oob []byte
	if transferFD >= 0 {
		oob = unix.UnixRights(transferFD)
	}
	n, err := unix.SendmsgBuffers(fd, bufs, oob, nil, unix.MSG_NOSIGNAL)
	if err != nil {
		return 0, mapErrno(err)
	}
	return n, nil
}

// RecvmsgRights reads payload into p and collects any SCM_RIGHTS
// descriptors attached to the message. Received descriptors arrive with
// CLOEXEC set. A zero-byte, zero-rights result is io.EOF.
func RecvmsgRights(fd int, p []byte) (int, []int, error) {
	oob := make([]byte, unix.CmsgSpace(maxRightsPerRead*4))
	n, oobn, _, _, err := unix.Recvmsg(fd, p, oob, unix.MSG_CMSG_CLOEXEC|unix.MSG_DONTWAIT)
	if err != nil {
		return 0, nil, mapErrno(err)
	}
	fds := parseRights(oob[:oobn])
	if n == 0 && len(fds) == 0 && len(p) > 0 {
		return 0, nil, io.EOF
	}
	return n, fds, nil
}

func parseRights(oob []byte) []int {
	if len(oob) == 0 {
		return nil
	}
	msgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return nil
	}
	var fds []int
	for i := range msgs {
		if msgs[i].Header.Level != unix.SOL_SOCKET || msgs[i].Header.Type != unix.SCM_RIGHTS {
			continue
		}
		got, err := unix.ParseUnixRights(&msgs[i])
		if err != nil {
			continue
		}
		fds = append(fds, got...)
	}
	return fds
}

// OutqBytes returns the kernel's count of not-yet-transmitted bytes
// queued for send on fd (SIOCOUTQ).
func OutqBytes(fd int) (int, error) {
	n, err := unix.IoctlGetInt(fd, unix.SIOCOUTQ)
	if err != nil {
		return 0, mapErrno(err)
	}
	return n, nil
}

// SetNonblock toggles O_NONBLOCK on fd.
func SetNonblock(fd int, nonblock bool) error {
	if err := unix.SetNonblock(fd, nonblock); err != nil {
		return mapErrno(err)
	}
	return nil
}

// ShutdownWrite half-closes fd: SHUT_WR, receives stay open.
func ShutdownWrite(fd int) error {
	if err := unix.Shutdown(fd, unix.SHUT_WR); err != nil {
		return mapErrno(err)
	}
	return nil
}

// Close releases fd.
func Close(fd int) error {
	if err := unix.Close(fd); err != nil {
		return mapErrno(err)
	}
	return nil
}

// SocketKind probes the handle kind of fd through SO_TYPE/SO_DOMAIN.
// Non-socket descriptors classify as TTY when they answer termios, and
// as named pipes (FIFO) otherwise.
func SocketKind(fd int) (api.HandleKind, error) {
	soType, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_TYPE)
	if err != nil {
		if err == unix.ENOTSOCK {
			if _, terr := unix.IoctlGetTermios(fd, unix.TCGETS); terr == nil {
				return api.KindTTY, nil
			}
			return api.KindNamedPipe, nil
		}
		return api.KindUnknown, mapErrno(err)
	}
	domain, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_DOMAIN)
	if err != nil {
		return api.KindUnknown, mapErrno(err)
	}
	switch {
	case soType == unix.SOCK_STREAM && (domain == unix.AF_INET || domain == unix.AF_INET6):
		return api.KindTCP, nil
	case soType == unix.SOCK_STREAM && domain == unix.AF_UNIX:
		return api.KindNamedPipe, nil
	case soType == unix.SOCK_DGRAM && (domain == unix.AF_INET || domain == unix.AF_INET6):
		return api.KindUDP, nil
	}
	return api.KindUnknown, nil
}

// mapErrno folds transient errno values into the api taxonomy and leaves
// everything else as the raw errno for callers to wrap.
func mapErrno(err error) error {
	switch err {
	case unix.EAGAIN: // EWOULDBLOCK aliases EAGAIN on Linux
		return api.ErrWouldBlock
	case unix.ENOSYS, unix.EOPNOTSUPP:
		return api.ErrNotSupported
	}
	return err
}
