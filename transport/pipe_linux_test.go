//go:build linux
// +build linux

// File: transport/pipe_linux_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Kernel-backed tests over socketpairs: handle passing, kind probing,
// half-close semantics and the close protocol.

package transport_test

import (
	"errors"
	"io"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-stream/api"
	"github.com/momentics/hioload-stream/transport"
)

func socketpair(t *testing.T) (int, int) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	return fds[0], fds[1]
}

func TestIPCPipePassesTCPHandle(t *testing.T) {
	afd, bfd := socketpair(t)
	a, err := transport.NewIPCPipe(afd, true)
	if err != nil {
		t.Fatalf("NewIPCPipe: %v", err)
	}
	defer a.Close()
	b, err := transport.NewIPCPipe(bfd, true)
	if err != nil {
		t.Fatalf("NewIPCPipe: %v", err)
	}
	defer b.Close()

	tcpfd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		t.Fatalf("socket: %v", err)
	}
	tcp, err := transport.NewTCP(tcpfd)
	if err != nil {
		t.Fatalf("NewTCP: %v", err)
	}
	defer tcp.Close()

	n, err := a.WriteMsg([][]byte{[]byte("x")}, tcp)
	if err != nil {
		t.Fatalf("WriteMsg: %v", err)
	}
	if n != 1 {
		t.Fatalf("WriteMsg wrote %d bytes, want 1", n)
	}

	buf := make([]byte, 16)
	n, err = b.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 1 || buf[0] != 'x' {
		t.Fatalf("Read got %q (%d bytes), want \"x\"", buf[:n], n)
	}
	if got := b.PendingCount(); got != 1 {
		t.Fatalf("PendingCount = %d, want 1", got)
	}
	if got := b.PendingKind(); got != api.KindTCP {
		t.Fatalf("PendingKind = %s, want tcp", got)
	}

	fd, err := b.AcceptPending()
	if err != nil {
		t.Fatalf("AcceptPending: %v", err)
	}
	accepted, err := transport.NewTCP(fd)
	if err != nil {
		t.Fatalf("NewTCP(accepted): %v", err)
	}
	defer accepted.Close()

	if got := b.PendingCount(); got != 0 {
		t.Errorf("PendingCount after claim = %d, want 0", got)
	}
	if _, err := b.AcceptPending(); !errors.Is(err, api.ErrNoPendingHandle) {
		t.Errorf("second AcceptPending = %v, want api.ErrNoPendingHandle", err)
	}
}

func TestIPCPipeTransferOnPlainPipeRejected(t *testing.T) {
	afd, bfd := socketpair(t)
	a, err := transport.NewIPCPipe(afd, false)
	if err != nil {
		t.Fatalf("NewIPCPipe: %v", err)
	}
	defer a.Close()
	defer unix.Close(bfd)

	other := newLocalTCP(t)
	defer other.Close()

	if _, err := a.WriteMsg([][]byte{[]byte("x")}, other); !errors.Is(err, api.ErrInvalidArgument) {
		t.Errorf("WriteMsg with transfer on non-IPC pipe = %v, want api.ErrInvalidArgument", err)
	}
}

func newLocalTCP(t *testing.T) *transport.FDHandle {
	t.Helper()
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		t.Fatalf("socket: %v", err)
	}
	h, err := transport.NewTCP(fd)
	if err != nil {
		t.Fatalf("NewTCP: %v", err)
	}
	return h
}

func TestFromFDProbesKind(t *testing.T) {
	tcp := newLocalTCP(t)
	defer tcp.Close()
	probed, err := transport.FromFD(tcp.FD())
	if err != nil {
		t.Fatalf("FromFD(tcp): %v", err)
	}
	if probed.Kind() != api.KindTCP {
		t.Errorf("FromFD(tcp).Kind = %s, want tcp", probed.Kind())
	}

	afd, bfd := socketpair(t)
	defer unix.Close(bfd)
	pipeH, err := transport.FromFD(afd)
	if err != nil {
		t.Fatalf("FromFD(pipe): %v", err)
	}
	defer pipeH.Close()
	if pipeH.Kind() != api.KindNamedPipe {
		t.Errorf("FromFD(pipe).Kind = %s, want pipe", pipeH.Kind())
	}

	ufd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		t.Fatalf("socket(dgram): %v", err)
	}
	udpH, err := transport.FromFD(ufd)
	if err != nil {
		t.Fatalf("FromFD(udp): %v", err)
	}
	defer udpH.Close()
	if udpH.Kind() != api.KindUDP {
		t.Errorf("FromFD(udp).Kind = %s, want udp", udpH.Kind())
	}
}

func TestShutdownSignalsEOFToPeer(t *testing.T) {
	afd, bfd := socketpair(t)
	a, err := transport.NewPipe(afd)
	if err != nil {
		t.Fatalf("NewPipe: %v", err)
	}
	defer a.Close()
	b, err := transport.NewPipe(bfd)
	if err != nil {
		t.Fatalf("NewPipe: %v", err)
	}
	defer b.Close()

	if err := a.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	buf := make([]byte, 8)
	if _, err := b.Read(buf); !errors.Is(err, io.EOF) {
		t.Errorf("Read after peer shutdown = %v, want io.EOF", err)
	}
}

func TestCloseProtocol(t *testing.T) {
	afd, bfd := socketpair(t)
	defer unix.Close(bfd)
	h, err := transport.NewPipe(afd)
	if err != nil {
		t.Fatalf("NewPipe: %v", err)
	}

	if !h.IsAlive() || h.IsClosing() {
		t.Fatal("fresh handle should be alive and not closing")
	}
	if got := h.WriteQueueSize(); got != 0 {
		t.Errorf("WriteQueueSize on idle handle = %d, want 0", got)
	}

	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if h.IsAlive() || !h.IsClosing() {
		t.Error("closed handle should be dead and closing")
	}
	if h.FD() != api.NoFD {
		t.Errorf("FD after close = %d, want api.NoFD", h.FD())
	}
	if err := h.Close(); !errors.Is(err, api.ErrClosed) {
		t.Errorf("second Close = %v, want api.ErrClosed", err)
	}
	if err := h.SetBlocking(true); !errors.Is(err, api.ErrClosed) {
		t.Errorf("SetBlocking after close = %v, want api.ErrClosed", err)
	}
}
