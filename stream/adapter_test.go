// File: stream/adapter_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package stream_test

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-stream/api"
	"github.com/momentics/hioload-stream/control"
	"github.com/momentics/hioload-stream/fake"
	"github.com/momentics/hioload-stream/stream"
)

// stubAcceptor claims the pending descriptor and wraps it in a fake
// handle instead of touching the kernel.
type stubAcceptor struct {
	accepted []api.Handle
	err      error
}

func (a *stubAcceptor) Accept(kind api.HandleKind, parent api.IPCHandle) (api.Handle, error) {
	if a.err != nil {
		return nil, a.err
	}
	if _, err := parent.AcceptPending(); err != nil {
		return nil, err
	}
	h := fake.NewHandle(kind)
	a.accepted = append(a.accepted, h)
	return h, nil
}

func newTestAdapter(kind api.HandleKind) (*stream.Adapter, *fake.Loop, *fake.Handle, *fake.Sink) {
	loop := fake.NewLoop()
	h := fake.NewHandle(kind)
	sink := fake.NewSink()
	return stream.NewAdapter(loop, h, sink), loop, h, sink
}

func TestWriteCompletionOrder(t *testing.T) {
	a, loop, h, sink := newTestAdapter(api.KindTCP)

	reqA := &stream.WriteRequest{}
	reqB := &stream.WriteRequest{}
	require.NoError(t, a.Write(reqA, views("first"), nil))
	require.NoError(t, a.Write(reqB, views("second"), nil))
	require.True(t, reqA.Dispatched())
	require.True(t, reqB.Dispatched())
	require.Equal(t, 2, loop.PendingOps(h))

	loop.CompleteAll(h, nil)

	done := sink.WriteCompletions()
	require.Len(t, done, 2)
	require.Same(t, reqA, done[0].Req)
	require.Same(t, reqB, done[1].Req)
	require.True(t, reqA.Resolved())
	require.NoError(t, reqA.Err())
}

func TestWriteDispatchFailure(t *testing.T) {
	a, loop, _, sink := newTestAdapter(api.KindTCP)
	boom := fmt.Errorf("submit rejected")
	loop.SetSubmitError(boom)

	req := &stream.WriteRequest{}
	err := a.Write(req, views("payload"), nil)

	require.ErrorIs(t, err, boom)
	require.False(t, req.Dispatched())
	// No completion callback may follow a dispatch failure.
	require.Empty(t, sink.WriteCompletions())
}

func TestWriteCompletionError(t *testing.T) {
	a, loop, h, sink := newTestAdapter(api.KindTCP)
	boom := fmt.Errorf("broken pipe")

	req := &stream.WriteRequest{}
	require.NoError(t, a.Write(req, views("payload"), nil))
	loop.CompleteNext(h, boom)

	done := sink.WriteCompletions()
	require.Len(t, done, 1)
	require.ErrorIs(t, done[0].Err, boom)
	require.ErrorIs(t, req.Err(), boom)
}

func TestWriteTransferRequiresIPCPipe(t *testing.T) {
	transfer := fake.NewHandle(api.KindTCP)

	a, _, _, _ := newTestAdapter(api.KindTCP)
	require.ErrorIs(t, a.Write(&stream.WriteRequest{}, views("x"), transfer), api.ErrInvalidArgument)

	// A pipe without handle-passing mode is rejected the same way.
	loop := fake.NewLoop()
	plain := fake.NewIPCPipe(false)
	a = stream.NewAdapter(loop, plain, fake.NewSink())
	require.ErrorIs(t, a.Write(&stream.WriteRequest{}, views("x"), transfer), api.ErrInvalidArgument)

	ipc := fake.NewIPCPipe(true)
	a = stream.NewAdapter(loop, ipc, fake.NewSink())
	req := &stream.WriteRequest{}
	require.NoError(t, a.Write(req, views("x"), transfer))
	require.Same(t, transfer, req.Transfer())
}

func TestWriteCounters(t *testing.T) {
	counters := control.NewCounters()
	loop := fake.NewLoop()
	h := fake.NewHandle(api.KindTCP)
	a := stream.NewAdapter(loop, h, fake.NewSink(), stream.WithCollector(counters))

	require.NoError(t, a.Write(&stream.WriteRequest{}, views("ab", "cde"), nil))

	require.Equal(t, int64(5), counters.Snapshot()["net_bytes_sent"])
}

func TestTryWriteSlicing(t *testing.T) {
	a, _, h, _ := newTestAdapter(api.KindTCP)
	h.PushWritevResult(4, nil)

	bufs := views("ab", "cde")
	require.NoError(t, a.TryWrite(&bufs))

	require.Len(t, bufs, 1)
	require.Equal(t, "e", string(bufs[0]))
	require.Equal(t, "abcd", string(h.Written()))
}

func TestTryWriteWouldBlock(t *testing.T) {
	a, _, h, _ := newTestAdapter(api.KindTCP)
	h.PushWritevResult(0, api.ErrWouldBlock)

	bufs := views("ab", "cde")
	require.NoError(t, a.TryWrite(&bufs))

	require.Len(t, bufs, 2)
	require.Equal(t, "ab", string(bufs[0]))
	require.Equal(t, "cde", string(bufs[1]))
}

func TestTryWriteNotSupported(t *testing.T) {
	a, _, h, _ := newTestAdapter(api.KindTCP)
	h.PushWritevResult(0, api.ErrNotSupported)

	bufs := views("ab")
	require.NoError(t, a.TryWrite(&bufs))
	require.Len(t, bufs, 1)
}

func TestTryWriteKernelError(t *testing.T) {
	a, _, h, _ := newTestAdapter(api.KindTCP)
	boom := fmt.Errorf("connection reset")
	h.PushWritevResult(0, boom)

	bufs := views("ab")
	require.ErrorIs(t, a.TryWrite(&bufs), boom)
}

func TestReadForwarding(t *testing.T) {
	a, loop, h, sink := newTestAdapter(api.KindTCP)
	require.NoError(t, a.ReadStart())

	require.True(t, loop.DeliverRead(h, []byte("hello"), nil))
	require.True(t, loop.DeliverRead(h, nil, io.EOF))

	reads := sink.Reads()
	require.Len(t, reads, 2)
	require.Equal(t, 5, reads[0].N)
	require.Equal(t, "hello", string(reads[0].Buf[:reads[0].N]))
	require.NoError(t, reads[0].Err)
	require.Equal(t, 0, reads[1].N)
	require.ErrorIs(t, reads[1].Err, io.EOF)
	// The adapter never stops reading on its own.
	require.True(t, loop.Reading(h))
}

func TestReadStartFailure(t *testing.T) {
	a, loop, _, _ := newTestAdapter(api.KindTCP)
	boom := fmt.Errorf("registration failed")
	loop.SetStartError(boom)

	require.ErrorIs(t, a.ReadStart(), boom)
}

func TestReadStopWithoutStart(t *testing.T) {
	a, _, _, _ := newTestAdapter(api.KindTCP)

	require.NoError(t, a.ReadStop())
}

func TestReadCountersAttribution(t *testing.T) {
	counters := control.NewCounters()
	loop := fake.NewLoop()
	h := fake.NewHandle(api.KindNamedPipe)
	a := stream.NewAdapter(loop, h, fake.NewSink(), stream.WithCollector(counters))
	require.NoError(t, a.ReadStart())

	loop.DeliverRead(h, []byte("abc"), nil)

	snap := counters.Snapshot()
	require.Equal(t, int64(3), snap["pipe_bytes_received"])
	require.Equal(t, int64(0), snap["net_bytes_received"])
}

func TestPendingHandleRoundTrip(t *testing.T) {
	loop := fake.NewLoop()
	pipe := fake.NewIPCPipe(true)
	sink := fake.NewSink()
	acc := &stubAcceptor{}
	a := stream.NewAdapter(loop, pipe, sink, stream.WithAcceptor(acc))
	require.NoError(t, a.ReadStart())

	pipe.PushPending(api.KindTCP, 7)
	loop.DeliverRead(pipe, []byte("x!"), nil)

	// Payload of the carrying read is forwarded unmodified.
	reads := sink.Reads()
	require.Len(t, reads, 1)
	require.Equal(t, "x!", string(reads[0].Buf[:reads[0].N]))

	// Exactly one accepted wrapper, claimable exactly once.
	got := a.TakePendingHandle()
	require.NotNil(t, got)
	require.Equal(t, api.KindTCP, got.Kind())
	require.Len(t, acc.accepted, 1)
	require.Same(t, acc.accepted[0], got)
	require.Nil(t, a.TakePendingHandle())
	require.Equal(t, 0, pipe.PendingCount())
}

func TestPendingHandleSkippedOnEmptyRead(t *testing.T) {
	loop := fake.NewLoop()
	pipe := fake.NewIPCPipe(true)
	acc := &stubAcceptor{}
	a := stream.NewAdapter(loop, pipe, fake.NewSink(), stream.WithAcceptor(acc))
	require.NoError(t, a.ReadStart())

	pipe.PushPending(api.KindTCP, 7)
	loop.DeliverRead(pipe, nil, io.EOF)

	// No byte payload, no accept; the descriptor stays pending.
	require.Nil(t, a.TakePendingHandle())
	require.Equal(t, 1, pipe.PendingCount())
}

func TestPendingHandleAcceptFailurePanics(t *testing.T) {
	loop := fake.NewLoop()
	pipe := fake.NewIPCPipe(true)
	acc := &stubAcceptor{err: fmt.Errorf("kernel state desync")}
	a := stream.NewAdapter(loop, pipe, fake.NewSink(), stream.WithAcceptor(acc))
	require.NoError(t, a.ReadStart())

	pipe.PushPending(api.KindTCP, 7)
	require.Panics(t, func() {
		loop.DeliverRead(pipe, []byte("x"), nil)
	})
}

func TestLivenessGating(t *testing.T) {
	a, _, h, _ := newTestAdapter(api.KindTCP)
	require.True(t, a.IsAlive())
	require.NoError(t, a.SetBlocking(true))
	require.Equal(t, 1, h.BlockingCalls())

	h.SetClosing(true)

	require.False(t, a.IsAlive())
	require.True(t, a.IsClosing())
	require.ErrorIs(t, a.SetBlocking(false), api.ErrInvalidArgument)
	// The kernel handle was not touched by the gated call.
	require.Equal(t, 1, h.BlockingCalls())
}

func TestWriteQueueSize(t *testing.T) {
	a, _, h, _ := newTestAdapter(api.KindTCP)
	require.Equal(t, 0, a.WriteQueueSize())

	h.SetWriteQueueSize(42)
	require.Equal(t, 42, a.WriteQueueSize())
}

func TestDetachRejectsOperations(t *testing.T) {
	a, _, h, _ := newTestAdapter(api.KindTCP)

	got := a.Detach()
	require.Same(t, h, got)

	require.Equal(t, 0, a.WriteQueueSize())
	require.Equal(t, api.NoFD, a.FD())
	require.False(t, a.IsAlive())
	require.True(t, a.IsClosing())
	require.ErrorIs(t, a.Write(&stream.WriteRequest{}, views("x"), nil), api.ErrInvalidArgument)
	require.ErrorIs(t, a.Shutdown(&stream.ShutdownRequest{}), api.ErrInvalidArgument)
	require.ErrorIs(t, a.ReadStart(), api.ErrInvalidArgument)
	bufs := views("x")
	require.ErrorIs(t, a.TryWrite(&bufs), api.ErrInvalidArgument)
}

func TestShutdownCompletion(t *testing.T) {
	a, loop, h, sink := newTestAdapter(api.KindTCP)

	req := &stream.ShutdownRequest{}
	require.NoError(t, a.Shutdown(req))
	require.True(t, req.Dispatched())
	require.False(t, req.Resolved())

	loop.CompleteNext(h, nil)

	done := sink.ShutdownCompletions()
	require.Len(t, done, 1)
	require.Same(t, req, done[0].Req)
	require.True(t, req.Resolved())
	require.NoError(t, req.Err())
}

func TestShutdownDispatchFailure(t *testing.T) {
	a, loop, _, sink := newTestAdapter(api.KindTCP)
	boom := fmt.Errorf("submit rejected")
	loop.SetSubmitError(boom)

	req := &stream.ShutdownRequest{}
	require.ErrorIs(t, a.Shutdown(req), boom)
	require.False(t, req.Dispatched())
	require.Empty(t, sink.ShutdownCompletions())
}
