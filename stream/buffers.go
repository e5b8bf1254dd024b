// File: stream/buffers.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Sliding-window accounting for partially accepted vectored writes. The
// kernel may accept fewer bytes than offered; the remainder is expressed
// by reslicing the original views in place, never by copying payload.

package stream

// ConsumeBuffers returns the unsent remainder of bufs after the kernel
// accepted written bytes. Fully consumed leading buffers are dropped; a
// partially consumed buffer is advanced past the consumed prefix and
// iteration stops there, so at most the front buffer is resliced. With
// written == 0 the sequence is returned byte-for-byte unchanged.
//
// The input slice is mutated: entries keep their identity as views into
// caller-owned memory and ordering is preserved.
func ConsumeBuffers(bufs [][]byte, written int) [][]byte {
	for len(bufs) > 0 {
		// Slice: this buffer survives with its prefix consumed.
		if len(bufs[0]) > written {
			bufs[0] = bufs[0][written:]
			break
		}
		// Discard: buffer fully consumed.
		written -= len(bufs[0])
		bufs = bufs[1:]
	}
	return bufs
}

// TotalLen sums the byte lengths of bufs.
func TotalLen(bufs [][]byte) int {
	total := 0
	for _, b := range bufs {
		total += len(b)
	}
	return total
}
