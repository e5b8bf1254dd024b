// File: pool/bytepool_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import "testing"

func TestBytePoolGetPut(t *testing.T) {
	p := NewBytePool(4096)
	if p.Size() != 4096 {
		t.Fatalf("Size = %d, want 4096", p.Size())
	}

	buf := p.GetBuffer()
	if len(buf) != 4096 {
		t.Fatalf("GetBuffer len = %d, want 4096", len(buf))
	}
	p.PutBuffer(buf)

	again := p.GetBuffer()
	if len(again) != 4096 {
		t.Fatalf("recycled buffer len = %d, want 4096", len(again))
	}
}

func TestBytePoolRejectsForeignBuffers(t *testing.T) {
	p := NewBytePool(1024)
	// Wrong capacity must not be recycled into the pool.
	p.PutBuffer(make([]byte, 16))
	p.PutBuffer(nil)

	buf := p.GetBuffer()
	if len(buf) != 1024 {
		t.Fatalf("GetBuffer len = %d after foreign Put, want 1024", len(buf))
	}
}

func TestBytePoolResetsLength(t *testing.T) {
	p := NewBytePool(64)
	buf := p.GetBuffer()
	p.PutBuffer(buf[:10])
	out := p.GetBuffer()
	if len(out) != 64 {
		t.Fatalf("GetBuffer len = %d after shortened Put, want 64", len(out))
	}
}
