// File: stream/request.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// In-flight operation value objects. A request is created by the caller
// per operation, handed to the adapter for dispatch, and owned by the
// caller again once its completion callback has fired. The adapter never
// retains it past dispatch.

package stream

import "github.com/momentics/hioload-stream/api"

// WriteRequest represents one in-flight write.
//
// Buffers are borrowed views into caller-owned memory; the caller must
// keep them valid until OnWriteComplete fires. The completion status is
// set exactly once.
type WriteRequest struct {
	bufs       [][]byte
	transfer   api.Handle
	dispatched bool
	resolved   bool
	err        error
}

var _ api.Request = (*WriteRequest)(nil)

// Buffers returns the borrowed payload views of this request.
func (r *WriteRequest) Buffers() [][]byte {
	return r.bufs
}

// Transfer returns the handle sent alongside the payload, or nil.
func (r *WriteRequest) Transfer() api.Handle {
	return r.transfer
}

// Dispatched implements api.Request.
func (r *WriteRequest) Dispatched() bool {
	return r.dispatched
}

// Resolved implements api.Request.
func (r *WriteRequest) Resolved() bool {
	return r.resolved
}

// Err implements api.Request.
func (r *WriteRequest) Err() error {
	return r.err
}

func (r *WriteRequest) resolve(err error) {
	if r.resolved {
		return
	}
	r.resolved = true
	r.err = err
}

// ShutdownRequest represents one in-flight half-close. It carries no
// payload and resolves through OnShutdownComplete.
type ShutdownRequest struct {
	dispatched bool
	resolved   bool
	err        error
}

var _ api.Request = (*ShutdownRequest)(nil)

// Dispatched implements api.Request.
func (r *ShutdownRequest) Dispatched() bool {
	return r.dispatched
}

// Resolved implements api.Request.
func (r *ShutdownRequest) Resolved() bool {
	return r.resolved
}

// Err implements api.Request.
func (r *ShutdownRequest) Err() error {
	return r.err
}

func (r *ShutdownRequest) resolve(err error) {
	if r.resolved {
		return
	}
	r.resolved = true
	r.err = err
}
