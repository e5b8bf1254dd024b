// File: pool/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package pool provides the reusable receive-buffer pool behind the
// default allocate path. Sinks that do not manage their own memory get
// fixed-class buffers from here and return them after OnRead.

package pool
