// File: fake/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package fake provides controllable implementations of the api
// contracts for testing and development: a scriptable Handle and
// IPCPipe, a test-driven Loop whose readiness and completions are
// delivered by the test body, and a recording Sink.

package fake
