//go:build !linux
// +build !linux

// File: reactor/poller_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stub poller for platforms without a reactor implementation.

package reactor

import "github.com/momentics/hioload-stream/api"

func newPoller() (poller, error) {
	return nil, api.ErrNotSupported
}
