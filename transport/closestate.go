// File: transport/closestate.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport

import "github.com/momentics/hioload-stream/api"

// Close protocol states. Transitions only move forward: initialized to
// closing to closed.
const (
	stateInitialized = iota
	stateClosing
	stateClosed
)

// closeState tracks the close protocol of one handle. It is mutated only
// from the owning event-loop goroutine, so no locking is needed.
type closeState struct {
	v int
}

// alive reports that the close protocol has not begun.
func (s *closeState) alive() bool {
	return s.v == stateInitialized
}

// closing reports that the close protocol has begun or finished.
func (s *closeState) closing() bool {
	return s.v != stateInitialized
}

// begin starts the close protocol. The double-close guard rejects a
// second begin with api.ErrClosed.
func (s *closeState) begin() error {
	if s.v != stateInitialized {
		return api.ErrClosed
	}
	s.v = stateClosing
	return nil
}

// finish marks the close protocol complete.
func (s *closeState) finish() {
	s.v = stateClosed
}
