// File: reactor/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package reactor implements api.Loop over the platform's readiness
// notification facility: epoll on Linux, a stub elsewhere. One Loop runs
// on one goroutine; handles are registered by descriptor, read interest
// follows StartRead/StopRead, and write interest is raised only while a
// handle has queued operations.
//
// Submitted writes and shutdowns sit in a per-handle FIFO and complete
// strictly in submission order within their category. A shutdown queues
// behind every write submitted before it.

package reactor
