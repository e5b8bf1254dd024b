// File: control/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package control holds runtime instrumentation. Counters is the
// concrete api.Collector: per-kind byte counters with a snapshot view
// for monitoring surfaces.

package control
