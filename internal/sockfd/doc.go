// File: internal/sockfd/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package sockfd is the raw descriptor syscall layer of hioload-stream.
// It wraps the non-blocking kernel calls the transport handles need
// (readv/writev, sendmsg/recvmsg with SCM_RIGHTS, SIOCOUTQ, shutdown,
// blocking-mode toggles) and normalizes errno values into the api error
// taxonomy. Platform support is split by build tags in the same way the
// rest of the library splits reactors: a Linux implementation and a stub
// that fails with api.ErrNotSupported elsewhere.

package sockfd
