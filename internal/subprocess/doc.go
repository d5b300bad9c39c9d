// Package subprocess provides the subprocess-based transport for go-spatial.
//
// This package implements the Transport interface by spawning go-spatial as
// a child process and streaming its merged stdout/stderr line by line. It
// handles process lifecycle management, line buffering, and error handling.
package subprocess
