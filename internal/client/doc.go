// Package client implements the interactive Session over the go-spatial
// command shell.
//
// The client package provides a stateful interface to a single long-lived
// go-spatial process. Unlike the one-shot query functions, a Session enables:
//   - Running many tools without paying process startup per call
//   - A sticky working directory set once with the cwd command
//   - Streaming output with prompt-delimited response boundaries
//
// The Session manages its own read goroutine and routes the merged output
// stream, using the shell prompt token to detect when a command's output
// is complete.
package client
