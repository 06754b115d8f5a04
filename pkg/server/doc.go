// Package server runs glint applications over WebSocket. Each connection
// gets a Session owning its own runtime, remote host, and event loop; the
// loop is the single goroutine that touches the component tree, while the
// session's read and write pumps move frames in and out. Patch batches are
// flushed to the client after every drain.
package server
