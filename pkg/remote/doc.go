// Package remote implements a glint.Host whose mutations are captured as
// protocol patches instead of being applied to a local tree, so a thin
// client on the other end of a connection can mirror them. Event handler
// functions found in props are parked in a registry and travel as numeric
// handler ids; the client sends the id back when the event fires.
package remote
