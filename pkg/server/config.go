package server

import (
	"net/http"
	"time"
)

// Config holds configuration for the HTTP/WebSocket server.
type Config struct {
	// Address is the address to listen on (e.g. ":8080").
	// Default: ":8080".
	Address string

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// CheckOrigin validates the Origin header on upgrade requests.
	// Default: same-host origins only.
	CheckOrigin func(r *http.Request) bool

	// ReadTimeout is how long a connection may stay silent. Pongs count
	// as traffic, so this must exceed HeartbeatInterval.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout bounds a single WebSocket write.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between pings to the client.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// MaxMessageSize caps an incoming WebSocket message.
	// Default: 64KB.
	MaxMessageSize int64

	// SendQueueSize is the per-session outbound frame buffer. A session
	// whose queue stays full is considered stuck and closed.
	// Default: 64.
	SendQueueSize int

	// FrameInterval is the runtime loop's frame tick, pacing passive
	// effects. Default: glint.DefaultFrameInterval.
	FrameInterval time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 15 seconds.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout bounds HTTP header reads.
	// Default: 5 seconds.
	ReadHeaderTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    64 * 1024,
		SendQueueSize:     64,
		ShutdownTimeout:   15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	out := *c
	d := DefaultConfig()
	if out.Address == "" {
		out.Address = d.Address
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = d.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = d.WriteBufferSize
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = d.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.HeartbeatInterval == 0 {
		out.HeartbeatInterval = d.HeartbeatInterval
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = d.MaxMessageSize
	}
	if out.SendQueueSize == 0 {
		out.SendQueueSize = d.SendQueueSize
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	return &out
}
