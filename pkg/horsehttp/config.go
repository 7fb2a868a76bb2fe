// Package horsehttp provides a minimal from-scratch HTTP/1.x server engine:
// one goroutine per connection, strict response framing, bounded body
// streaming and admission control. Every response closes the connection.
package horsehttp

import (
	"io"
	"log"
	"net"
)

// Config holds the server configuration options.
type Config struct {
	Addr          string                     // Address to listen on
	MaxConns      int                        // Maximum concurrently handled connections
	Logger        *log.Logger                // Logger for server events
	EnableMetrics bool                       // Record Prometheus metrics
	TracerName    string                     // OpenTelemetry tracer name; empty disables tracing
	NewHandler    func(addr net.Addr) Handler // Optional per-connection handler factory
}

// newSilentLogger creates a logger that discards all output.
func newSilentLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Addr:          ":1337",
		MaxConns:      4,
		Logger:        newSilentLogger(),
		EnableMetrics: true,
	}
}

// Validate checks and normalizes the configuration values.
func (c *Config) Validate() error {
	if c.Addr == "" {
		c.Addr = ":1337"
	}
	if c.MaxConns <= 0 {
		c.MaxConns = 4
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	return nil
}
