package horsehttp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/FauxFaux/horsehttp/internal/admit"
	"github.com/FauxFaux/horsehttp/internal/h1"
)

// badRequestResponse is written verbatim when request parsing fails; the
// handler never runs for a malformed request.
var badRequestResponse = []byte("HTTP/1.0 400 Bad Request\r\nConnection: close\r\n\r\nerr: bad request\r\n")

// Server accepts connections and supervises one worker goroutine per
// connection. Admission is bounded by a counting semaphore: once MaxConns
// workers are in flight, the accept loop blocks until one finishes.
type Server struct {
	config  Config
	handler Handler
	gate    *admit.Gate
	tracer  trace.Tracer

	mu sync.Mutex
	ln net.Listener
}

// New creates a new Server with the provided configuration.
func New(config Config) *Server {
	if err := config.Validate(); err != nil {
		panic(err)
	}
	return &Server{config: config}
}

// NewWithDefaults creates a new Server with default configuration.
func NewWithDefaults() *Server {
	return New(DefaultConfig())
}

// Handler sets the request handler and returns the server for chaining.
func (s *Server) Handler(h Handler) *Server {
	s.handler = h
	return s
}

// ListenAndServe sets the handler and starts the server.
func (s *Server) ListenAndServe(h Handler) error {
	s.handler = h
	return s.Start()
}

// Start binds the configured address and begins accepting connections in the
// background. Bind failures are returned; accept-loop failures after startup
// are logged.
func (s *Server) Start() error {
	if s.handler == nil && s.config.NewHandler == nil {
		return fmt.Errorf("horsehttp: handler not set")
	}
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("horsehttp: listen %s: %w", s.config.Addr, err)
	}

	go func() {
		if err := s.Serve(ln); err != nil {
			s.config.Logger.Printf("accept loop failed: %v", err)
		}
	}()
	return nil
}

// Serve accepts connections on ln until the listener is closed. It blocks;
// Start wraps it for background use. Accepting stalls while all connection
// permits are taken, which is the engine's only backpressure.
func (s *Server) Serve(ln net.Listener) error {
	if s.handler == nil && s.config.NewHandler == nil {
		return fmt.Errorf("horsehttp: handler not set")
	}

	s.mu.Lock()
	s.ln = ln
	if s.gate == nil {
		s.gate = admit.NewGate(s.config.MaxConns)
	}
	if s.tracer == nil && s.config.TracerName != "" {
		s.tracer = otel.Tracer(s.config.TracerName)
	}
	s.mu.Unlock()

	s.config.Logger.Printf("server listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("horsehttp: accept: %w", err)
		}

		waitStart := time.Now()
		s.gate.Acquire()
		if s.config.EnableMetrics {
			admissionWaitSeconds.Observe(time.Since(waitStart).Seconds())
			connectionsTotal.Inc()
			connectionsInFlight.Inc()
		}

		h := s.handler
		if s.config.NewHandler != nil {
			h = s.config.NewHandler(conn.RemoteAddr())
		}
		go s.handleConn(conn, h)
	}
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Stop closes the listener. Connections already handed to workers finish on
// their own goroutines.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.ln = nil
	s.mu.Unlock()
	if ln != nil {
		return ln.Close()
	}
	return nil
}

// handleConn is the per-connection worker. The deferred block is the outer
// failure boundary: whatever happens, the connection is closed and the
// admission permit released.
func (s *Server) handleConn(conn net.Conn, h Handler) {
	addr := conn.RemoteAddr()
	defer func() {
		if r := recover(); r != nil {
			s.config.Logger.Printf("%s: fatal error handling connection: %v", addr, r)
		}
		_ = conn.Close()
		s.gate.Release()
		if s.config.EnableMetrics {
			connectionsInFlight.Dec()
		}
	}()

	if err := s.handle(conn, addr, h); err != nil {
		s.config.Logger.Printf("%s: error handling request: %v", addr, err)
	}
}

func (s *Server) handle(conn net.Conn, addr net.Addr, h Handler) error {
	connID := uuid.NewString()[:8]
	s.config.Logger.Printf("%s: accepted connection [%s]", addr, connID)

	if b, ok := h.(Beforer); ok {
		if err := b.Before(conn, addr); err != nil {
			return fmt.Errorf("before hook: %w", err)
		}
	}

	header, leftover, lines, err := h1.ReadHeaderBlock(conn)
	var req *h1.Request
	if err == nil {
		req, err = h1.ParseRequest(header, leftover, lines)
	}
	if err != nil {
		s.config.Logger.Printf("%s: bad request [%s]: %v", addr, connID, err)
		if s.config.EnableMetrics {
			parseFailuresTotal.Inc()
		}
		_, werr := conn.Write(badRequestResponse)
		return werr
	}

	client := newClient(req, addr, conn, s.config.Logger)
	span := startConnSpan(s.tracer, req.Method, req.Path, addr.String())

	err = s.invokeHandler(h, client)

	if !client.ResponseSent() {
		if err != nil {
			s.config.Logger.Printf("%s: handler failed [%s]: %v", addr, connID, err)
			span.end(500, err)
			s.countResponse(500)
			buf := appendStatusLine(make([]byte, 0, 96), req.VersionMinor, 500, "Internal Server Error")
			buf = append(buf, "err: internal\r\n"...)
			return client.WriteRawOverridingHeaders(buf)
		}
		if serr := client.SendResponse(); serr != nil {
			span.end(client.response.code, serr)
			return serr
		}
	} else if err != nil {
		// Headers are on the wire; nothing can be retracted or amended.
		s.config.Logger.Printf("%s: handler failed after response was sent [%s]: %v", addr, connID, err)
	}

	span.end(client.response.code, err)
	s.countResponse(client.response.code)
	s.config.Logger.Printf("%s: finished [%s]", addr, connID)
	return nil
}

// invokeHandler runs the handler under the inner failure boundary,
// converting a panic into a Panic-kind error so the caller handles handler
// errors and handler panics the same way.
func (s *Server) invokeHandler(h Handler, c *Client) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if s.config.EnableMetrics {
				handlerPanicsTotal.Inc()
			}
			err = panicError(r)
		}
	}()
	return h.Handle(c)
}

func (s *Server) countResponse(status int) {
	if s.config.EnableMetrics {
		responsesTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	}
}

// panicError converts a recovered panic payload into an Error, keeping the
// payload text when it carries one.
func panicError(r any) *Error {
	switch v := r.(type) {
	case error:
		return wrapError(KindPanic, v, "handler panicked")
	case string:
		return newError(KindPanic, "handler panicked: %s", v)
	default:
		return newError(KindPanic, "handler panicked")
	}
}
