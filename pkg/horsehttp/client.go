package horsehttp

import (
	"log"
	"net"
	"strconv"
	"strings"

	"github.com/FauxFaux/horsehttp/internal/h1"
)

// Pre-assembled wire fragments. The only headers a response ever carries are
// the status line and the Connection: close terminator.
var (
	bHTTP1Dot  = []byte("HTTP/1.")
	bCRLF      = []byte("\r\n")
	bConnClose = []byte("Connection: close\r\n\r\n")
)

// response tracks the pending status line. sent is monotonic: once true, the
// status line is on the wire and can never be amended.
type response struct {
	code    int
	message string
	sent    bool
}

// Client is the per-connection state handed to request handlers. It unifies
// the parsed request, the live connection, and the lazily-flushed response.
//
// Reading from Client yields the request body (pre-read bytes first, then the
// connection). Writing to Client flushes the status line before the first
// byte. Client is not safe for concurrent use; it lives on one connection's
// goroutine.
type Client struct {
	req      *h1.Request
	addr     net.Addr
	conn     net.Conn
	logger   *log.Logger
	response response
	bodyOpen bool
}

func newClient(req *h1.Request, addr net.Addr, conn net.Conn, logger *log.Logger) *Client {
	return &Client{
		req:      req,
		addr:     addr,
		conn:     conn,
		logger:   logger,
		response: response{code: 200, message: "Ok"},
	}
}

// Method returns the request method token, e.g. "GET".
func (c *Client) Method() string { return c.req.Method }

// Path returns the request path exactly as received, not normalized.
func (c *Client) Path() string { return c.req.Path }

// Addr returns the peer address.
func (c *Client) Addr() net.Addr { return c.addr }

// VersionMinor returns the request's HTTP minor version, 0 or 1.
func (c *Client) VersionMinor() int { return c.req.VersionMinor }

// ResponseSent reports whether the status line has been written.
func (c *Client) ResponseSent() bool { return c.response.sent }

// RequestHeader returns the values of the named header joined by ", " in
// wire order. Name matching is ASCII case-insensitive; ok is false when the
// header is absent.
func (c *Client) RequestHeader(name string) (value string, ok bool) {
	var vals []string
	for _, h := range c.req.Headers {
		if h1.EqualFoldASCII(h[0], name) {
			vals = append(vals, h[1])
		}
	}
	if len(vals) == 0 {
		return "", false
	}
	return strings.Join(vals, ", "), true
}

// ContentLength reports the declared Content-Length. ok is false when the
// header is absent; a present but unparsable or negative value is a Parse
// error.
func (c *Client) ContentLength() (length int64, ok bool, err error) {
	v, ok := c.RequestHeader("Content-Length")
	if !ok {
		return 0, false, nil
	}
	n, perr := strconv.ParseInt(v, 10, 64)
	if perr != nil || n < 0 {
		return 0, true, newError(KindParse, "invalid Content-Length %q", v)
	}
	return n, true, nil
}

// Read reads request body bytes: pre-read bytes left over from header
// parsing first, then the live connection. A zero-length buffer reads
// nothing. While a BodyReader is open, direct reads are a State error.
func (c *Client) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if c.bodyOpen {
		return 0, newError(KindState, "a body reader is open")
	}
	return c.read(p)
}

// read is the raw read path, shared with BodyReader.
func (c *Client) read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(c.req.BodyStart) > 0 {
		n := copy(p, c.req.BodyStart)
		c.req.BodyStart = c.req.BodyStart[n:]
		return n, nil
	}
	return c.conn.Read(p)
}

// Write writes response body bytes, flushing the status line first if it has
// not been sent.
func (c *Client) Write(p []byte) (int, error) {
	if err := c.sendResponseIfUnsent(); err != nil {
		return 0, err
	}
	return c.conn.Write(p)
}

// WriteAll writes all of p, flushing the status line first if needed.
func (c *Client) WriteAll(p []byte) error {
	_, err := c.Write(p)
	return err
}

// WriteString writes s, flushing the status line first if needed.
func (c *Client) WriteString(s string) error {
	_, err := c.Write([]byte(s))
	return err
}

// SetResponse replaces the pending status code and message. It fails with a
// State error once the response is sent, or if message contains an ASCII
// control character (which would allow status-line injection).
func (c *Client) SetResponse(code int, message string) error {
	if c.response.sent {
		return newError(KindState, "response already sent")
	}
	for i := 0; i < len(message); i++ {
		if b := message[i]; b < 0x20 || b == 0x7f {
			return newError(KindState, "status message must not contain control characters")
		}
	}
	c.response.code = code
	c.response.message = message
	return nil
}

// SendResponse flushes the status line with no body. It fails with a State
// error if the response was already sent.
func (c *Client) SendResponse() error {
	if c.response.sent {
		return newError(KindState, "response already sent")
	}
	return c.writeResponse()
}

// WriteRawOverridingHeaders writes raw bytes to the connection and suppresses
// the status line, now and forever. It is the last-resort escape hatch for
// error paths where the engine must close the socket without pretending to
// speak HTTP.
func (c *Client) WriteRawOverridingHeaders(p []byte) error {
	c.response.sent = true
	_, err := c.conn.Write(p)
	return err
}

func (c *Client) sendResponseIfUnsent() error {
	if c.response.sent {
		return nil
	}
	return c.writeResponse()
}

func (c *Client) writeResponse() error {
	c.response.sent = true

	buf := appendStatusLine(make([]byte, 0, 64), c.req.VersionMinor, c.response.code, c.response.message)
	if _, err := c.conn.Write(buf); err != nil {
		return err
	}
	if c.logger != nil {
		c.logger.Printf("%s: sent %d", c.addr, c.response.code)
	}
	return nil
}

// appendStatusLine appends "HTTP/1.<minor> <code> <message>" and the fixed
// Connection: close terminator.
func appendStatusLine(buf []byte, minor, code int, message string) []byte {
	buf = append(buf, bHTTP1Dot...)
	buf = strconv.AppendInt(buf, int64(minor), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(code), 10)
	buf = append(buf, ' ')
	buf = append(buf, message...)
	buf = append(buf, bCRLF...)
	buf = append(buf, bConnClose...)
	return buf
}
