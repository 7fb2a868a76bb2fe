package horsehttp

import (
	"bytes"
	"net"
	"strings"
	"time"

	"github.com/FauxFaux/horsehttp/internal/h1"
)

// testConn is an in-memory net.Conn: reads come from a fixed input, writes
// accumulate in out.
type testConn struct {
	in  *strings.Reader
	out bytes.Buffer
}

func newTestConn(input string) *testConn {
	return &testConn{in: strings.NewReader(input)}
}

func (c *testConn) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c *testConn) Write(p []byte) (int, error) { return c.out.Write(p) }
func (c *testConn) Close() error                { return nil }

func (c *testConn) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 1337}
}

func (c *testConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 54321}
}

func (c *testConn) SetDeadline(time.Time) error      { return nil }
func (c *testConn) SetReadDeadline(time.Time) error  { return nil }
func (c *testConn) SetWriteDeadline(time.Time) error { return nil }

// newTestClient builds a Client over a testConn without going through the
// accept loop.
func newTestClient(headers [][2]string, bodyStart, connInput string) (*Client, *testConn) {
	conn := newTestConn(connInput)
	req := &h1.Request{
		Method:       "POST",
		Path:         "/",
		VersionMinor: 1,
		Headers:      headers,
		BodyStart:    []byte(bodyStart),
	}
	return newClient(req, conn.RemoteAddr(), conn, nil), conn
}
