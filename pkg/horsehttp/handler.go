package horsehttp

import "net"

// Handler processes one connection's parsed request.
type Handler interface {
	Handle(c *Client) error
}

// HandlerFunc adapts an ordinary function to a Handler.
type HandlerFunc func(c *Client) error

// Handle calls f(c).
func (f HandlerFunc) Handle(c *Client) error { return f(c) }

// Beforer is an optional capability: when a Handler also implements Beforer,
// the server invokes Before with the raw connection and peer address ahead of
// request parsing. An error aborts the connection before any parsing.
type Beforer interface {
	Before(conn net.Conn, addr net.Addr) error
}

// MethodHandler dispatches by request method: GET, HEAD and POST route to
// the matching hook, anything else answers 405 Method Not Allowed. Nil hooks
// also answer 405, so an application fills in only the methods it supports.
type MethodHandler struct {
	Get  func(c *Client) error
	Head func(c *Client) error
	Post func(c *Client) error
}

// Handle routes c to the hook for its method.
func (m *MethodHandler) Handle(c *Client) error {
	var fn func(*Client) error
	switch c.Method() {
	case "GET":
		fn = m.Get
	case "HEAD":
		fn = m.Head
	case "POST":
		fn = m.Post
	}
	if fn == nil {
		return c.SetResponse(405, "Method Not Allowed")
	}
	return fn(c)
}
