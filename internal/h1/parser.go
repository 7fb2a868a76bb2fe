package h1

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// Request is a single parsed HTTP/1.x request.
type Request struct {
	Method string
	Path   string
	// VersionMinor is the HTTP minor version, 0 or 1.
	VersionMinor int
	// Headers holds (name, value) pairs in wire order, duplicates preserved.
	// Names are exactly as received; lookups fold case at query time.
	Headers [][2]string
	// BodyStart holds bytes read past the header terminator by the buffered
	// reader. They are the first bytes of the body.
	BodyStart []byte
}

var (
	bHTTP10 = []byte("HTTP/1.0")
	bHTTP11 = []byte("HTTP/1.1")
	bSpace  = []byte(" ")
)

// ParseRequest parses a header block produced by ReadHeaderBlock into a
// Request. lines is the reader's line count, used to size the header table.
func ParseRequest(header, bodyStart []byte, lines int) (*Request, error) {
	nl := bytes.IndexByte(header, '\n')
	if nl == -1 {
		return nil, fmt.Errorf("h1: missing request line")
	}
	reqLine := trimCR(header[:nl])
	rest := header[nl+1:]

	parts := bytes.SplitN(reqLine, bSpace, 3)
	if len(parts) != 3 || len(parts[0]) == 0 || len(parts[1]) == 0 {
		return nil, fmt.Errorf("h1: malformed request line %q", reqLine)
	}

	var minor int
	switch {
	case bytes.Equal(parts[2], bHTTP10):
		minor = 0
	case bytes.Equal(parts[2], bHTTP11):
		minor = 1
	default:
		return nil, fmt.Errorf("h1: unsupported version %q", parts[2])
	}

	req := &Request{
		Method:       string(parts[0]),
		Path:         string(parts[1]),
		VersionMinor: minor,
		BodyStart:    bodyStart,
	}
	// lines includes the request line and the terminating blank line.
	if hint := lines - 2; hint > 0 {
		req.Headers = make([][2]string, 0, hint)
	}

	for len(rest) > 0 {
		nl := bytes.IndexByte(rest, '\n')
		if nl == -1 {
			return nil, fmt.Errorf("h1: header line missing terminator")
		}
		line := trimCR(rest[:nl])
		rest = rest[nl+1:]
		if len(line) == 0 {
			break
		}
		colon := bytes.IndexByte(line, ':')
		if colon == -1 {
			return nil, fmt.Errorf("h1: header line %q missing colon", line)
		}
		name := bytes.TrimSpace(line[:colon])
		value := bytes.TrimSpace(line[colon+1:])
		if len(name) == 0 {
			return nil, fmt.Errorf("h1: header line %q has empty name", line)
		}
		if !utf8.Valid(value) {
			return nil, fmt.Errorf("h1: header %q value is not valid text", name)
		}
		req.Headers = append(req.Headers, [2]string{string(name), string(value)})
	}

	return req, nil
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

// EqualFoldASCII reports whether a equals b under ASCII case-insensitive
// comparison. Header names are ASCII, so Unicode folding is not needed.
func EqualFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca := a[i]
		cb := b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca |= 0x20
		}
		if 'A' <= cb && cb <= 'Z' {
			cb |= 0x20
		}
		if ca != cb {
			return false
		}
	}
	return true
}
