// Package h1 provides wire-level reading and parsing for HTTP/1.x requests.
package h1

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

var (
	bCRLFCRLF = []byte("\n\r\n")
	bLFLF     = []byte("\n\n")
)

// ReadHeaderBlock reads lines from r until the accumulated bytes end in a
// blank line (\r\n\r\n or \n\n). It returns the header block including the
// terminator, any bytes the buffered read-ahead already pulled past the
// terminator, and the number of lines read.
//
// The leftover bytes are the start of the request body; they have been
// consumed from r and must be handed to the body stream, never re-read.
// The line count sizes the parser's header table, it is a hint only.
func ReadHeaderBlock(r io.Reader) (header, leftover []byte, lines int, err error) {
	br := bufio.NewReader(r)

	header = make([]byte, 0, 256)
	for {
		line, err := br.ReadBytes('\n')
		if err != nil {
			return nil, nil, 0, fmt.Errorf("h1: header block truncated: %w", err)
		}
		header = append(header, line...)
		lines++
		if bytes.HasSuffix(header, bCRLFCRLF) || bytes.HasSuffix(header, bLFLF) {
			break
		}
	}

	if n := br.Buffered(); n > 0 {
		leftover = make([]byte, n)
		if _, err := io.ReadFull(br, leftover); err != nil {
			return nil, nil, 0, fmt.Errorf("h1: draining read-ahead: %w", err)
		}
	}
	return header, leftover, lines, nil
}
