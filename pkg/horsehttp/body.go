package horsehttp

import (
	"io"
	"mime"
	"mime/multipart"
)

// BodyReader is a view over the client's remaining input bounded to exactly
// Content-Length bytes, no matter how much more the connection offers.
//
// While a BodyReader is open it owns the client's read side; direct
// Client.Read calls fail with a State error until the reader is drained or
// closed.
type BodyReader struct {
	c      *Client
	n      int64
	closed bool
}

// BodyReader returns a reader over the request body. It fails with a Config
// error when the request has no Content-Length header, a Parse error when
// the header is unparsable, and a State error when a body reader is already
// open.
func (c *Client) BodyReader() (*BodyReader, error) {
	if c.bodyOpen {
		return nil, newError(KindState, "a body reader is already open")
	}
	n, ok, err := c.ContentLength()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newError(KindConfig, "no Content-Length in request")
	}
	c.bodyOpen = true
	return &BodyReader{c: c, n: n}, nil
}

func (b *BodyReader) Read(p []byte) (int, error) {
	if b.n <= 0 {
		b.release()
		return 0, io.EOF
	}
	if int64(len(p)) > b.n {
		p = p[:b.n]
	}
	n, err := b.c.read(p)
	b.n -= int64(n)
	if b.n == 0 {
		b.release()
	}
	return n, err
}

// Close releases the client for direct reads again without draining the
// remaining body bytes.
func (b *BodyReader) Close() error {
	b.release()
	return nil
}

func (b *BodyReader) release() {
	if !b.closed {
		b.closed = true
		b.c.bodyOpen = false
	}
}

// Body is a request body classified by its declared Content-Type.
type Body struct {
	// MediaType is the declared media type, e.g. "text/plain".
	MediaType string
	// Params holds the media type parameters, e.g. charset.
	Params map[string]string
	// Form is non-nil for multipart/form-data bodies.
	Form *Form
	// Reader is the raw bounded body, unread, for any other media type.
	Reader *BodyReader
}

// BodyParser classifies the request body. It fails with a Config error when
// Content-Type is absent or unparsable, or when a multipart/form-data type
// has no boundary parameter.
func (c *Client) BodyParser() (*Body, error) {
	ct, ok := c.RequestHeader("Content-Type")
	if !ok {
		return nil, newError(KindConfig, "request has no Content-Type")
	}
	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, wrapError(KindConfig, err, "unparsable Content-Type")
	}

	if mediaType == "multipart/form-data" {
		boundary, ok := params["boundary"]
		if !ok {
			return nil, newError(KindConfig, "form-data without a boundary")
		}
		br, err := c.BodyReader()
		if err != nil {
			return nil, err
		}
		return &Body{
			MediaType: mediaType,
			Params:    params,
			Form:      &Form{mr: multipart.NewReader(br, boundary)},
		}, nil
	}

	br, err := c.BodyReader()
	if err != nil {
		return nil, err
	}
	return &Body{MediaType: mediaType, Params: params, Reader: br}, nil
}

// Form decomposes a multipart/form-data body into a lazy, single-pass
// sequence of named fields.
type Form struct {
	mr *multipart.Reader
}

// ForEach visits each field once, in wire order. A field's data is only
// readable inside the callback; requesting the next field exhausts it.
// The first decoding error or callback error stops iteration and is
// returned.
func (f *Form) ForEach(fn func(*FormField) error) error {
	for {
		part, err := f.mr.NextPart()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return wrapError(KindParse, err, "reading multipart field")
		}
		if err := fn(&FormField{part: part}); err != nil {
			part.Close()
			return err
		}
		part.Close()
	}
}

// FormField is one named part of a multipart/form-data body.
type FormField struct {
	part *multipart.Part
}

// Name returns the field name from the part's Content-Disposition.
func (f *FormField) Name() string { return f.part.FormName() }

// ContentType returns the part's declared content type, if any.
func (f *FormField) ContentType() (value string, ok bool) {
	ct := f.part.Header.Get("Content-Type")
	return ct, ct != ""
}

// Filename returns the client-declared filename. Presence distinguishes file
// parts from plain value parts; an uploaded file may legitimately have an
// empty name.
func (f *FormField) Filename() (name string, ok bool) {
	cd := f.part.Header.Get("Content-Disposition")
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return "", false
	}
	name, ok = params["filename"]
	return name, ok
}

// Read reads the field's data. The view is bounded to this field's bytes
// within the multipart stream.
func (f *FormField) Read(p []byte) (int, error) { return f.part.Read(p) }
