package h1

import (
	"strings"
	"testing"
)

func TestParseRequest(t *testing.T) {
	header := []byte("POST /save HTTP/1.1\r\nHost: example.com\r\nContent-Length: 5\r\n\r\n")
	body := []byte("hello")

	req, err := ParseRequest(header, body, 4)
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}

	if req.Method != "POST" {
		t.Errorf("Method = %q, want POST", req.Method)
	}
	if req.Path != "/save" {
		t.Errorf("Path = %q, want /save", req.Path)
	}
	if req.VersionMinor != 1 {
		t.Errorf("VersionMinor = %d, want 1", req.VersionMinor)
	}
	if len(req.Headers) != 2 {
		t.Fatalf("len(Headers) = %d, want 2", len(req.Headers))
	}
	if req.Headers[0] != [2]string{"Host", "example.com"} {
		t.Errorf("Headers[0] = %v", req.Headers[0])
	}
	if req.Headers[1] != [2]string{"Content-Length", "5"} {
		t.Errorf("Headers[1] = %v", req.Headers[1])
	}
	if string(req.BodyStart) != "hello" {
		t.Errorf("BodyStart = %q, want %q", req.BodyStart, "hello")
	}
}

func TestParseRequest_Version10(t *testing.T) {
	req, err := ParseRequest([]byte("GET / HTTP/1.0\r\n\r\n"), nil, 2)
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}
	if req.VersionMinor != 0 {
		t.Errorf("VersionMinor = %d, want 0", req.VersionMinor)
	}
}

func TestParseRequest_DuplicateHeadersKeepOrder(t *testing.T) {
	header := []byte("GET / HTTP/1.1\r\nX-Tag: one\r\nX-Tag: two\r\n\r\n")

	req, err := ParseRequest(header, nil, 4)
	if err != nil {
		t.Fatalf("ParseRequest() error = %v", err)
	}
	if len(req.Headers) != 2 {
		t.Fatalf("len(Headers) = %d, want 2", len(req.Headers))
	}
	if req.Headers[0][1] != "one" || req.Headers[1][1] != "two" {
		t.Errorf("Headers = %v, want wire order preserved", req.Headers)
	}
}

func TestParseRequest_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"empty", "\r\n\r\n"},
		{"missing version", "GET /\r\n\r\n"},
		{"missing path", "GET\r\n\r\n"},
		{"bad version", "GET / HTTP/2.0\r\n\r\n"},
		{"bad version text", "GET / potato\r\n\r\n"},
		{"header without colon", "GET / HTTP/1.0\r\nbroken header\r\n\r\n"},
		{"header empty name", "GET / HTTP/1.0\r\n: value\r\n\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRequest([]byte(tt.header), nil, strings.Count(tt.header, "\n")); err == nil {
				t.Errorf("ParseRequest(%q) expected error, got nil", tt.header)
			}
		})
	}
}

func TestParseRequest_InvalidValueBytes(t *testing.T) {
	header := append([]byte("GET / HTTP/1.0\r\nX-Bin: "), 0xff, 0xfe, '\r', '\n', '\r', '\n')

	if _, err := ParseRequest(header, nil, 3); err == nil {
		t.Error("expected error for non-text header value, got nil")
	}
}

func TestEqualFoldASCII(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Content-Length", "content-length", true},
		{"CONTENT-TYPE", "Content-Type", true},
		{"Host", "Host", true},
		{"Host", "Hos", false},
		{"Host", "Port", false},
		{"", "", true},
	}

	for _, tt := range tests {
		if got := EqualFoldASCII(tt.a, tt.b); got != tt.want {
			t.Errorf("EqualFoldASCII(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
