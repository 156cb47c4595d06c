package csp

import (
	"errors"
	"testing"

	"github.com/cspkit/cspkit/internal/fieldline"
)

func TestParsePolicyHeader(t *testing.T) {
	h, err := ParsePolicyHeader("Content-Security-Policy: default-src 'self'; img-src 'none';")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if value, ok := h.Directive(DefaultSrc); !ok || value != "'self'" {
		t.Fatalf("expected default-src 'self', got %q (set=%v)", value, ok)
	}
	if value, ok := h.Directive(ImgSrc); !ok || value != "'none'" {
		t.Fatalf("expected img-src 'none', got %q (set=%v)", value, ok)
	}
}

func TestParsePolicyHeaderCaseInsensitiveName(t *testing.T) {
	h, err := ParsePolicyHeader("content-security-policy: default-src 'self';")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Len() != 1 {
		t.Fatalf("expected 1 directive, got %d", h.Len())
	}
	// Output always uses the canonical field name.
	if h.FieldName() != HeaderName {
		t.Fatalf("unexpected field name %q", h.FieldName())
	}
}

func TestParsePolicyHeaderWrongName(t *testing.T) {
	_, err := ParsePolicyHeader("X-Foo: bar")
	if err == nil {
		t.Fatalf("expected error for mismatched field name")
	}
	if !errors.Is(err, ErrNotPolicyHeader) {
		t.Fatalf("expected ErrNotPolicyHeader, got %v", err)
	}
}

func TestParsePolicyHeaderMalformedLine(t *testing.T) {
	_, err := ParsePolicyHeader("no colon here")
	if err == nil {
		t.Fatalf("expected error for malformed line")
	}
	if !errors.Is(err, fieldline.ErrMalformedLine) {
		t.Fatalf("expected ErrMalformedLine, got %v", err)
	}
}

func TestParsePolicyHeaderUnknownDirective(t *testing.T) {
	_, err := ParsePolicyHeader("Content-Security-Policy: bogus-src 'self';")
	if err == nil {
		t.Fatalf("expected error for unknown directive")
	}
	if !errors.Is(err, ErrUnknownDirective) {
		t.Fatalf("expected ErrUnknownDirective, got %v", err)
	}
}

func TestParsePolicyHeaderFirstOccurrenceWins(t *testing.T) {
	h, err := ParsePolicyHeader("Content-Security-Policy: img-src 'self'; img-src *;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value, _ := h.Directive(ImgSrc); value != "'self'" {
		t.Fatalf("expected first occurrence to win, got %q", value)
	}
}

func TestParsePolicyHeaderBareDirective(t *testing.T) {
	// A directive with no value parses like an empty source list.
	h, err := ParsePolicyHeader("Content-Security-Policy: img-src;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value, _ := h.Directive(ImgSrc); value != SourceNone {
		t.Fatalf("expected 'none', got %q", value)
	}

	h, err = ParsePolicyHeader("Content-Security-Policy: report-uri;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Len() != 0 {
		t.Fatalf("expected bare report-uri to be dropped, got %d directives", h.Len())
	}
}

func TestParsePolicyHeaderRemainderNotResplit(t *testing.T) {
	// A multi-source value is stored as one opaque token on parse.
	h, err := ParsePolicyHeader("Content-Security-Policy: script-src 'self' https://cdn.example.com;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value, _ := h.Directive(ScriptSrc); value != "'self' https://cdn.example.com" {
		t.Fatalf("expected opaque remainder, got %q", value)
	}
}

func TestParsePolicyHeaderBlankChunks(t *testing.T) {
	h, err := ParsePolicyHeader("Content-Security-Policy: ; default-src 'self'; ;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Len() != 1 {
		t.Fatalf("expected 1 directive, got %d", h.Len())
	}
}

func TestRoundTrip(t *testing.T) {
	line := "Content-Security-Policy: default-src 'self'; img-src 'none';"
	h, err := ParsePolicyHeader(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.String() != line {
		t.Fatalf("expected round trip %q, got %q", line, h.String())
	}
}
