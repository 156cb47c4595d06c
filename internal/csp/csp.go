// Package csp models the Content-Security-Policy response header as an
// ordered set of directives and converts it to and from its wire form.
package csp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cspkit/cspkit/internal/fieldline"
)

// HeaderName is the field name this header renders under.
const HeaderName = "Content-Security-Policy"

// Directive names recognized by the CSP 1.0 header.
const (
	DefaultSrc = "default-src"
	ScriptSrc  = "script-src"
	ObjectSrc  = "object-src"
	StyleSrc   = "style-src"
	ImgSrc     = "img-src"
	MediaSrc   = "media-src"
	FrameSrc   = "frame-src"
	FontSrc    = "font-src"
	ConnectSrc = "connect-src"
	Sandbox    = "sandbox"
	ReportURI  = "report-uri"
)

// SourceNone is the literal stored for a directive declared with an empty
// source list.
const SourceNone = "'none'"

var (
	ErrUnknownDirective = errors.New("unknown directive")
	ErrMixedHeaderTypes = errors.New("multiple header output accepts only Content-Security-Policy headers")
)

var validDirectives = map[string]struct{}{
	DefaultSrc: {},
	ScriptSrc:  {},
	ObjectSrc:  {},
	StyleSrc:   {},
	ImgSrc:     {},
	MediaSrc:   {},
	FrameSrc:   {},
	FontSrc:    {},
	ConnectSrc: {},
	Sandbox:    {},
	ReportURI:  {},
}

// IsValidDirective reports whether name is a recognized directive name.
func IsValidDirective(name string) bool {
	_, ok := validDirectives[name]
	return ok
}

// ValidDirectives returns the recognized directive names, sorted.
func ValidDirectives() []string {
	return []string{
		ConnectSrc, DefaultSrc, FontSrc, FrameSrc, ImgSrc,
		MediaSrc, ObjectSrc, ReportURI, Sandbox, ScriptSrc, StyleSrc,
	}
}

// Directive is one name/value pair of a policy.
type Directive struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HeaderField is the surface shared by renderable header values. It exists
// so multi-header output can accept siblings without committing to a
// concrete type at the call site.
type HeaderField interface {
	FieldName() string
	FieldValue() string
	String() string
}

// PolicyHeader is an ordered mapping from directive name to its value text.
// Directives render in the order they were first set.
type PolicyHeader struct {
	names  []string
	values map[string]string
}

// NewPolicyHeader returns an empty policy header.
func NewPolicyHeader() *PolicyHeader {
	return &PolicyHeader{values: make(map[string]string)}
}

// SetDirective validates sources and stores them under name, joined by
// single spaces. An empty source list stores the literal 'none', except for
// report-uri, which is removed from the header instead. Setting a directive
// again overwrites its value but keeps its original position.
func (h *PolicyHeader) SetDirective(name string, sources []string) error {
	if !IsValidDirective(name) {
		return fmt.Errorf("%w %q", ErrUnknownDirective, name)
	}

	if len(sources) == 0 {
		if name == ReportURI {
			h.remove(name)
			return nil
		}
		h.set(name, SourceNone)
		return nil
	}

	for _, source := range sources {
		if err := fieldline.CheckToken(source); err != nil {
			return fmt.Errorf("directive %q: %w", name, err)
		}
	}
	h.set(name, strings.Join(sources, " "))
	return nil
}

// Directives returns the directives in insertion order.
func (h *PolicyHeader) Directives() []Directive {
	out := make([]Directive, 0, len(h.names))
	for _, name := range h.names {
		out = append(out, Directive{Name: name, Value: h.values[name]})
	}
	return out
}

// Directive returns the stored value text for name.
func (h *PolicyHeader) Directive(name string) (string, bool) {
	value, ok := h.values[name]
	return value, ok
}

// Len returns the number of directives set on the header.
func (h *PolicyHeader) Len() int {
	return len(h.names)
}

// FieldName returns the header field name, always "Content-Security-Policy".
func (h *PolicyHeader) FieldName() string {
	return HeaderName
}

// FieldValue renders the directives as wire text: each directive formatted
// as "<name> <value>;", joined by single spaces. Empty headers render as "".
func (h *PolicyHeader) FieldValue() string {
	if len(h.names) == 0 {
		return ""
	}
	parts := make([]string, 0, len(h.names))
	for _, name := range h.names {
		parts = append(parts, fmt.Sprintf("%s %s;", name, h.values[name]))
	}
	return strings.Join(parts, " ")
}

// String renders the full header line without a trailing line break.
func (h *PolicyHeader) String() string {
	return h.FieldName() + ": " + h.FieldValue()
}

// FormatMultiple renders this header followed by each sibling as separate
// CRLF-terminated header lines, the HTTP convention for repeating a field
// name. Every sibling must itself be a *PolicyHeader.
func (h *PolicyHeader) FormatMultiple(siblings ...HeaderField) (string, error) {
	for _, sibling := range siblings {
		if _, ok := sibling.(*PolicyHeader); !ok {
			return "", fmt.Errorf("%w, got %T", ErrMixedHeaderTypes, sibling)
		}
	}

	var b strings.Builder
	b.WriteString(h.String())
	b.WriteString("\r\n")
	for _, sibling := range siblings {
		b.WriteString(sibling.String())
		b.WriteString("\r\n")
	}
	return b.String(), nil
}

func (h *PolicyHeader) set(name, value string) {
	if _, exists := h.values[name]; !exists {
		h.names = append(h.names, name)
	}
	h.values[name] = value
}

func (h *PolicyHeader) remove(name string) {
	if _, exists := h.values[name]; !exists {
		return
	}
	delete(h.values, name)
	for i, n := range h.names {
		if n == name {
			h.names = append(h.names[:i], h.names[i+1:]...)
			break
		}
	}
}
