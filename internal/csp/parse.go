package csp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cspkit/cspkit/internal/fieldline"
)

// ErrNotPolicyHeader is returned when a parsed line carries a different
// field name than Content-Security-Policy.
var ErrNotPolicyHeader = errors.New("not a Content-Security-Policy header")

// ParsePolicyHeader builds a PolicyHeader from a raw header line such as
// "Content-Security-Policy: default-src 'self'; img-src 'none';".
//
// The value is split on semicolons; each non-blank chunk is split on its
// first space into a directive name and a raw remainder. The remainder is
// NOT re-split on spaces: a multi-source value survives the round trip as
// one opaque token, validated as a whole. The first occurrence of a
// directive name wins; later duplicates are ignored.
func ParsePolicyHeader(line string) (*PolicyHeader, error) {
	name, value, err := fieldline.SplitLine(line)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(name, HeaderName) {
		return nil, fmt.Errorf("%w: field name %q", ErrNotPolicyHeader, name)
	}

	h := NewPolicyHeader()
	for _, chunk := range strings.Split(value, ";") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}

		directive, remainder, found := strings.Cut(chunk, " ")
		if _, seen := h.values[directive]; seen {
			continue
		}

		var sources []string
		if found {
			sources = []string{remainder}
		}
		if err := h.SetDirective(directive, sources); err != nil {
			return nil, err
		}
	}
	return h, nil
}
