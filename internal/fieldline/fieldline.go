package fieldline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedLine = errors.New("malformed header line")
	ErrInvalidToken  = errors.New("invalid header token")
)

// SplitLine splits a raw "Name: value" header line into its field name and
// field value. The value is trimmed of surrounding whitespace.
func SplitLine(line string) (string, string, error) {
	name, value, found := strings.Cut(line, ":")
	if !found {
		return "", "", fmt.Errorf("%w: missing colon", ErrMalformedLine)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", fmt.Errorf("%w: empty field name", ErrMalformedLine)
	}
	return name, strings.TrimSpace(value), nil
}

// CheckToken rejects tokens that cannot appear inside an HTTP header field
// value: control characters, CR/LF in particular, and the empty string.
func CheckToken(token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidToken)
	}
	for i := 0; i < len(token); i++ {
		b := token[i]
		if b < 0x20 || b == 0x7F {
			return fmt.Errorf("%w: control character 0x%02x at position %d", ErrInvalidToken, b, i)
		}
	}
	return nil
}
