package pokeapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// TransportError is returned for any failed request: network errors,
// timeouts, non-2xx responses and undecodable bodies. Arguments rejected
// before a request is sent are reported with an empty URL.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a TransportError for a 404 response.
func IsNotFound(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.StatusCode == http.StatusNotFound
}

// ParseError reports a resource URL that does not end in a numeric ID.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("extract id from %q: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	errNoNumericSegment = errors.New("no numeric segment before trailing slash")
	errNilClient        = errors.New("client is nil")
)

// ExtractID parses the ID out of a resource URL such as
// https://pokeapi.co/api/v2/pokemon/25/. The URL must end with a positive
// integer segment followed by a slash. Signs and leading zeros are rejected.
func ExtractID(resourceURL string) (int, error) {
	parts := strings.Split(strings.TrimSpace(resourceURL), "/")
	if len(parts) < 2 || parts[len(parts)-1] != "" {
		return 0, &ParseError{URL: resourceURL, Err: errNoNumericSegment}
	}
	segment := parts[len(parts)-2]
	if !isCanonicalNumber(segment) {
		return 0, &ParseError{URL: resourceURL, Err: errNoNumericSegment}
	}
	id, err := strconv.Atoi(segment)
	if err != nil {
		return 0, &ParseError{URL: resourceURL, Err: err}
	}
	if id <= 0 {
		return 0, &ParseError{URL: resourceURL, Err: fmt.Errorf("id %d is not positive", id)}
	}
	return id, nil
}

// isCanonicalNumber reports whether s is ASCII digits without a leading zero.
func isCanonicalNumber(s string) bool {
	if s == "" || s[0] == '0' && len(s) > 1 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
