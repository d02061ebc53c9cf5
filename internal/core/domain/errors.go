package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnauthorized = errors.New("identity missing or not permitted")
var ErrTableNotFound = errors.New("table instance not found")
var ErrUnknownCollection = errors.New("unknown collection")
var ErrSignOutFailed = errors.New("sign-out rejected by identity service")

// ValidationError carries a per-field error map, either produced locally by
// request validation or decoded from an upstream create/update rejection.
// The wire shape is {"errors": {"<field>": ["<message>", ...]}} in both
// directions, so callers can map it one-to-one onto form fields.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// UpstreamError is any non-validation failure reported by a backend service.
// Message holds the human-readable message extracted from the error body when
// the upstream provided one; it may be empty.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream returned %d", e.StatusCode)
}
