package app

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials is returned for unknown email and wrong password
	// alike, so responses do not signal which one failed.
	ErrInvalidCredentials = errors.New("Invalid credentials")

	// ErrAlreadySubscribed is returned when an active subscription exists.
	ErrAlreadySubscribed = errors.New("Email is already subscribed")

	ErrPostNotFound      = errors.New("Post not found")
	ErrCaseStudyNotFound = errors.New("Case study not found")
	ErrLeadNotFound      = errors.New("Lead not found")
	ErrMediaNotFound     = errors.New("Media asset not found")
)

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound) ||
		errors.Is(err, ErrCaseStudyNotFound) ||
		errors.Is(err, ErrLeadNotFound) ||
		errors.Is(err, ErrMediaNotFound)
}

// ValidationError carries field-level messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func validationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
