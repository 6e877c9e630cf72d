package validation

import (
	"fmt"
	"regexp"
)

// Bounds for user fields.
const (
	UsernameMinLength = 3
	UsernameMaxLength = 50
	DomainMaxLength   = 255
	ConnectionsMin    = 1
	ConnectionsMax    = 10
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
	uuidPattern     = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)
)

// FieldError reports which field violated which constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldErrorf(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Username checks the username charset and length constraints.
func Username(value string) *FieldError {
	if len(value) < UsernameMinLength || len(value) > UsernameMaxLength {
		return fieldErrorf("username", "must be between %d and %d characters", UsernameMinLength, UsernameMaxLength)
	}
	if !usernamePattern.MatchString(value) {
		return fieldErrorf("username", "must contain only letters, digits, '_', '.' or '-'")
	}
	return nil
}

// UUID checks the canonical 36-character lowercase hyphenated format.
func UUID(value string) *FieldError {
	if !uuidPattern.MatchString(value) {
		return fieldErrorf("uuid", "must be a 36-character lowercase hyphenated identifier")
	}
	return nil
}

// TrafficLimit checks the megabyte cap is non-negative.
func TrafficLimit(value int64) *FieldError {
	if value < 0 {
		return fieldErrorf("traffic_limit", "must be non-negative")
	}
	return nil
}

// UsageDuration checks the minute allowance is non-negative.
func UsageDuration(value int64) *FieldError {
	if value < 0 {
		return fieldErrorf("usage_duration", "must be non-negative")
	}
	return nil
}

// SimultaneousConnections checks the connection count bounds.
func SimultaneousConnections(value int) *FieldError {
	if value < ConnectionsMin || value > ConnectionsMax {
		return fieldErrorf("simultaneous_connections", "must be between %d and %d", ConnectionsMin, ConnectionsMax)
	}
	return nil
}

// DomainName checks the domain name presence and length constraints.
func DomainName(value string) *FieldError {
	if value == "" {
		return fieldErrorf("name", "is required")
	}
	if len(value) > DomainMaxLength {
		return fieldErrorf("name", "must be at most %d characters", DomainMaxLength)
	}
	return nil
}

// Language checks the settings language code length.
func Language(value string) *FieldError {
	if value == "" {
		return fieldErrorf("language", "is required")
	}
	if len(value) > 10 {
		return fieldErrorf("language", "must be at most 10 characters")
	}
	return nil
}

// Theme checks the settings theme name length.
func Theme(value string) *FieldError {
	if value == "" {
		return fieldErrorf("theme", "is required")
	}
	if len(value) > 20 {
		return fieldErrorf("theme", "must be at most 20 characters")
	}
	return nil
}
