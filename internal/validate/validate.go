package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Issue is a single violated field constraint.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries every violated field of one request. Error() renders the
// issue list as a JSON array so callers can surface it verbatim.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	data, err := json.Marshal(e.Issues)
	if err != nil {
		return "validation failed"
	}
	return string(data)
}

// Struct validates a tagged struct and converts validator violations into an
// *Error listing every failed field. Other errors pass through unchanged.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, Issue{
			Field:   fieldPath(fe.Namespace()),
			Message: messageFor(fe),
		})
	}
	return &Error{Issues: issues}
}

// Var validates a single value against a rule, reporting it under the given
// field name.
func Var(field string, value any, tag string) error {
	if err := v.Var(value, tag); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		issues := make([]Issue, 0, len(verrs))
		for _, fe := range verrs {
			issues = append(issues, Issue{Field: field, Message: messageFor(fe)})
		}
		return &Error{Issues: issues}
	}
	return nil
}

// fieldPath strips the top-level struct name from the validator namespace and
// snake-cases the segments to match the wire field names, so
// CreateApplication.Candidate.ResumeLink becomes "candidate.resume_link".
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = snakeCase(p)
	}
	return strings.Join(parts, ".")
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && s[i-1] >= 'a' && s[i-1] <= 'z' {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email address"
	case "url":
		return "Must be a valid URL"
	case "uuid4", "uuid":
		return fmt.Sprintf("%s must be a valid UUID", fe.Field())
	case "min":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gt", "gte":
		return fmt.Sprintf("%s must be positive", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of the allowed values", fe.Field())
	default:
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
}
