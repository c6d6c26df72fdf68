// Package schema declares the request bodies accepted by the HTTP API, their
// validation rules and how they map onto models.
package schema

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/google/uuid"
)

// Check validates v and converts a failure into an apperr validation error
// naming the first offending field.
func Check(v validation.Validatable) error {
	return convert(v.Validate())
}

func convert(err error) error {
	if err == nil {
		return nil
	}

	var fields validation.Errors
	if errors.As(err, &fields) {
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if fields[name] != nil {
				return apperr.Validation(name, name+": "+fields[name].Error())
			}
		}
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return apperr.Infrastructure(internal.InternalError(), "validate request")
	}
	return apperr.Validation("", err.Error())
}

var (
	hhmm      = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	promoCode = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	last4     = regexp.MustCompile(`^[0-9]{4}$`)
	expiry    = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
)

// ParseID parses a path identifier, reporting malformed ids on field.
func ParseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperr.Validation(field, "invalid id "+raw)
	}
	return id, nil
}

// oneOf accepts only the listed enum values.
func oneOf[S ~string](values []S) validation.Rule {
	allowed := make([]any, len(values))
	for i, v := range values {
		allowed[i] = v
	}
	return validation.In(allowed...).Error("must be one of " + join(values))
}

func join[S ~string](values []S) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// notNil rejects a zero UUID.
var notNil = validation.By(func(value any) error {
	switch id := value.(type) {
	case uuid.UUID:
		if id == uuid.Nil {
			return errors.New("is required")
		}
	case *uuid.UUID:
		if id != nil && *id == uuid.Nil {
			return errors.New("is required")
		}
	}
	return nil
})

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// after requires a time strictly later than start. A zero start is left to
// the Required rule of its own field.
func after(start time.Time, name string) validation.RuleFunc {
	return func(value any) error {
		var t time.Time
		switch v := value.(type) {
		case time.Time:
			t = v
		case *time.Time:
			if v == nil {
				return nil
			}
			t = *v
		}
		if start.IsZero() || t.IsZero() {
			return nil
		}
		if !t.After(start) {
			return errors.New("must be after " + name)
		}
		return nil
	}
}
