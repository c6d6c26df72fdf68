// Package apperr defines the closed set of error kinds returned by
// repositories and mapped to HTTP statuses by handlers.
package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Kind classifies an application error.
type Kind string

const (
	KindUnknown        Kind = ""
	KindValidation     Kind = "VALIDATION"
	KindNotFound       Kind = "NOT_FOUND"
	KindConflict       Kind = "CONFLICT"
	KindInvalidState   Kind = "INVALID_STATE"
	KindForbidden      Kind = "FORBIDDEN"
	KindUnauthorized   Kind = "UNAUTHORIZED"
	KindInfrastructure Kind = "INFRASTRUCTURE"
)

var categories = map[Kind]goerrors.Category{
	KindValidation:     goerrors.CategoryValidation,
	KindNotFound:       goerrors.CategoryNotFound,
	KindConflict:       goerrors.CategoryConflict,
	KindInvalidState:   goerrors.CategoryBadInput,
	KindForbidden:      goerrors.CategoryAuthz,
	KindUnauthorized:   goerrors.CategoryAuth,
	KindInfrastructure: goerrors.CategoryInternal,
}

// Status returns the HTTP status for k.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindConflict, KindInvalidState:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, message string) *goerrors.Error {
	return goerrors.New(message, categories[kind]).
		WithTextCode(string(kind)).
		WithCode(kind.Status())
}

// Validation reports an invalid request. field may be empty.
func Validation(field, message string) *goerrors.Error {
	err := newError(KindValidation, message)
	if field != "" {
		err = err.WithMetadata(map[string]any{"field": field})
	}
	return err
}

// NotFound reports a missing record of entity.
func NotFound(entity, id string) *goerrors.Error {
	return newError(KindNotFound, fmt.Sprintf("%s %s not found", entity, id)).
		WithMetadata(map[string]any{"entity": entity, "id": id})
}

// Conflict reports a uniqueness or overlap violation.
func Conflict(field, message string) *goerrors.Error {
	err := newError(KindConflict, message)
	if field != "" {
		err = err.WithMetadata(map[string]any{"field": field})
	}
	return err
}

// InvalidState reports an operation not allowed from the record's current state.
func InvalidState(message string) *goerrors.Error {
	return newError(KindInvalidState, message)
}

// Forbidden reports an authenticated caller acting outside its rights.
func Forbidden(message string) *goerrors.Error {
	return newError(KindForbidden, message)
}

// Unauthorized reports a missing or invalid credential.
func Unauthorized(message string) *goerrors.Error {
	return newError(KindUnauthorized, message)
}

// Infrastructure wraps a store or other backend failure.
func Infrastructure(err error, message string) *goerrors.Error {
	return goerrors.Wrap(err, categories[KindInfrastructure], message).
		WithTextCode(string(KindInfrastructure)).
		WithCode(http.StatusInternalServerError)
}

// KindOf classifies err. Errors that carry no kind are KindUnknown, which
// handlers treat as internal errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var appErr *goerrors.Error
	if errors.As(err, &appErr) {
		if _, ok := categories[Kind(appErr.TextCode)]; ok {
			return Kind(appErr.TextCode)
		}
		for kind, category := range categories {
			if kind == KindInvalidState {
				continue
			}
			if appErr.Category == category {
				return kind
			}
		}
	}

	if errors.Is(err, sql.ErrNoRows) {
		return KindNotFound
	}
	return KindUnknown
}

// Is reports whether err is of kind k.
func Is(err error, k Kind) bool {
	return KindOf(err) == k
}

// Field returns the offending field recorded on err, if any.
func Field(err error) string {
	var appErr *goerrors.Error
	if !errors.As(err, &appErr) || appErr.Metadata == nil {
		return ""
	}
	if field, ok := appErr.Metadata["field"].(string); ok {
		return field
	}
	return ""
}

// Message returns the client-facing message of err.
func Message(err error) string {
	var appErr *goerrors.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
