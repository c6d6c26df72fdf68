package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	"github.com/goliatone/go-coworking/internal/apperr"
	"go.uber.org/zap"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Message string `json:"message"`
	Details string `json:"details"`
	Field   string `json:"field,omitempty"`
}

// writeJSON encodes v with status. Successful GET responses carry an ETag
// and honor If-None-Match.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.writeError(w, r, apperr.Infrastructure(err, "encode response"))
		return
	}

	if r.Method == http.MethodGet && status == http.StatusOK {
		etag := `"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`
		w.Header().Set("ETag", etag)
		if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.logger.Debug("write response", zap.Error(err))
	}
}

// writeError maps err to its status and error body. Unclassified errors are
// internal errors and are logged.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := kind.Status()

	body := ErrorBody{
		Message: apperr.Message(err),
		Details: string(kind),
		Field:   apperr.Field(err),
	}
	if status == http.StatusInternalServerError {
		body.Message = "internal server error"
		body.Details = err.Error()
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	s.writeJSON(w, r, status, body)
}

// envelope is the body of create, update and action responses.
func envelope(message, key string, v any, warning string) map[string]any {
	body := map[string]any{"message": message, key: v}
	if warning != "" {
		body["warning"] = warning
	}
	return body
}

const maxBody = 1 << 20

// decodeBody reads a JSON request body into dst. Unknown fields are ignored.
func decodeBody(r *http.Request, dst any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody+1))
	if err != nil {
		return apperr.Validation("", "unreadable request body")
	}
	if len(data) > maxBody {
		return apperr.Validation("", "request body too large")
	}
	if len(data) == 0 {
		return apperr.Validation("", "request body is required")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return apperr.Validation(typeErr.Field, typeErr.Field+": invalid value")
		}
		return apperr.Validation("", "malformed JSON body")
	}
	return nil
}
