package httpapi

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-viper/mapstructure/v2"
	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/internal/schema"
	"github.com/google/uuid"
)

// pathID parses the {name} URL parameter as a UUID.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	return schema.ParseID(name, chi.URLParam(r, name))
}

// urlParam returns the unescaped {name} URL parameter.
func urlParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// page reads skip and limit. limit defaults to the configured default and is
// capped at the configured maximum.
func (s *Server) page(r *http.Request) (int, int, error) {
	q := r.URL.Query()
	skip, limit := 0, s.limits.Default
	if v := q.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, apperr.Validation("skip", "skip must be a non-negative integer")
		}
		skip = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, apperr.Validation("limit", "limit must be a positive integer")
		}
		limit = n
	}
	if limit > s.limits.Max {
		limit = s.limits.Max
	}
	return skip, limit, nil
}

// decodeQuery fills the json-tagged fields of dst from the query string.
// Parameters that match no field are ignored.
func decodeQuery(r *http.Request, dst any) error {
	input := map[string]any{}
	for key, values := range r.URL.Query() {
		if key == "skip" || key == "limit" || len(values) == 0 || values[0] == "" {
			continue
		}
		input[key] = values[0]
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           dst,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return apperr.Infrastructure(err, "build query decoder")
	}
	if err := dec.Decode(input); err != nil {
		return apperr.Validation("", "invalid query parameters: "+err.Error())
	}
	return nil
}

// timeRange reads the required inicio and fin RFC3339 parameters.
func timeRange(r *http.Request) (time.Time, time.Time, error) {
	start, err := queryTime(r, "inicio")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := queryTime(r, "fin")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func queryTime(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, apperr.Validation(name, name+" is required")
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperr.Validation(name, name+" must be an RFC3339 timestamp")
	}
	return t, nil
}

func queryFloat(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, apperr.Validation(name, name+" is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, apperr.Validation(name, name+" must be a non-negative number")
	}
	return v, nil
}
