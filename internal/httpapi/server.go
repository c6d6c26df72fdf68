// Package httpapi exposes the repositories as a JSON REST API.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-coworking/internal/auth"
	"github.com/goliatone/go-coworking/internal/repo"
	"github.com/goliatone/go-coworking/internal/schema"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Limits bound list pagination.
type Limits struct {
	Default int
	Max     int
}

// Options configure a Server.
type Options struct {
	Repos  *repo.Repositories
	Auth   *auth.Authenticator
	Logger *zap.Logger
	Limits Limits
	// Gatherer backs /metrics. Defaults to the global registry.
	Gatherer prometheus.Gatherer
	// Ping reports store health on /health.
	Ping        func(context.Context) error
	CORSOrigins []string
	// RateLimit is the per-IP request budget per RateWindow. Zero disables it.
	RateLimit  int
	RateWindow time.Duration
}

// Server routes HTTP requests to the repositories.
type Server struct {
	repos    *repo.Repositories
	auth     *auth.Authenticator
	logger   *zap.Logger
	limits   Limits
	gatherer prometheus.Gatherer
	ping     func(context.Context) error
	origins  []string
	rate     int
	window   time.Duration
}

// New returns a Server.
func New(opts Options) *Server {
	s := &Server{
		repos:    opts.Repos,
		auth:     opts.Auth,
		logger:   opts.Logger,
		limits:   opts.Limits,
		gatherer: opts.Gatherer,
		ping:     opts.Ping,
		origins:  opts.CORSOrigins,
		rate:     opts.RateLimit,
		window:   opts.RateWindow,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.limits.Default <= 0 {
		s.limits.Default = 20
	}
	if s.limits.Max <= 0 {
		s.limits.Max = 100
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	if len(s.origins) == 0 {
		s.origins = []string{"*"}
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(accessLog(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "If-None-Match", "X-Request-ID"},
		ExposedHeaders: []string{"ETag", "X-Request-ID"},
		MaxAge:         300,
	}))
	if s.rate > 0 && s.window > 0 {
		r.Use(httprate.LimitByIP(s.rate, s.window))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, r, http.StatusNotFound, ErrorBody{Message: "route not found", Details: "NOT_FOUND"})
	})

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		s.buildingRoutes(r)
		s.spaceRoutes(r)
		s.officeRoutes(r)
		s.serviceRoutes(r)
		s.reservationRoutes(r)
		s.serviceReservationRoutes(r)
		s.membershipRoutes(r)
		s.paymentRoutes(r)
		s.reviewRoutes(r)
		s.promotionRoutes(r)
		s.notificationRoutes(r)
		s.userRoutes(r)
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if s.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ping(ctx); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			s.writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	s.writeJSON(w, r, http.StatusOK, status)
}

// read serves the result of fn as a bare JSON body.
func read[T any](s *Server, fn func(r *http.Request) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := fn(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, r, http.StatusOK, v)
	}
}

// act serves the result of fn wrapped in {message, key}.
func act[T any](s *Server, status int, message, key string, fn func(r *http.Request) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := fn(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, r, status, envelope(message, key, v, ""))
	}
}

// body decodes and validates the request body as B.
func body[B validation.Validatable](r *http.Request) (B, error) {
	var b B
	if err := decodeBody(r, &b); err != nil {
		return b, err
	}
	return b, schema.Check(b)
}

type creator[M any] interface {
	validation.Validatable
	Model() *M
}

type patcher[M any] interface {
	validation.Validatable
	Apply(*M) error
}

// byID reads the {id} parameter and calls get.
func byID[T any](get func(context.Context, uuid.UUID) (T, error)) func(*http.Request) (T, error) {
	return func(r *http.Request) (T, error) {
		id, err := pathID(r, "id")
		if err != nil {
			var zero T
			return zero, err
		}
		return get(r.Context(), id)
	}
}

// listed reads the filter F from the query string and one page of results.
func listed[F any, T any](s *Server, list func(context.Context, F, int, int) ([]T, error), scope func(*http.Request, *F) error) func(*http.Request) ([]T, error) {
	return func(r *http.Request) ([]T, error) {
		var f F
		if err := decodeQuery(r, &f); err != nil {
			return nil, err
		}
		if scope != nil {
			if err := scope(r, &f); err != nil {
				return nil, err
			}
		}
		skip, limit, err := s.page(r)
		if err != nil {
			return nil, err
		}
		return list(r.Context(), f, skip, limit)
	}
}

// active reads one page of active records.
func active[T any](s *Server, list func(context.Context, int, int) ([]T, error)) func(*http.Request) ([]T, error) {
	return func(r *http.Request) ([]T, error) {
		skip, limit, err := s.page(r)
		if err != nil {
			return nil, err
		}
		return list(r.Context(), skip, limit)
	}
}

// created decodes a creator body and passes its model to create.
func created[B creator[M], M any](r *http.Request, create func(context.Context, *M) (*M, error)) (*M, error) {
	b, err := body[B](r)
	if err != nil {
		return nil, err
	}
	return create(r.Context(), b.Model())
}

// patched decodes a patcher body and applies it through update.
func patched[B patcher[M], M any](r *http.Request, update func(context.Context, uuid.UUID, func(*M) error) (*M, error)) (*M, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	b, err := body[B](r)
	if err != nil {
		return nil, err
	}
	return update(r.Context(), id, b.Apply)
}

// toggled flips the activo flag of the {id} record.
func toggled[T any](set func(context.Context, uuid.UUID, bool) (T, error), on bool) func(*http.Request) (T, error) {
	return func(r *http.Request) (T, error) {
		id, err := pathID(r, "id")
		if err != nil {
			var zero T
			return zero, err
		}
		return set(r.Context(), id, on)
	}
}
