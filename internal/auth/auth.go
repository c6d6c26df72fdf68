// Package auth issues and verifies the HS256 bearer tokens of the API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the token claims: the subject is the user id.
type Claims struct {
	Rol models.Role `json:"rol"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller.
type Principal struct {
	ID  uuid.UUID
	Rol models.Role
}

func (p Principal) IsAdmin() bool { return p.Rol == models.RoleAdmin }

// Is reports whether the caller is userID or an admin.
func (p Principal) Is(userID uuid.UUID) bool {
	return p.IsAdmin() || (userID != uuid.Nil && p.ID == userID)
}

// HasRole reports whether the caller holds one of roles. Admins hold every role.
func (p Principal) HasRole(roles ...models.Role) bool {
	if p.IsAdmin() {
		return true
	}
	for _, r := range roles {
		if p.Rol == r {
			return true
		}
	}
	return false
}

// Authenticator signs and verifies tokens with a shared secret.
type Authenticator struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithClock sets the clock used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		if now != nil {
			a.now = now
		}
	}
}

// New returns an Authenticator. An empty issuer is neither set nor checked.
func New(secret, issuer string, ttl time.Duration, opts ...Option) *Authenticator {
	a := &Authenticator{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Issue signs a token for the user.
func (a *Authenticator) Issue(sub uuid.UUID, rol models.Role) (string, error) {
	now := a.now()
	claims := Claims{
		Rol: rol,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.String(),
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies token and returns its principal.
func (a *Authenticator) Parse(token string) (Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, apperr.Unauthorized("token expired")
		}
		return Principal{}, apperr.Unauthorized("invalid token")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Principal{}, apperr.Unauthorized("invalid token subject")
	}
	switch claims.Rol {
	case models.RoleUser, models.RoleOwner, models.RoleAdmin:
	default:
		return Principal{}, apperr.Unauthorized("invalid token role")
	}
	return Principal{ID: id, Rol: claims.Rol}, nil
}

// FromRequest reads and verifies the bearer token of r.
func (a *Authenticator) FromRequest(r *http.Request) (Principal, error) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if header == "" {
		return Principal{}, apperr.Unauthorized("missing authorization header")
	}
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return Principal{}, apperr.Unauthorized("invalid authorization header")
	}
	return a.Parse(strings.TrimSpace(token))
}

type principalKey struct{}

// WithPrincipal stores p on ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored on ctx.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
