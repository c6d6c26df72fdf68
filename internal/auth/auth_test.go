package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-0123456789"

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newAuth() (*Authenticator, *clock) {
	c := &clock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	return New(secret, "coworkd", time.Hour, WithClock(c.Now)), c
}

func TestIssueParse(t *testing.T) {
	a, _ := newAuth()
	id := uuid.New()

	token, err := a.Issue(id, models.RoleOwner)
	require.NoError(t, err)

	p, err := a.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, models.RoleOwner, p.Rol)
}

func TestParse_Rejects(t *testing.T) {
	a, c := newAuth()
	id := uuid.New()
	valid, err := a.Issue(id, models.RoleUser)
	require.NoError(t, err)

	sign := func(claims Claims, key string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		require.NoError(t, err)
		return s
	}
	registered := func(sub, iss string) jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    iss,
			ExpiresAt: jwt.NewNumericDate(c.now.Add(time.Hour)),
		}
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign(Claims{Rol: models.RoleUser, RegisteredClaims: registered(id.String(), "coworkd")}, "another-secret-0123456")},
		{"wrong issuer", sign(Claims{Rol: models.RoleUser, RegisteredClaims: registered(id.String(), "otro")}, secret)},
		{"bad subject", sign(Claims{Rol: models.RoleUser, RegisteredClaims: registered("42", "coworkd")}, secret)},
		{"unknown role", sign(Claims{Rol: "root", RegisteredClaims: registered(id.String(), "coworkd")}, secret)},
		{"no expiry", sign(Claims{Rol: models.RoleUser, RegisteredClaims: jwt.RegisteredClaims{Subject: id.String(), Issuer: "coworkd"}}, secret)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Parse(tt.token)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
		})
	}

	c.now = c.now.Add(2 * time.Hour)
	_, err = a.Parse(valid)
	require.Error(t, err)
	assert.Equal(t, "token expired", apperr.Message(err))
}

func TestFromRequest(t *testing.T) {
	a, _ := newAuth()
	id := uuid.New()
	token, err := a.Issue(id, models.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		ok     bool
	}{
		{"bearer", "Bearer " + token, true},
		{"lower case scheme", "bearer " + token, true},
		{"missing", "", false},
		{"basic", "Basic " + token, false},
		{"no token", "Bearer ", false},
		{"no scheme", token, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/edificios", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			p, err := a.FromRequest(r)
			if !tt.ok {
				assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, p.ID)
		})
	}
}

func TestPrincipal(t *testing.T) {
	me := uuid.New()
	user := Principal{ID: me, Rol: models.RoleUser}
	admin := Principal{ID: uuid.New(), Rol: models.RoleAdmin}

	assert.True(t, user.Is(me))
	assert.False(t, user.Is(uuid.New()))
	assert.False(t, user.Is(uuid.Nil))
	assert.True(t, admin.Is(me))

	assert.True(t, user.HasRole(models.RoleUser, models.RoleOwner))
	assert.False(t, user.HasRole(models.RoleOwner))
	assert.True(t, admin.HasRole(models.RoleOwner))

	ctx := WithPrincipal(context.Background(), user)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, user, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
