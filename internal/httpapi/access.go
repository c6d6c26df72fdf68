package httpapi

import (
	"context"
	"net/http"
	"slices"

	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/internal/auth"
	"github.com/goliatone/go-coworking/internal/repo"
	"github.com/google/uuid"
)

func principal(ctx context.Context) auth.Principal {
	p, _ := auth.FromContext(ctx)
	return p
}

// self fails unless the caller is userID or an admin.
func self(ctx context.Context, userID uuid.UUID) error {
	if !principal(ctx).Is(userID) {
		return apperr.Forbidden("access restricted to the owner")
	}
	return nil
}

// ownedBy builds a check that the caller owns a record.
func ownedBy[M any](owner func(M) uuid.UUID) func(context.Context, M) error {
	return func(ctx context.Context, m M) error {
		return self(ctx, owner(m))
	}
}

// visible reads the {id} record and runs check on it.
func visible[M any](get func(context.Context, uuid.UUID) (M, error), check func(context.Context, M) error) func(*http.Request) (M, error) {
	return func(r *http.Request) (M, error) {
		m, err := byID(get)(r)
		if err != nil {
			return m, err
		}
		if err := check(r.Context(), m); err != nil {
			var zero M
			return zero, err
		}
		return m, nil
	}
}

// guarded runs check on the current {id} record before fn.
func guarded[M any, R any](get func(context.Context, uuid.UUID) (M, error), check func(context.Context, M) error, fn func(*http.Request) (R, error)) func(*http.Request) (R, error) {
	return func(r *http.Request) (R, error) {
		if _, err := visible(get, check)(r); err != nil {
			var zero R
			return zero, err
		}
		return fn(r)
	}
}

// ownList restricts a non-admin listing to the caller's own records.
func ownList[F any](userID func(*F) *uuid.UUID) func(*http.Request, *F) error {
	return func(r *http.Request, f *F) error {
		p := caller(r)
		if p.IsAdmin() {
			return nil
		}
		id := userID(f)
		if *id != uuid.Nil && *id != p.ID {
			return apperr.Forbidden("access restricted to the owner")
		}
		*id = p.ID
		return nil
	}
}

// userPath parses the {id} URL parameter as a user the caller may act for.
func userPath(r *http.Request) (uuid.UUID, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return uuid.Nil, err
	}
	return id, self(r.Context(), id)
}

// asCaller defaults *userID to the caller and checks the caller may act for it.
func asCaller(ctx context.Context, userID *uuid.UUID) error {
	if *userID == uuid.Nil {
		*userID = principal(ctx).ID
	}
	return self(ctx, *userID)
}

// ownsBuilding fails unless the caller is an admin or owns the building.
func ownsBuilding(ctx context.Context, buildings *repo.BuildingRepository, buildingID uuid.UUID) error {
	p := principal(ctx)
	if p.IsAdmin() {
		return nil
	}
	b, err := buildings.GetByID(ctx, buildingID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.Validation("edificioId", "building "+buildingID.String()+" does not exist")
		}
		return err
	}
	if b.PropietarioID != p.ID {
		return apperr.Forbidden("access restricted to the building owner")
	}
	return nil
}

// pathEnum reads the {name} URL parameter as one of values.
func pathEnum[S ~string](r *http.Request, name string, values []S) (S, error) {
	v := S(urlParam(r, name))
	if !slices.Contains(values, v) {
		return "", apperr.Validation(name, name+" must be one of the supported values")
	}
	return v, nil
}
