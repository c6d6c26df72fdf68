package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/goliatone/go-coworking/internal/repo"
	"github.com/goliatone/go-coworking/internal/schema"
	"github.com/google/uuid"
)

// reviewed serves a review write, passing its rating warning through.
func (s *Server) reviewed(status int, message string, fn func(*http.Request) (repo.Outcome, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fn(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, r, status, envelope(message, "resena", out.Review, out.Warning))
	}
}

// entityPath reads the {tipo} and {id} URL parameters of a reviewed entity.
func entityPath(r *http.Request) (models.EntityType, uuid.UUID, error) {
	tipo, err := pathEnum(r, "tipo", models.EntityTypes)
	if err != nil {
		return "", uuid.Nil, err
	}
	id, err := pathID(r, "id")
	return tipo, id, err
}

func (s *Server) reviewRoutes(r chi.Router) {
	rv := s.repos.Reviews
	owns := ownedBy(func(m *models.Review) uuid.UUID { return m.UsuarioID })

	// non-admin callers see their own reviews and the approved reviews of others
	scope := func(r *http.Request, f *repo.ReviewFilter) error {
		p := caller(r)
		if p.IsAdmin() || (f.UsuarioID != uuid.Nil && f.UsuarioID == p.ID) {
			return nil
		}
		f.EstadoModeracion = models.ModerationApproved
		return nil
	}

	r.Route("/resenas", func(r chi.Router) {
		r.Get("/", read(s, listed(s, rv.List, scope)))
		r.Get("/entidad/{tipo}/{id}", read(s, func(r *http.Request) ([]*models.Review, error) {
			tipo, id, err := entityPath(r)
			if err != nil {
				return nil, err
			}
			return rv.ByEntity(r.Context(), tipo, id)
		}))
		r.Get("/entidad/{tipo}/{id}/promedio", read(s, func(r *http.Request) (models.RatingSummary, error) {
			tipo, id, err := entityPath(r)
			if err != nil {
				return models.RatingSummary{}, err
			}
			return rv.Summary(r.Context(), tipo, id)
		}))
		r.Get("/usuario/{id}", read(s, forUser(rv.ByUser)))
		r.With(s.adminOnly).Get("/pendientes", read(s, func(r *http.Request) ([]*models.Review, error) {
			return rv.Pending(r.Context())
		}))
		r.Get("/{id}", read(s, visible(rv.GetByID, func(ctx context.Context, m *models.Review) error {
			if m.EstadoModeracion == models.ModerationApproved {
				return nil
			}
			return owns(ctx, m)
		})))

		r.Post("/", s.reviewed(http.StatusCreated, "review created", func(r *http.Request) (repo.Outcome, error) {
			in, err := body[schema.CreateReview](r)
			if err != nil {
				return repo.Outcome{}, err
			}
			if err := asCaller(r.Context(), &in.UsuarioID); err != nil {
				return repo.Outcome{}, err
			}
			return rv.Create(r.Context(), in.Model())
		}))
		r.Put("/{id}", s.reviewed(http.StatusOK, "review updated",
			guarded(rv.GetByID, owns, func(r *http.Request) (repo.Outcome, error) {
				id, err := pathID(r, "id")
				if err != nil {
					return repo.Outcome{}, err
				}
				in, err := body[schema.UpdateReview](r)
				if err != nil {
					return repo.Outcome{}, err
				}
				return rv.Update(r.Context(), id, in.Apply)
			})))
		r.Delete("/{id}", s.reviewed(http.StatusOK, "review deleted",
			guarded(rv.GetByID, owns, byID(rv.Delete))))
		r.With(s.adminOnly).Put("/{id}/moderar", s.reviewed(http.StatusOK, "review moderated",
			func(r *http.Request) (repo.Outcome, error) {
				id, err := pathID(r, "id")
				if err != nil {
					return repo.Outcome{}, err
				}
				in, err := body[schema.Moderate](r)
				if err != nil {
					return repo.Outcome{}, err
				}
				return rv.Moderate(r.Context(), id, in.Estado, in.Motivo)
			}))
	})
}

func (s *Server) notificationRoutes(r chi.Router) {
	n := s.repos.Notifications
	owns := ownedBy(func(m *models.Notification) uuid.UUID { return m.UsuarioID })

	r.Route("/notificaciones", func(r chi.Router) {
		r.Get("/", read(s, listed(s, n.List, ownList(func(f *repo.NotificationFilter) *uuid.UUID {
			return &f.UsuarioID
		}))))
		r.Get("/usuario/{id}", read(s, forUser(n.ByUser)))
		r.Get("/usuario/{id}/no-leidas", read(s, forUser(n.Unread)))
		r.With(s.adminOnly).Get("/tipo/{tipo}", read(s, func(r *http.Request) ([]*models.Notification, error) {
			tipo, err := pathEnum(r, "tipo", models.NotificationTypes)
			if err != nil {
				return nil, err
			}
			return n.ByType(r.Context(), tipo)
		}))
		r.Get("/{id}", read(s, visible(n.GetByID, owns)))

		r.Put("/{id}/leer", act(s, http.StatusOK, "notification marked as read", "notificacion",
			guarded(n.GetByID, owns, byID(n.MarkRead))))
		r.Put("/usuario/{id}/leer-todas", func(w http.ResponseWriter, r *http.Request) {
			id, err := userPath(r)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			count, err := n.MarkAllRead(r.Context(), id)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			s.writeJSON(w, r, http.StatusOK, envelope("notifications marked as read", "actualizadas", count, ""))
		})
		r.Delete("/{id}", act(s, http.StatusOK, "notification deleted", "notificacion",
			guarded(n.GetByID, owns, byID(n.Delete))))

		r.Group(func(r chi.Router) {
			r.Use(s.adminOnly)
			r.Post("/", act(s, http.StatusCreated, "notification created", "notificacion", func(r *http.Request) (*models.Notification, error) {
				return created[schema.CreateNotification](r, n.Create)
			}))
			r.Put("/{id}", act(s, http.StatusOK, "notification updated", "notificacion", func(r *http.Request) (*models.Notification, error) {
				return patched[schema.UpdateNotification](r, n.Update)
			}))
		})
	})
}

// membershipStatus is the body of GET /usuarios/{id}/membresia.
type membershipStatus struct {
	Activa    bool                       `json:"activa"`
	Membresia *models.MembershipSnapshot `json:"membresia"`
}

func (s *Server) userRoutes(r chi.Router) {
	u := s.repos.Users
	owns := ownedBy(func(m *models.User) uuid.UUID { return m.ID })
	update := checkedUpdate(u.Update, owns)

	r.Route("/usuarios", func(r chi.Router) {
		r.With(s.adminOnly).Get("/", read(s, listed(s, u.List, nil)))
		r.With(s.adminOnly).Get("/activos", read(s, active(s, u.Active)))
		r.With(s.adminOnly).Get("/rol/{rol}", read(s, func(r *http.Request) ([]*models.User, error) {
			rol, err := pathEnum(r, "rol", models.Roles)
			if err != nil {
				return nil, err
			}
			return u.ByRole(r.Context(), rol)
		}))
		r.With(s.adminOnly).Get("/empresa/{id}", read(s, byID(u.ByCompany)))
		r.Get("/email/{email}", read(s, func(r *http.Request) (*models.User, error) {
			user, err := u.ByEmail(r.Context(), urlParam(r, "email"))
			if err != nil {
				return nil, err
			}
			if err := owns(r.Context(), user); err != nil {
				return nil, err
			}
			return user, nil
		}))
		r.Get("/{id}", read(s, visible(u.GetByID, owns)))
		r.Get("/{id}/membresia", read(s, func(r *http.Request) (membershipStatus, error) {
			id, err := userPath(r)
			if err != nil {
				return membershipStatus{}, err
			}
			snapshot, ok, err := u.ActiveMembership(r.Context(), id)
			if err != nil {
				return membershipStatus{}, err
			}
			return membershipStatus{Activa: ok, Membresia: snapshot}, nil
		}))

		r.With(s.adminOnly).Post("/", act(s, http.StatusCreated, "user created", "usuario", func(r *http.Request) (*models.User, error) {
			return created[schema.CreateUser](r, u.Create)
		}))
		r.Put("/{id}", act(s, http.StatusOK, "user updated", "usuario", func(r *http.Request) (*models.User, error) {
			id, err := pathID(r, "id")
			if err != nil {
				return nil, err
			}
			in, err := body[schema.UpdateUser](r)
			if err != nil {
				return nil, err
			}
			if in.Rol != nil && !caller(r).IsAdmin() {
				return nil, apperr.Forbidden("only admins can change roles")
			}
			return update(r.Context(), id, in.Apply)
		}))
		r.Put("/{id}/metodos-pago", act(s, http.StatusOK, "payment methods updated", "usuario", func(r *http.Request) (*models.User, error) {
			id, err := userPath(r)
			if err != nil {
				return nil, err
			}
			in, err := body[schema.PaymentMethods](r)
			if err != nil {
				return nil, err
			}
			return u.ReplacePaymentMethods(r.Context(), id, in.Models())
		}))

		s.activation(r, activator(u.SetActive), "usuario")
	})
}
