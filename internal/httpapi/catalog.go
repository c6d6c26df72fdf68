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

// checkedUpdate runs check on the stored record before and after mutate.
func checkedUpdate[M any](update func(context.Context, uuid.UUID, func(*M) error) (*M, error), check func(context.Context, *M) error) func(context.Context, uuid.UUID, func(*M) error) (*M, error) {
	return func(ctx context.Context, id uuid.UUID, mutate func(*M) error) (*M, error) {
		return update(ctx, id, func(m *M) error {
			if err := check(ctx, m); err != nil {
				return err
			}
			if err := mutate(m); err != nil {
				return err
			}
			return check(ctx, m)
		})
	}
}

// checkedCreate runs check on the new record before create.
func checkedCreate[M any](create func(context.Context, *M) (*M, error), check func(context.Context, *M) error) func(context.Context, *M) (*M, error) {
	return func(ctx context.Context, m *M) (*M, error) {
		if err := check(ctx, m); err != nil {
			return nil, err
		}
		return create(ctx, m)
	}
}

func (s *Server) activation(r chi.Router, set func(context.Context, uuid.UUID, bool) (any, error), key string) {
	r.With(s.adminOnly).Put("/{id}/activar", act(s, http.StatusOK, "activated", key, toggled(set, true)))
	r.With(s.adminOnly).Put("/{id}/desactivar", act(s, http.StatusOK, "deactivated", key, toggled(set, false)))
	r.With(s.adminOnly).Delete("/{id}", act(s, http.StatusOK, "deactivated", key, toggled(set, false)))
}

// activator erases the record type of a SetActive method for activation.
func activator[M any](set func(context.Context, uuid.UUID, bool) (*M, error)) func(context.Context, uuid.UUID, bool) (any, error) {
	return func(ctx context.Context, id uuid.UUID, on bool) (any, error) {
		return set(ctx, id, on)
	}
}

func (s *Server) buildingRoutes(r chi.Router) {
	b := s.repos.Buildings
	owns := func(ctx context.Context, m *models.Building) error {
		p := principal(ctx)
		if p.IsAdmin() || m.PropietarioID == p.ID {
			return nil
		}
		return apperr.Forbidden("access restricted to the building owner")
	}
	create := checkedCreate(b.Create, func(ctx context.Context, m *models.Building) error {
		return asCaller(ctx, &m.PropietarioID)
	})
	update := checkedUpdate(b.Update, owns)

	r.Route("/edificios", func(r chi.Router) {
		r.Get("/", read(s, listed(s, b.List, nil)))
		r.Get("/activos", read(s, active(s, b.Active)))
		r.Get("/ciudad/{ciudad}", read(s, func(r *http.Request) ([]*models.Building, error) {
			return b.ByCity(r.Context(), urlParam(r, "ciudad"))
		}))
		r.Get("/propietario/{id}", read(s, byID(b.ByOwner)))
		r.Get("/{id}", read(s, byID(b.GetByID)))

		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(models.RoleOwner))
			r.Post("/", act(s, http.StatusCreated, "building created", "edificio", func(r *http.Request) (*models.Building, error) {
				return created[schema.CreateBuilding](r, create)
			}))
			r.Put("/{id}", act(s, http.StatusOK, "building updated", "edificio", func(r *http.Request) (*models.Building, error) {
				return patched[schema.UpdateBuilding](r, update)
			}))
			r.Post("/{id}/amenidades", act(s, http.StatusOK, "amenity added", "edificio",
				guarded(b.GetByID, owns, func(r *http.Request) (*models.Building, error) {
					id, err := pathID(r, "id")
					if err != nil {
						return nil, err
					}
					in, err := body[schema.Amenity](r)
					if err != nil {
						return nil, err
					}
					return b.AddAmenity(r.Context(), id, in.Amenidad)
				})))
			r.Delete("/{id}/amenidades/{amenidad}", act(s, http.StatusOK, "amenity removed", "edificio",
				guarded(b.GetByID, owns, func(r *http.Request) (*models.Building, error) {
					id, err := pathID(r, "id")
					if err != nil {
						return nil, err
					}
					return b.RemoveAmenity(r.Context(), id, urlParam(r, "amenidad"))
				})))
		})

		s.activation(r, activator(b.SetActive), "edificio")
	})
}

func (s *Server) spaceRoutes(r chi.Router) {
	sp := s.repos.Spaces
	owns := func(ctx context.Context, m *models.Space) error {
		return ownsBuilding(ctx, s.repos.Buildings, m.EdificioID)
	}
	create := checkedCreate(sp.Create, owns)
	update := checkedUpdate(sp.Update, owns)

	r.Route("/espacios", func(r chi.Router) {
		r.Get("/", read(s, listed(s, sp.List, nil)))
		r.Get("/activos", read(s, active(s, sp.Active)))
		r.Get("/edificio/{id}", read(s, byID(sp.ByBuilding)))
		r.Get("/tipo/{tipo}", read(s, func(r *http.Request) ([]*models.Space, error) {
			tipo, err := pathEnum(r, "tipo", models.SpaceTypes)
			if err != nil {
				return nil, err
			}
			return sp.ByType(r.Context(), tipo)
		}))
		r.Get("/precio", read(s, func(r *http.Request) ([]*models.Space, error) {
			low, err := queryFloat(r, "min")
			if err != nil {
				return nil, err
			}
			high, err := queryFloat(r, "max")
			if err != nil {
				return nil, err
			}
			if low > high {
				return nil, apperr.Validation("max", "max must not be lower than min")
			}
			return sp.ByPriceRange(r.Context(), low, high)
		}))
		r.Get("/{id}", read(s, byID(sp.GetByID)))

		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(models.RoleOwner))
			r.Post("/", act(s, http.StatusCreated, "space created", "espacio", func(r *http.Request) (*models.Space, error) {
				return created[schema.CreateSpace](r, create)
			}))
			r.Put("/{id}", act(s, http.StatusOK, "space updated", "espacio", func(r *http.Request) (*models.Space, error) {
				return patched[schema.UpdateSpace](r, update)
			}))
		})

		s.activation(r, activator(sp.SetActive), "espacio")
	})
}

func (s *Server) officeRoutes(r chi.Router) {
	o := s.repos.Offices
	owns := func(ctx context.Context, m *models.Office) error {
		return ownsBuilding(ctx, s.repos.Buildings, m.EdificioID)
	}
	create := checkedCreate(o.Create, owns)
	update := checkedUpdate(o.Update, owns)

	r.Route("/oficinas", func(r chi.Router) {
		r.Get("/", read(s, listed(s, o.List, nil)))
		r.Get("/activos", read(s, active(s, o.Active)))
		r.Get("/edificio/{id}", read(s, byID(o.ByBuilding)))
		r.Get("/empresa/{id}", read(s, byID(o.ByCompany)))
		r.Get("/estado/{estado}", read(s, func(r *http.Request) ([]*models.Office, error) {
			estado, err := pathEnum(r, "estado", models.OfficeStatuses)
			if err != nil {
				return nil, err
			}
			return o.ByStatus(r.Context(), estado)
		}))
		r.Get("/{id}", read(s, byID(o.GetByID)))

		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(models.RoleOwner))
			r.Post("/", act(s, http.StatusCreated, "office created", "oficina", func(r *http.Request) (*models.Office, error) {
				return created[schema.CreateOffice](r, create)
			}))
			r.Put("/{id}", act(s, http.StatusOK, "office updated", "oficina", func(r *http.Request) (*models.Office, error) {
				return patched[schema.UpdateOffice](r, update)
			}))
			r.Put("/{id}/asignar", act(s, http.StatusOK, "office assigned", "oficina",
				guarded(o.GetByID, owns, func(r *http.Request) (*models.Office, error) {
					id, err := pathID(r, "id")
					if err != nil {
						return nil, err
					}
					in, err := body[schema.AssignOffice](r)
					if err != nil {
						return nil, err
					}
					return o.Assign(r.Context(), id, in.EmpresaID)
				})))
			r.Put("/{id}/liberar", act(s, http.StatusOK, "office released", "oficina",
				guarded(o.GetByID, owns, byID(o.Release))))
		})

		s.activation(r, activator(o.SetActive), "oficina")
	})
}

func (s *Server) serviceRoutes(r chi.Router) {
	sv := s.repos.Services

	r.Route("/servicios", func(r chi.Router) {
		r.Get("/", read(s, listed(s, sv.List, nil)))
		r.Get("/activos", read(s, active(s, sv.Active)))
		r.Get("/edificio/{id}", read(s, byID(sv.ByBuilding)))
		r.Get("/categoria/{categoria}", read(s, func(r *http.Request) ([]*models.AddOnService, error) {
			c, err := pathEnum(r, "categoria", models.ServiceCategories)
			if err != nil {
				return nil, err
			}
			return sv.ByCategory(r.Context(), c)
		}))
		r.Get("/{id}", read(s, byID(sv.GetByID)))

		r.Group(func(r chi.Router) {
			r.Use(s.adminOnly)
			r.Post("/", act(s, http.StatusCreated, "service created", "servicio", func(r *http.Request) (*models.AddOnService, error) {
				return created[schema.CreateService](r, sv.Create)
			}))
			r.Put("/{id}", act(s, http.StatusOK, "service updated", "servicio", func(r *http.Request) (*models.AddOnService, error) {
				return patched[schema.UpdateService](r, sv.Update)
			}))
		})

		s.activation(r, activator(sv.SetActive), "servicio")
	})
}

func (s *Server) membershipRoutes(r chi.Router) {
	m := s.repos.Memberships

	r.Route("/membresias", func(r chi.Router) {
		r.Get("/", read(s, listed(s, m.List, nil)))
		r.Get("/activas", read(s, active(s, m.Active)))
		r.Get("/tipo/{tipo}", read(s, func(r *http.Request) ([]*models.Membership, error) {
			tipo, err := pathEnum(r, "tipo", models.MembershipTypes)
			if err != nil {
				return nil, err
			}
			return m.ByType(r.Context(), tipo)
		}))
		r.Get("/{id}", read(s, byID(m.GetByID)))
		r.With(s.adminOnly).Get("/{id}/usuarios", read(s, byID(m.Users)))

		r.Post("/{id}/suscribir", act(s, http.StatusOK, "subscribed", "usuario", func(r *http.Request) (*models.User, error) {
			id, err := pathID(r, "id")
			if err != nil {
				return nil, err
			}
			in, err := body[schema.Subscribe](r)
			if err != nil {
				return nil, err
			}
			if err := asCaller(r.Context(), &in.UsuarioID); err != nil {
				return nil, err
			}
			return m.Subscribe(r.Context(), repo.Subscription{
				UsuarioID:            in.UsuarioID,
				MembresiaID:          id,
				FechaInicio:          in.FechaInicio,
				RenovacionAutomatica: in.RenovacionAutomatica,
			})
		}))
		r.Post("/cancelar", act(s, http.StatusOK, "membership cancelled", "usuario", func(r *http.Request) (*models.User, error) {
			in, err := body[schema.CancelMembership](r)
			if err != nil {
				return nil, err
			}
			if err := self(r.Context(), in.UsuarioID); err != nil {
				return nil, err
			}
			return m.Cancel(r.Context(), in.UsuarioID, in.Motivo)
		}))

		r.Group(func(r chi.Router) {
			r.Use(s.adminOnly)
			r.Post("/", act(s, http.StatusCreated, "membership created", "membresia", func(r *http.Request) (*models.Membership, error) {
				return created[schema.CreateMembership](r, m.Create)
			}))
			r.Put("/{id}", act(s, http.StatusOK, "membership updated", "membresia", func(r *http.Request) (*models.Membership, error) {
				return patched[schema.UpdateMembership](r, m.Update)
			}))
		})

		s.activation(r, activator(m.SetActive), "membresia")
	})
}

func (s *Server) promotionRoutes(r chi.Router) {
	p := s.repos.Promotions

	r.Route("/promociones", func(r chi.Router) {
		r.Get("/", read(s, listed(s, p.List, nil)))
		r.Get("/activas", read(s, active(s, p.Active)))
		r.Get("/codigo/{codigo}", read(s, func(r *http.Request) (*models.Promotion, error) {
			return p.ByCode(r.Context(), urlParam(r, "codigo"))
		}))
		r.Get("/{id}", read(s, byID(p.GetByID)))
		r.Post("/validar", read(s, func(r *http.Request) (repo.Validation, error) {
			in, err := body[schema.ValidatePromotion](r)
			if err != nil {
				return repo.Validation{}, err
			}
			return p.Validate(r.Context(), in.Codigo, in.Monto, in.AplicaA)
		}))

		r.Group(func(r chi.Router) {
			r.Use(s.adminOnly)
			r.Post("/", act(s, http.StatusCreated, "promotion created", "promocion", func(r *http.Request) (*models.Promotion, error) {
				return created[schema.CreatePromotion](r, p.Create)
			}))
			r.Put("/{id}", act(s, http.StatusOK, "promotion updated", "promocion", func(r *http.Request) (*models.Promotion, error) {
				return patched[schema.UpdatePromotion](r, p.Update)
			}))
			r.Post("/{id}/canjear", act(s, http.StatusOK, "promotion redeemed", "promocion", byID(p.Redeem)))
		})

		s.activation(r, activator(p.SetActive), "promocion")
	})
}
