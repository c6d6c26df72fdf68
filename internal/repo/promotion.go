package repo

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/goliatone/go-coworking/cache"
	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/goliatone/go-coworking/repositorycache"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// PromotionFilter narrows a promotion listing.
type PromotionFilter struct {
	AplicaA       models.PromotionScope `json:"aplicaA,omitempty"`
	TipoDescuento models.DiscountType   `json:"tipoDescuento,omitempty"`
	Activo        *bool                 `json:"activo,omitempty"`
}

func (f PromotionFilter) criteria() []repository.SelectCriteria {
	var c []repository.SelectCriteria
	if f.AplicaA != "" {
		c = append(c, repositorycache.Where("aplica_a", f.AplicaA))
	}
	if f.TipoDescuento != "" {
		c = append(c, repositorycache.Where("tipo_descuento", f.TipoDescuento))
	}
	if f.Activo != nil {
		c = append(c, repositorycache.Where("activo", *f.Activo))
	}
	return c
}

// Validation is the outcome of checking a promotion code against an amount.
type Validation struct {
	Valida     bool              `json:"valida"`
	Motivo     string            `json:"motivo,omitempty"`
	Descuento  float64           `json:"descuento"`
	MontoFinal float64           `json:"montoFinal"`
	Promocion  *models.Promotion `json:"promocion,omitempty"`
}

// PromotionRepository stores discount codes (promociones).
type PromotionRepository struct {
	*repositorycache.Repository[*models.Promotion]
	now func() time.Time
}

// NewPromotionRepository builds the promotion repository.
func NewPromotionRepository(d Deps) *PromotionRepository {
	keys := cache.NewKeys("promociones")
	return &PromotionRepository{
		Repository: newEngine[models.Promotion](d, repositorycache.Options[*models.Promotion]{
			Namespace: keys.Entity(),
			Axes: []repositorycache.Axis[*models.Promotion]{
				func(p *models.Promotion) []string {
					return []string{
						keys.ByField("codigo", NormalizeCode(p.Codigo)),
						keys.ByField("aplica", string(p.AplicaA)),
					}
				},
			},
		}),
		now: d.now,
	}
}

// NormalizeCode is the canonical form of a promotion code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Create stores a new, active promotion. A duplicate code is a conflict and
// leaves the existing promotion and its cache entries untouched.
func (r *PromotionRepository) Create(ctx context.Context, p *models.Promotion) (*models.Promotion, error) {
	p.Codigo = NormalizeCode(p.Codigo)
	if err := r.ensureUniqueCode(ctx, p.Codigo, uuid.Nil); err != nil {
		return nil, err
	}
	p.UsosActuales = 0
	p.Activo = true
	p.FechaInicio = p.FechaInicio.UTC()
	p.FechaFin = p.FechaFin.UTC()

	created, err := r.Repository.Create(ctx, p)
	if apperr.Is(err, apperr.KindConflict) {
		return nil, duplicateCode(p.Codigo)
	}
	return created, err
}

// Update applies a partial change, re-checking code uniqueness and the
// validity window.
func (r *PromotionRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*models.Promotion) error) (*models.Promotion, error) {
	updated, err := r.Repository.Update(ctx, id, func(p *models.Promotion) error {
		before := p.Codigo
		if err := mutate(p); err != nil {
			return err
		}
		p.Codigo = NormalizeCode(p.Codigo)
		if p.Codigo != before {
			if err := r.ensureUniqueCode(ctx, p.Codigo, id); err != nil {
				return err
			}
		}
		if !p.FechaFin.After(p.FechaInicio) {
			return apperr.Validation("fechaFin", "fechaFin must be after fechaInicio")
		}
		return nil
	})
	if apperr.Is(err, apperr.KindConflict) && apperr.Field(err) == "" {
		return nil, duplicateCode("")
	}
	return updated, err
}

// List returns one page of promotions matching f.
func (r *PromotionRepository) List(ctx context.Context, f PromotionFilter, skip, limit int) ([]*models.Promotion, error) {
	return r.Repository.List(ctx, f, skip, limit, f.criteria()...)
}

// ByCode reads a promotion by its code, case-insensitively.
func (r *PromotionRepository) ByCode(ctx context.Context, code string) (*models.Promotion, error) {
	code = NormalizeCode(code)
	return r.FindOne(ctx, r.Keys().ByField("codigo", code), repositorycache.Where("codigo", code))
}

// ByScope lists active promotions applying to scope.
func (r *PromotionRepository) ByScope(ctx context.Context, scope models.PromotionScope) ([]*models.Promotion, error) {
	return r.Find(ctx, r.Keys().ByField("aplica", string(scope)),
		repositorycache.Where("aplica_a", scope),
		repositorycache.Where("activo", true),
	)
}

// Validate checks whether code can be used now for amount and computes the
// discount. An unknown code is not found; an unusable one is reported in the
// result, not as an error.
func (r *PromotionRepository) Validate(ctx context.Context, code string, amount float64, scope models.PromotionScope) (Validation, error) {
	p, err := r.ByCode(ctx, code)
	if err != nil {
		return Validation{}, err
	}

	result := Validation{Promocion: p, MontoFinal: amount}
	switch {
	case !p.Usable(r.now()):
		result.Motivo = "promotion is not active, outside its validity window or exhausted"
	case scope != "" && p.AplicaA != models.ScopeAll && p.AplicaA != scope:
		result.Motivo = "promotion does not apply to " + string(scope)
	case amount < p.MontoMinimo:
		result.Motivo = "amount is below the promotion minimum"
	default:
		result.Valida = true
		result.Descuento = p.Discount(amount)
		result.MontoFinal = math.Round((amount-result.Descuento)*100) / 100
	}
	return result, nil
}

// Redeem counts one use of a usable promotion.
func (r *PromotionRepository) Redeem(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	return r.Repository.Update(ctx, id, func(p *models.Promotion) error {
		if !p.Usable(r.now()) {
			return apperr.InvalidState("promotion " + p.Codigo + " is not usable")
		}
		p.UsosActuales++
		return nil
	})
}

// SetActive activates or soft-deletes a promotion.
func (r *PromotionRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Promotion, error) {
	return setActive(ctx, r.Repository, id, active)
}

// ensureUniqueCode reads the store directly so a stale cache entry cannot
// hide a duplicate.
func (r *PromotionRepository) ensureUniqueCode(ctx context.Context, code string, self uuid.UUID) error {
	existing, err := r.Query(ctx, repositorycache.Where("codigo", code), repositorycache.Limit(1))
	if err != nil {
		return err
	}
	if len(existing) > 0 && existing[0].ID != self {
		return duplicateCode(code)
	}
	return nil
}

func duplicateCode(code string) error {
	msg := "promotion code already exists"
	if code != "" {
		msg = "promotion code " + code + " already exists"
	}
	return apperr.Conflict("codigo", msg)
}
