package repo

import (
	"context"
	"time"

	"github.com/goliatone/go-coworking/cache"
	"github.com/goliatone/go-coworking/internal/models"
	"github.com/goliatone/go-coworking/repositorycache"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// NotificationFilter narrows a notification listing.
type NotificationFilter struct {
	UsuarioID uuid.UUID               `json:"usuarioId,omitempty"`
	Tipo      models.NotificationType `json:"tipo,omitempty"`
	Leida     *bool                   `json:"leida,omitempty"`
}

func (f NotificationFilter) criteria() []repository.SelectCriteria {
	var c []repository.SelectCriteria
	if f.UsuarioID != uuid.Nil {
		c = append(c, repositorycache.Where("usuario_id", f.UsuarioID))
	}
	if f.Tipo != "" {
		c = append(c, repositorycache.Where("tipo", f.Tipo))
	}
	if f.Leida != nil {
		c = append(c, repositorycache.Where("leida", *f.Leida))
	}
	return c
}

// NotificationRepository stores in-app notifications (notificaciones).
type NotificationRepository struct {
	*repositorycache.Repository[*models.Notification]
	now func() time.Time
}

// NewNotificationRepository builds the notification repository.
func NewNotificationRepository(d Deps) *NotificationRepository {
	keys := cache.NewKeys("notificaciones")
	return &NotificationRepository{
		Repository: newEngine[models.Notification](d, repositorycache.Options[*models.Notification]{
			Namespace: keys.Entity(),
			Axes: []repositorycache.Axis[*models.Notification]{
				func(n *models.Notification) []string {
					return []string{
						parent(keys, "usuarios", n.UsuarioID),
						keys.ByField("no_leidas", models.OptionalID(n.UsuarioID)),
						keys.ByField("tipo", string(n.Tipo)),
					}
				},
			},
		}),
		now: d.now,
	}
}

// Create stores an unread notification.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	n.Leida = false
	n.FechaLectura = nil
	return r.Repository.Create(ctx, n)
}

// List returns one page of notifications matching f.
func (r *NotificationRepository) List(ctx context.Context, f NotificationFilter, skip, limit int) ([]*models.Notification, error) {
	return r.Repository.List(ctx, f, skip, limit, f.criteria()...)
}

// ByUser lists a user's notifications, newest first.
func (r *NotificationRepository) ByUser(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	return r.Find(ctx, r.Keys().ByParent("usuarios", userID.String()),
		repositorycache.Where("usuario_id", userID),
		repositorycache.OrderBy("fecha_creacion", true),
	)
}

// Unread lists a user's unread notifications, newest first.
func (r *NotificationRepository) Unread(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	return r.Find(ctx, r.Keys().ByField("no_leidas", userID.String()),
		repositorycache.Where("usuario_id", userID),
		repositorycache.Where("leida", false),
		repositorycache.OrderBy("fecha_creacion", true),
	)
}

// ByType lists notifications of a type.
func (r *NotificationRepository) ByType(ctx context.Context, tipo models.NotificationType) ([]*models.Notification, error) {
	return r.Find(ctx, r.Keys().ByField("tipo", string(tipo)),
		repositorycache.Where("tipo", tipo),
		repositorycache.OrderBy("fecha_creacion", true),
	)
}

// MarkRead marks a notification read. Marking a read notification again
// keeps its original read time.
func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	return r.Repository.Update(ctx, id, func(n *models.Notification) error {
		if n.Leida {
			return nil
		}
		at := r.now()
		n.Leida = true
		n.FechaLectura = &at
		return nil
	})
}

// MarkAllRead marks every unread notification of a user read and returns how
// many were changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	unread, err := r.Query(ctx,
		repositorycache.Where("usuario_id", userID),
		repositorycache.Where("leida", false),
	)
	if err != nil {
		return 0, err
	}
	for i, n := range unread {
		if _, err := r.MarkRead(ctx, n.ID); err != nil {
			return i, err
		}
	}
	return len(unread), nil
}
