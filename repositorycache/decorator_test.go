package repositorycache

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-coworking/cache"
	"github.com/goliatone/go-coworking/internal/apperr"
	"github.com/goliatone/go-coworking/pkg/testsupport"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// desk is a minimal table used to exercise the engine without the domain models.
type desk struct {
	bun.BaseModel `bun:"table:test_desks"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Codigo    string    `bun:"codigo,unique,notnull" json:"codigo"`
	Zona      string    `bun:"zona" json:"zona"`
	Activo    bool      `bun:"activo,notnull" json:"activo"`
	CreatedAt time.Time `bun:"fecha_creacion,nullzero" json:"fechaCreacion"`
	UpdatedAt time.Time `bun:"fecha_actualizacion,nullzero" json:"fechaActualizacion"`
	Sede      string    `bun:"-" json:"sede,omitempty"`
}

func (d *desk) GetID() uuid.UUID   { return d.ID }
func (d *desk) SetID(id uuid.UUID) { d.ID = id }
func (d *desk) Touch(now time.Time) {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now.UTC()
	}
	d.UpdatedAt = now.UTC()
}

type fixture struct {
	db     *bun.DB
	source repository.Repository[*desk]
	cache  *cache.Cache
	repo   *Repository[*desk]
	keys   cache.Keys
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db := testsupport.NewTestDB(t)
	if _, err := db.NewCreateTable().Model((*desk)(nil)).IfNotExists().Exec(ctx); err != nil {
		t.Fatalf("create desk table: %v", err)
	}

	source := repository.NewRepository[*desk](db, repository.ModelHandlers[*desk]{
		NewRecord:     func() *desk { return new(desk) },
		GetID:         func(d *desk) uuid.UUID { return d.ID },
		SetID:         func(d *desk, id uuid.UUID) { d.ID = id },
		GetIdentifier: func() string { return "id" },
	})

	c := testsupport.NewTestCache(t)
	keys := cache.NewKeys("escritorios")
	r := New[*desk](source, db, c, Options[*desk]{
		Namespace: "escritorios",
		Axes: []Axis[*desk]{
			func(d *desk) []string { return []string{keys.ByField("zona", d.Zona)} },
		},
		Families: []string{keys.RangeFamily("fecha")},
	})

	return &fixture{db: db, source: source, cache: c, repo: r, keys: keys}
}

func (f *fixture) create(t *testing.T, codigo, zona string) *desk {
	t.Helper()
	d, err := f.repo.Create(context.Background(), &desk{Codigo: codigo, Zona: zona, Activo: true})
	if err != nil {
		t.Fatalf("Create(%s) error = %v", codigo, err)
	}
	return d
}

// rename writes behind the engine's back so a stale cache entry stays visible.
func (f *fixture) rename(t *testing.T, id uuid.UUID, zona string) {
	t.Helper()
	_, err := f.db.NewUpdate().Model((*desk)(nil)).
		Set("zona = ?", zona).
		Where("id = ?", id).
		Exec(context.Background())
	if err != nil {
		t.Fatalf("direct update: %v", err)
	}
}

func (f *fixture) byZona(t *testing.T, zona string) []*desk {
	t.Helper()
	got, err := f.repo.Find(context.Background(), f.keys.ByField("zona", zona), Where("zona", zona))
	if err != nil {
		t.Fatalf("Find(zona=%s) error = %v", zona, err)
	}
	return got
}

func TestNew_NormalizesNamespace(t *testing.T) {
	r := New[*desk](nil, nil, nil, Options[*desk]{Namespace: "ReservasServicios"})
	if got := r.Keys().Entity(); got != "reservas_servicios" {
		t.Errorf("Keys().Entity() = %q, want reservas_servicios", got)
	}
}

func TestGetByID_ServesFromCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, "A-01", "norte")

	first, err := f.repo.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if first.Codigo != "A-01" {
		t.Errorf("GetByID().Codigo = %q", first.Codigo)
	}

	f.rename(t, d.ID, "sur")

	cached, err := f.repo.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if cached.Zona != "norte" {
		t.Errorf("expected the cached zona norte, got %q", cached.Zona)
	}
}

func TestGetByID_NotFoundIsNotCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := uuid.New()

	_, err := f.repo.GetByID(ctx, id)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("GetByID() error = %v, want NotFound", err)
	}
	if err := f.repo.Exists(ctx, id); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Exists() error = %v, want NotFound", err)
	}

	if _, found, _ := f.cache.Store().Get(ctx, f.keys.ByID(id.String())); found {
		t.Error("a not-found result was cached")
	}
}

func TestCreate_InvalidatesListsAndAxes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list, err := f.repo.List(ctx, nil, 0, 20)
	if err != nil || len(list) != 0 {
		t.Fatalf("List() = %v, %v; want empty", list, err)
	}
	active, _ := f.repo.Active(ctx, 0, 20)
	if len(active) != 0 {
		t.Fatalf("Active() = %v, want empty", active)
	}
	if got := f.byZona(t, "norte"); len(got) != 0 {
		t.Fatalf("byZona = %v, want empty", got)
	}

	d := f.create(t, "A-01", "norte")
	if d.ID == uuid.Nil {
		t.Error("Create() did not assign an id")
	}
	if d.CreatedAt.IsZero() {
		t.Error("Create() did not stamp fecha_creacion")
	}

	list, _ = f.repo.List(ctx, nil, 0, 20)
	active, _ = f.repo.Active(ctx, 0, 20)
	zone := f.byZona(t, "norte")
	if len(list) != 1 || len(active) != 1 || len(zone) != 1 {
		t.Errorf("after create: list=%d active=%d zona=%d, want 1 each", len(list), len(active), len(zone))
	}
}

func TestCreate_UniqueViolationIsConflict(t *testing.T) {
	f := newFixture(t)
	f.create(t, "A-01", "norte")

	_, err := f.repo.Create(context.Background(), &desk{Codigo: "A-01", Zona: "sur"})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("Create() error = %v, want Conflict", err)
	}
}

func TestUpdate_MovesBetweenAxisKeys(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, "A-01", "norte")

	// warm both lookups and the by-id key
	if got := f.byZona(t, "norte"); len(got) != 1 {
		t.Fatalf("byZona(norte) = %d, want 1", len(got))
	}
	if got := f.byZona(t, "sur"); len(got) != 0 {
		t.Fatalf("byZona(sur) = %d, want 0", len(got))
	}
	_, _ = f.repo.GetByID(ctx, d.ID)

	updated, err := f.repo.Update(ctx, d.ID, func(d *desk) error {
		d.Zona = "sur"
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Zona != "sur" {
		t.Errorf("Update().Zona = %q, want sur", updated.Zona)
	}

	if got := f.byZona(t, "norte"); len(got) != 0 {
		t.Errorf("old axis key still lists the record: %d", len(got))
	}
	if got := f.byZona(t, "sur"); len(got) != 1 {
		t.Errorf("new axis key misses the record: %d", len(got))
	}
	got, _ := f.repo.GetByID(ctx, d.ID)
	if got.Zona != "sur" {
		t.Errorf("by-id key is stale: zona %q", got.Zona)
	}
}

func TestUpdate_PersistsFalse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, "A-01", "norte")

	if _, err := f.repo.Update(ctx, d.ID, func(d *desk) error {
		d.Activo = false
		return nil
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	var stored desk
	if err := f.db.NewSelect().Model(&stored).Where("id = ?", d.ID).Scan(ctx); err != nil {
		t.Fatalf("select: %v", err)
	}
	if stored.Activo {
		t.Error("activo=false was not written")
	}

	active, _ := f.repo.Active(ctx, 0, 20)
	if len(active) != 0 {
		t.Errorf("inactive record still in the active listing")
	}
}

func TestUpdate_RejectedMutationWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, "A-01", "norte")
	_ = f.byZona(t, "norte")

	reject := apperr.InvalidState("desk is locked")
	_, err := f.repo.Update(ctx, d.ID, func(d *desk) error {
		d.Zona = "sur"
		return reject
	})
	if !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("Update() error = %v, want InvalidState", err)
	}

	f.rename(t, d.ID, "este")
	// the axis entry was not invalidated, so the stale listing is still served
	got := f.byZona(t, "norte")
	if len(got) != 1 {
		t.Errorf("rejected update invalidated the cache")
	}
}

func TestUpdate_Missing(t *testing.T) {
	f := newFixture(t)
	called := false

	_, err := f.repo.Update(context.Background(), uuid.New(), func(*desk) error {
		called = true
		return nil
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Update() error = %v, want NotFound", err)
	}
	if called {
		t.Error("mutate ran for a missing record")
	}
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, "A-01", "norte")
	_, _ = f.repo.GetByID(ctx, d.ID)
	_ = f.byZona(t, "norte")

	removed, err := f.repo.Delete(ctx, d.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if removed.Codigo != "A-01" {
		t.Errorf("Delete() returned %q", removed.Codigo)
	}

	if _, err := f.repo.GetByID(ctx, d.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("GetByID() after delete error = %v, want NotFound", err)
	}
	if got := f.byZona(t, "norte"); len(got) != 0 {
		t.Errorf("deleted record still listed by zona")
	}

	if _, err := f.repo.Delete(ctx, d.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("second Delete() error = %v, want NotFound", err)
	}
}

func TestList_Pagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, code := range []string{"A-01", "A-02", "A-03"} {
		f.create(t, code, "norte")
		time.Sleep(2 * time.Millisecond)
	}

	first, _ := f.repo.List(ctx, nil, 0, 2)
	second, _ := f.repo.List(ctx, nil, 2, 2)
	if len(first) != 2 || len(second) != 1 {
		t.Fatalf("pages = %d,%d; want 2,1", len(first), len(second))
	}
	if first[0].Codigo != "A-01" || second[0].Codigo != "A-03" {
		t.Errorf("unexpected order: %s .. %s", first[0].Codigo, second[0].Codigo)
	}

	filtered, err := f.repo.List(ctx, map[string]any{"codigo": "A-02"}, 0, 20, Where("codigo", "A-02"))
	if err != nil || len(filtered) != 1 {
		t.Errorf("filtered List() = %v, %v", filtered, err)
	}
}

func TestFindOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, "A-01", "norte")

	got, err := f.repo.FindOne(ctx, f.keys.ByField("codigo", "A-01"), Where("codigo", "A-01"))
	if err != nil || got.Codigo != "A-01" {
		t.Errorf("FindOne() = %v, %v", got, err)
	}

	_, err = f.repo.FindOne(ctx, f.keys.ByField("codigo", "Z-99"), Where("codigo", "Z-99"))
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("FindOne() error = %v, want NotFound", err)
	}
}

func TestRemember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	calls := 0
	fetch := func(context.Context) (float64, error) {
		calls++
		return 4.5, nil
	}

	for i := 0; i < 2; i++ {
		got, err := Remember(ctx, f.repo, "escritorios:promedio:norte", fetch)
		if err != nil || got != 4.5 {
			t.Fatalf("Remember() = %v, %v", got, err)
		}
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}

	f.repo.Invalidate(ctx, "escritorios:promedio:norte")
	_, _ = Remember(ctx, f.repo, "escritorios:promedio:norte", fetch)
	if calls != 2 {
		t.Errorf("Invalidate() did not drop the remembered key")
	}
}

func TestWrite_DropsExtraFamilies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := f.keys.ByRange("fecha", "2024-01-01", "2024-01-31")
	if err := f.cache.Store().Set(ctx, key, []byte("[]"), time.Minute); err != nil {
		t.Fatalf("seed: %v", err)
	}

	f.create(t, "A-01", "norte")

	if _, found, _ := f.cache.Store().Get(ctx, key); found {
		t.Error("range family survived a create")
	}
}

type failingSource struct {
	Source[*desk]
	err error
}

func (s failingSource) List(context.Context, ...repository.SelectCriteria) ([]*desk, int, error) {
	return nil, 0, s.err
}

func (s failingSource) GetByID(context.Context, string, ...repository.SelectCriteria) (*desk, error) {
	return nil, s.err
}

func TestQuery_StoreFailureIsInfrastructure(t *testing.T) {
	boom := errors.New("disk I/O error")
	r := New[*desk](failingSource{err: boom}, nil, testsupport.NewTestCache(t), Options[*desk]{Namespace: "escritorios"})
	ctx := context.Background()

	if _, err := r.Query(ctx); !apperr.Is(err, apperr.KindInfrastructure) {
		t.Errorf("Query() error = %v, want Infrastructure", err)
	}
	if _, err := r.GetByID(ctx, uuid.New()); !apperr.Is(err, apperr.KindInfrastructure) {
		t.Errorf("GetByID() error = %v, want Infrastructure", err)
	}
}

func TestExpand_AttachesAfterEveryRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sede := "Torre Norte"
	r := New[*desk](f.source, f.db, f.cache, Options[*desk]{
		Namespace: "escritorios",
		Expand: func(_ context.Context, d *desk) error {
			d.Sede = sede
			return nil
		},
	})

	created, err := r.Create(ctx, &desk{Codigo: "A-01", Zona: "norte", Activo: true})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Sede != sede {
		t.Errorf("Create().Sede = %q, want %q", created.Sede, sede)
	}

	if _, err := r.GetByID(ctx, created.ID); err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	raw, found, err := f.cache.Store().Get(ctx, f.keys.ByID(created.ID.String()))
	if err != nil || !found {
		t.Fatalf("expected a cached entry, found=%v err=%v", found, err)
	}
	if data, _ := raw.([]byte); bytes.Contains(data, []byte("sede")) {
		t.Errorf("cached entry carries the expanded field: %s", data)
	}

	// the related value changes without any write to the desk
	sede = "Torre Sur"

	cached, err := r.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if cached.Sede != "Torre Sur" {
		t.Errorf("GetByID().Sede = %q, want the current value", cached.Sede)
	}

	list, err := r.Find(ctx, f.keys.ByField("zona", "norte"), Where("zona", "norte"))
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(list) != 1 || list[0].Sede != "Torre Sur" {
		t.Errorf("Find() = %+v, want one expanded desk", list)
	}
}

func TestExpand_ReadFailurePropagates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boom := errors.New("related store down")

	r := New[*desk](f.source, f.db, f.cache, Options[*desk]{
		Namespace: "escritorios",
		Expand:    func(context.Context, *desk) error { return boom },
	})

	created, err := r.Create(ctx, &desk{Codigo: "A-02", Zona: "sur", Activo: true})
	if err != nil {
		t.Fatalf("Create() error = %v, want the write to succeed", err)
	}

	if _, err := r.GetByID(ctx, created.ID); !errors.Is(err, boom) {
		t.Errorf("GetByID() error = %v, want %v", err, boom)
	}
	if _, err := r.Query(ctx, Where("zona", "sur")); !errors.Is(err, boom) {
		t.Errorf("Query() error = %v, want %v", err, boom)
	}
}
