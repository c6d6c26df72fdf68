package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-coworking/internal/models"
	"github.com/google/uuid"
)

func TestLoadFixtureJSON(t *testing.T) {
	path := WriteFile(t, "edificio.json", []byte(`{"nombre":"Torre Norte","ciudad":"Madrid","amenidades":["wifi","cafe"]}`))

	var b models.Building
	LoadFixtureJSON(t, path, &b)

	if b.Nombre != "Torre Norte" {
		t.Errorf("expected nombre Torre Norte, got %q", b.Nombre)
	}
	if len(b.Amenidades) != 2 || b.Amenidades[1] != "cafe" {
		t.Errorf("unexpected amenidades %v", b.Amenidades)
	}
}

func TestCompareWithGolden_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden", "keys.golden")

	CompareWithGolden(t, path, []byte("espacios:activos:skip=0:limit=20\n"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("golden file not created: %v", err)
	}
	if string(data) != "espacios:activos:skip=0:limit=20\n" {
		t.Errorf("unexpected golden content %q", data)
	}

	// second run compares against the stored file
	CompareWithGolden(t, path, data)
}

func TestPaths(t *testing.T) {
	if got := FixturePath("edificio.json"); got != filepath.Join("testdata", "edificio.json") {
		t.Errorf("FixturePath = %q", got)
	}
	if got := GoldenPath("keys.golden"); got != filepath.Join("testdata", "golden", "keys.golden") {
		t.Errorf("GoldenPath = %q", got)
	}
}

func TestNewTestDB_CreatesSchema(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	b := &models.Building{ID: uuid.New(), Nombre: "Torre Norte", Ciudad: "Madrid", Amenidades: []string{}}
	if _, err := db.NewInsert().Model(b).Exec(ctx); err != nil {
		t.Fatalf("insert building: %v", err)
	}

	count, err := db.NewSelect().Model((*models.Building)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("count buildings: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 building, got %d", count)
	}
}

func TestNewTestDB_IsolatedPerCall(t *testing.T) {
	ctx := context.Background()
	first := NewTestDB(t)
	second := NewTestDB(t)

	b := &models.Building{ID: uuid.New(), Nombre: "Torre Sur", Amenidades: []string{}}
	if _, err := first.NewInsert().Model(b).Exec(ctx); err != nil {
		t.Fatalf("insert building: %v", err)
	}

	count, err := second.NewSelect().Model((*models.Building)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("count buildings: %v", err)
	}
	if count != 0 {
		t.Errorf("expected an empty second database, got %d rows", count)
	}
}

func TestClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	c := NewClock(start)

	c.Advance(90 * time.Minute)
	if want := start.Add(90 * time.Minute); !c.Now().Equal(want) {
		t.Errorf("Now() = %v, want %v", c.Now(), want)
	}

	c.Set(start)
	if !c.Now().Equal(start) {
		t.Errorf("Now() = %v after Set, want %v", c.Now(), start)
	}
}
