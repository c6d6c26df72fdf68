package di

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-coworking/internal/models"
	"github.com/goliatone/go-coworking/internal/repo"
	"github.com/goliatone/go-coworking/pkg/testsupport"
	"github.com/google/uuid"
)

func seedBuildings(tb testing.TB, repos *repo.Repositories, n int) []uuid.UUID {
	tb.Helper()
	ids := make([]uuid.UUID, n)
	for i := 0; i < n; i++ {
		b, err := repos.Buildings.Create(context.Background(), &models.Building{
			Nombre:    fmt.Sprintf("Edificio %d", i),
			Direccion: fmt.Sprintf("Calle %d", i),
			Ciudad:    []string{"Madrid", "Sevilla", "Valencia"}[i%3],
			Pais:      "España",
		})
		if err != nil {
			tb.Fatalf("seed building %d: %v", i, err)
		}
		ids[i] = b.ID
	}
	return ids
}

func TestConcurrentAccess(t *testing.T) {
	c := newTestContainer(t)
	repos := c.Repositories()
	ids := seedBuildings(t, repos, 50)

	ctx := context.Background()
	const workers = 20
	const opsPerWorker = 25

	var wg sync.WaitGroup
	errs := make(chan error, workers*opsPerWorker)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < opsPerWorker; j++ {
				id := ids[(worker*opsPerWorker+j)%len(ids)]

				if _, err := repos.Buildings.GetByID(ctx, id); err != nil {
					errs <- fmt.Errorf("worker %d op %d GetByID: %w", worker, j, err)
					continue
				}
				if j%5 == 0 {
					if _, err := repos.Buildings.ByCity(ctx, "madrid"); err != nil {
						errs <- fmt.Errorf("worker %d op %d ByCity: %w", worker, j, err)
					}
				}
				if j%10 == 0 {
					if _, err := repos.Buildings.Active(ctx, 0, 20); err != nil {
						errs <- fmt.Errorf("worker %d op %d Active: %w", worker, j, err)
					}
				}
			}
		}(w)
	}

	wg.Wait()
	close(errs)

	count := 0
	for err := range errs {
		t.Error(err)
		if count++; count > 10 {
			t.Error("... and more errors")
			break
		}
	}
}

func TestConcurrentReadWrite(t *testing.T) {
	c := newTestContainer(t)
	repos := c.Repositories()
	ids := seedBuildings(t, repos, 10)
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := 0; w < 5; w++ {
		wg.Add(2)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := repos.Buildings.GetByID(ctx, ids[(worker+j)%len(ids)]); err != nil {
					t.Errorf("GetByID: %v", err)
					return
				}
			}
		}(w)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				amenity := fmt.Sprintf("amenidad-%d-%d", worker, j)
				if _, err := repos.Buildings.AddAmenity(ctx, ids[worker], amenity); err != nil {
					t.Errorf("AddAmenity: %v", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	// every write invalidated the by-id key, so reads see the final state
	for w := 0; w < 5; w++ {
		b, err := repos.Buildings.GetByID(ctx, ids[w])
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if len(b.Amenidades) != 5 {
			t.Errorf("building %d has %d amenities, want 5", w, len(b.Amenidades))
		}
	}
}

func TestTTLExpiryIntegration(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.TTL = 50 * time.Millisecond

	db := testsupport.NewTestDB(t)
	c, err := NewContainer(context.Background(), cfg, nil, WithDB(db))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	t.Cleanup(c.Close)

	ctx := context.Background()
	ids := seedBuildings(t, c.Repositories(), 1)
	if _, err := c.Repositories().Buildings.GetByID(ctx, ids[0]); err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	// change the row behind the cache; the stale entry is served until it expires
	if _, err := db.NewUpdate().Model((*models.Building)(nil)).
		Set("nombre = ?", "Renombrado").
		Where("id = ?", ids[0]).
		Exec(ctx); err != nil {
		t.Fatalf("direct update: %v", err)
	}

	stale, _ := c.Repositories().Buildings.GetByID(ctx, ids[0])
	if stale.Nombre == "Renombrado" {
		t.Fatal("expected the cached record before expiry")
	}

	time.Sleep(80 * time.Millisecond)

	fresh, err := c.Repositories().Buildings.GetByID(ctx, ids[0])
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fresh.Nombre != "Renombrado" {
		t.Errorf("expected the store value after expiry, got %q", fresh.Nombre)
	}
}

func BenchmarkGetByID_Cached(b *testing.B) {
	c := newBenchContainer(b)
	ids := seedBuildings(b, c.Repositories(), 100)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Repositories().Buildings.GetByID(ctx, ids[i%len(ids)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGetByID_Store(b *testing.B) {
	c := newBenchContainer(b)
	ids := seedBuildings(b, c.Repositories(), 100)
	ctx := context.Background()
	buildings := c.Repositories().Buildings

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := ids[i%len(ids)]
		buildings.Invalidate(ctx, buildings.Keys().ByID(id.String()))
		if _, err := buildings.GetByID(ctx, id); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkConcurrentCacheAccess(b *testing.B) {
	c := newBenchContainer(b)
	ids := seedBuildings(b, c.Repositories(), 100)
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if _, err := c.Repositories().Buildings.GetByID(ctx, ids[i%len(ids)]); err != nil {
				b.Error(err)
				return
			}
			i++
		}
	})
}

func newBenchContainer(b *testing.B) *Container {
	b.Helper()
	c, err := NewContainer(context.Background(), testConfig(), nil, WithDB(testsupport.NewTestDB(b)))
	if err != nil {
		b.Fatalf("NewContainer() failed: %v", err)
	}
	b.Cleanup(c.Close)
	return c
}
