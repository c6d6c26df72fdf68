package cache_test

import (
	"testing"

	"github.com/goliatone/go-coworking/cache"
	"github.com/goliatone/go-coworking/pkg/testsupport"
	"github.com/google/uuid"
)

type spaceFilter struct {
	EdificioID uuid.UUID `json:"edificioId,omitempty"`
	Tipo       string    `json:"tipo,omitempty"`
	Activo     *bool     `json:"activo,omitempty"`
	Piso       int       `json:"piso,omitempty"`
}

type derivedKey struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// The key layout is shared with every running instance through redis, so a
// change to it must show up as a diff of the golden file.
func TestKeys_Golden(t *testing.T) {
	id := uuid.MustParse("0b0c5f5e-2f0a-4a7c-9a57-0d3c1f6f1a11")
	inactive := false
	spaces := cache.NewKeys("espacios")
	reservations := cache.NewKeys("reservas")

	keys := []derivedKey{
		{"by id", spaces.ByID(id.String())},
		{"list", spaces.List(spaceFilter{EdificioID: id, Tipo: "sala_reuniones", Activo: &inactive}, 20, 10)},
		{"list without filters", spaces.List(nil, 0, 20)},
		{"list family", spaces.ListFamily()},
		{"active", spaces.Active(0, 20)},
		{"active family", spaces.ActiveFamily()},
		{"by parent", spaces.ByParent("edificios", id.String())},
		{"by field", spaces.ByField("tipo", "sala_reuniones")},
		{"by range", reservations.ByRange("fecha", "2024-05-01T00:00:00Z", "2024-05-31T23:59:59Z")},
		{"range family", reservations.RangeFamily("fecha")},
	}

	testsupport.CompareJSONWithGolden(t, testsupport.GoldenPath("keys.json"), keys)
}
