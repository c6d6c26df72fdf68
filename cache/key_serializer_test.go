package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

type spaceFilter struct {
	Tipo      string     `json:"tipo,omitempty"`
	Edificio  *uuid.UUID `json:"edificioId,omitempty"`
	Activo    *bool      `json:"activo,omitempty"`
	PrecioMax *float64   `json:"precioMax,omitempty"`
	Capacidad int        `json:"capacidad,omitempty"`
	Desde     time.Time  `json:"desde,omitempty"`
	Ignored   string     `json:"-"`
	internal  string
	NoTag     string
}

func ptr[T any](v T) *T { return &v }

func TestSerializeFilters(t *testing.T) {
	id := uuid.MustParse("6f1c2a8e-3b7d-4c1e-9a5f-0d2b8e4c7a11")
	madrid := time.FixedZone("CET", 3600)

	tests := []struct {
		name    string
		filters any
		want    string
	}{
		{name: "nil", filters: nil, want: "{}"},
		{name: "nil pointer", filters: (*spaceFilter)(nil), want: "{}"},
		{name: "empty struct", filters: spaceFilter{}, want: "{}"},
		{name: "unsupported kind", filters: 42, want: "{}"},
		{
			name:    "zero values omitted",
			filters: spaceFilter{Tipo: "escritorio", Ignored: "x", internal: "y"},
			want:    `{"tipo":"escritorio"}`,
		},
		{
			name:    "explicit false survives",
			filters: spaceFilter{Activo: ptr(false)},
			want:    `{"activo":false}`,
		},
		{
			name:    "explicit zero survives",
			filters: &spaceFilter{PrecioMax: ptr(0.0)},
			want:    `{"precioMax":0}`,
		},
		{
			name:    "keys sorted",
			filters: spaceFilter{Tipo: "sala", Capacidad: 8, Activo: ptr(true), NoTag: "n"},
			want:    `{"NoTag":"n","activo":true,"capacidad":8,"tipo":"sala"}`,
		},
		{
			name:    "uuid quoted",
			filters: spaceFilter{Edificio: &id},
			want:    `{"edificioId":"6f1c2a8e-3b7d-4c1e-9a5f-0d2b8e4c7a11"}`,
		},
		{
			name:    "time in utc",
			filters: spaceFilter{Desde: time.Date(2024, 3, 1, 10, 0, 0, 0, madrid)},
			want:    `{"desde":"2024-03-01T09:00:00Z"}`,
		},
		{
			name:    "map keys sorted",
			filters: map[string]any{"ciudad": "Madrid", "activo": true, "vacio": ""},
			want:    `{"activo":true,"ciudad":"Madrid"}`,
		},
		{
			name:    "slices kept in order",
			filters: map[string]any{"amenidades": []string{"wifi", "cafe"}},
			want:    `{"amenidades":["wifi","cafe"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SerializeFilters(tt.filters); got != tt.want {
				t.Errorf("SerializeFilters() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSerializeFilters_OrderIndependent(t *testing.T) {
	a := map[string]any{"tipo": "sala", "capacidad": 4, "ciudad": "Sevilla"}
	b := map[string]any{"ciudad": "Sevilla", "tipo": "sala", "capacidad": 4}

	for i := 0; i < 20; i++ {
		if SerializeFilters(a) != SerializeFilters(b) {
			t.Fatalf("equal filter sets serialized differently: %s vs %s", SerializeFilters(a), SerializeFilters(b))
		}
	}
}

func TestSerializeFilters_Distinguishes(t *testing.T) {
	pairs := [][2]any{
		{spaceFilter{Activo: ptr(true)}, spaceFilter{Activo: ptr(false)}},
		{spaceFilter{}, spaceFilter{Activo: ptr(false)}},
		{spaceFilter{Tipo: "sala"}, spaceFilter{Tipo: "escritorio"}},
	}
	for _, p := range pairs {
		if SerializeFilters(p[0]) == SerializeFilters(p[1]) {
			t.Errorf("different filters share a key: %s", SerializeFilters(p[0]))
		}
	}
}
