// Package store opens the bun database and owns the schema.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goliatone/go-coworking/internal/models"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config selects and locates the database.
type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
}

// Open connects to the configured database and returns a bun handle.
func Open(ctx context.Context, cfg Config) (*bun.DB, error) {
	sqldb, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	var db *bun.DB
	switch cfg.Driver {
	case DriverSQLite:
		// a single connection keeps in-memory databases shared and serializes writers
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case DriverPostgres:
		if cfg.MaxOpenConns > 0 {
			sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		_ = sqldb.Close()
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	return db, nil
}

type index struct {
	model   any
	name    string
	columns []string
}

// lookupIndexes back the foreign-key and classifying-field queries.
var lookupIndexes = []index{
	{(*models.User)(nil), "idx_usuarios_rol", []string{"rol"}},
	{(*models.User)(nil), "idx_usuarios_membresia", []string{"membresia_id"}},
	{(*models.Building)(nil), "idx_edificios_propietario", []string{"propietario_id"}},
	{(*models.Space)(nil), "idx_espacios_edificio", []string{"edificio_id"}},
	{(*models.Office)(nil), "idx_oficinas_edificio", []string{"edificio_id"}},
	{(*models.Office)(nil), "idx_oficinas_estado", []string{"estado"}},
	{(*models.AddOnService)(nil), "idx_servicios_edificio", []string{"edificio_id"}},
	{(*models.Reservation)(nil), "idx_reservas_usuario", []string{"usuario_id"}},
	{(*models.Reservation)(nil), "idx_reservas_espacio_fecha", []string{"espacio_id", "fecha_inicio"}},
	{(*models.Reservation)(nil), "idx_reservas_estado", []string{"estado"}},
	{(*models.ServiceReservation)(nil), "idx_reservas_servicios_servicio", []string{"servicio_id"}},
	{(*models.ServiceReservation)(nil), "idx_reservas_servicios_reserva", []string{"reserva_id"}},
	{(*models.Payment)(nil), "idx_pagos_usuario", []string{"usuario_id"}},
	{(*models.Payment)(nil), "idx_pagos_reserva", []string{"reserva_id"}},
	{(*models.Payment)(nil), "idx_pagos_estado", []string{"estado"}},
	{(*models.Review)(nil), "idx_resenas_entidad", []string{"entidad_tipo", "entidad_id"}},
	{(*models.Review)(nil), "idx_resenas_estado", []string{"estado_moderacion"}},
	{(*models.Notification)(nil), "idx_notificaciones_usuario", []string{"usuario_id"}},
}

// Migrate creates every table and lookup index that does not exist yet.
func Migrate(ctx context.Context, db bun.IDB) error {
	for _, model := range models.All() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	for _, idx := range lookupIndexes {
		if _, err := db.NewCreateIndex().Model(idx.model).Index(idx.name).Column(idx.columns...).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}

// IsNotFound reports whether err means the queried row does not exist.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, sql.ErrNoRows) ||
		goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) ||
		goerrors.IsNotFound(err)
}

// IsUniqueViolation reports whether err is a unique constraint failure. Errors
// already mapped by the repository layer are matched by category; raw driver
// errors from direct bun queries go through the same driver mappers first.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if repository.IsDuplicatedKey(err) {
		return true
	}
	for _, mapped := range []error{repository.MapSQLiteErrors(err), repository.MapPostgresErrors(err)} {
		if mapped != nil && repository.IsDuplicatedKey(mapped) {
			return true
		}
	}
	return false
}
