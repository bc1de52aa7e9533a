package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/goliatone/go-cms-content/internal/contacts"
	"github.com/goliatone/go-cms-content/internal/persister"
	"github.com/goliatone/go-cms-content/internal/routes"
	"github.com/goliatone/go-cms-content/internal/runtimeconfig"
	"github.com/goliatone/go-cms-content/internal/taxonomy"
)

var (
	ErrDriverUnsupported = errors.New("storage: driver is not supported")
	ErrDSNRequired       = errors.New("storage: dsn is required")
)

// Open connects to the configured SQL database and returns a bun handle.
func Open(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, ErrDSNRequired
	}

	var db *bun.DB
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case runtimeconfig.StorageSQLite:
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		// in-memory databases are per connection
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case runtimeconfig.StoragePostgres:
		sqldb, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, fmt.Errorf("%w: %s", ErrDriverUnsupported, cfg.Driver)
	}

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db, nil
}

// Models lists the tables owned by the module.
func Models() []any {
	return []any{
		(*routes.Route)(nil),
		(*taxonomy.Tag)(nil),
		(*taxonomy.Category)(nil),
		(*contacts.Contact)(nil),
		(*persister.EntityRecord)(nil),
	}
}

type index struct {
	model   any
	name    string
	columns []string
	unique  bool
}

var indexes = []index{
	{model: (*routes.Route)(nil), name: "routes_path_locale_idx", columns: []string{"path", "locale"}, unique: true},
	{model: (*routes.Route)(nil), name: "routes_resource_idx", columns: []string{"resource_key", "resource_id", "locale"}},
	{model: (*routes.Route)(nil), name: "routes_target_idx", columns: []string{"target_id"}},
	{model: (*taxonomy.Tag)(nil), name: "tags_name_idx", columns: []string{"name"}, unique: true},
	{model: (*taxonomy.Category)(nil), name: "categories_key_idx", columns: []string{"key"}, unique: true},
}

// CreateSchema creates the module tables and indexes when missing.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errors.New("storage: database not configured")
	}
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table for %T: %w", model, err)
		}
	}
	for _, idx := range indexes {
		query := db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column(idx.columns...).
			IfNotExists()
		if idx.unique {
			query = query.Unique()
		}
		if _, err := query.Exec(ctx); err != nil {
			return fmt.Errorf("storage: create index %s: %w", idx.name, err)
		}
	}
	return nil
}
