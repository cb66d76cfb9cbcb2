package db

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"eduplatform/internal/config"
)

// ConnectDB opens the Postgres connection. The default driver is bun's
// pgdriver; "postgres" selects lib/pq for environments that need it.
func ConnectDB(cfg *config.DBConfig) (*sql.DB, error) {
	dsn := cfg.URL + "?sslmode=disable"
	if cfg.Driver == "postgres" {
		return sql.Open("postgres", dsn)
	}
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(cfg.Password))), nil
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}
