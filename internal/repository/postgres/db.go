package postgres

import (
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/lennonalatorre/claimflow/internal/config"
)

// Connections are recycled so a failed-over Postgres doesn't leave the
// pool holding dead sockets.
const connMaxLifetime = 30 * time.Minute

// NewDB opens the claimflow Postgres pool through the pgx stdlib driver
// and verifies connectivity before returning it.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(connMaxLifetime)
	return db, nil
}
