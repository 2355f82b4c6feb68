package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// ConnectDB opens and pings the MySQL pool described by cfg. The DSN is
// forced to parse DATETIME columns into time.Time and to report matched
// rows from UPDATE.
func ConnectDB(ctx context.Context, cfg DBConfig) (*sql.DB, error) {
	dsnCfg, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse db dsn: %w", err)
	}
	dsnCfg.ParseTime = true
	// RowsAffected reports matched rows, not changed ones
	dsnCfg.ClientFoundRows = true
	if dsnCfg.Loc == nil {
		dsnCfg.Loc = time.UTC
	}
	if dsnCfg.Timeout == 0 {
		dsnCfg.Timeout = 5 * time.Second
	}

	connector, err := mysql.NewConnector(dsnCfg)
	if err != nil {
		return nil, fmt.Errorf("db connector: %w", err)
	}
	db := sql.OpenDB(connector)

	maxConns := cfg.MaxOpenConns
	if maxConns <= 0 {
		maxConns = 25
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}
