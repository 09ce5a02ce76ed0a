package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

const pingTimeout = 5 * time.Second

// NewDB creates a new MySQL database connection pool with the given DSN and
// checks that the server is reachable.
func NewDB(ctx context.Context, dsn string) (*sql.DB, error) {
	dsn, err := withParseTime(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// withParseTime rewrites dsn so DATETIME columns scan into time.Time.
// A DATABASE_DSN supplied without parseTime=true would otherwise fail every
// users query.
func withParseTime(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parsing database DSN: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}
