// Package database opens the MySQL connection pool and applies schema
// migrations.
package database

import (
	"context"
	"database/sql"
	"net"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/library-service/internal/config"
)

// dsn assembles the MySQL connection string. parseTime maps DATETIME
// columns onto time.Time; pinning loc to UTC keeps checkout and due
// timestamps comparable regardless of the server's zone.
func dsn(cfg config.Config) string {
	creds := cfg.DBUser
	if cfg.DBPass != "" {
		creds += ":" + cfg.DBPass
	}
	return creds + "@tcp(" + net.JoinHostPort(cfg.DBHost, cfg.DBPort) + ")/" + cfg.DBName +
		"?charset=utf8mb4&parseTime=true&loc=UTC"
}

// Open connects to the configured MySQL instance, sizes the pool and
// verifies the connection with a bounded ping before returning it.
func Open(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(cfg))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
