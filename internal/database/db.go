package database

import (
	"context"
	"database/sql"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/pitch-booking/internal/config"
)

const (
	maxOpenConns = 25
	connLifetime = 30 * time.Minute
	pingTimeout  = 5 * time.Second
)

// Open connects to the booking database described by cfg and pings it
// before returning.  Roster writes hold a row lock for a single request, so
// idle connections are kept equal to the open limit.
func Open(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns)
	db.SetConnMaxLifetime(connLifetime)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// DSN renders cfg as a go-sql-driver connection string.  DATETIME columns
// scan into UTC time.Time values; game dates stay plain strings.
func DSN(cfg config.Config) string {
	m := mysql.NewConfig()
	m.User = cfg.DBUser
	m.Passwd = cfg.DBPass
	m.Net = "tcp"
	m.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
	m.DBName = cfg.DBName
	m.ParseTime = true
	m.Loc = time.UTC
	m.Params = map[string]string{"charset": "utf8mb4"}
	return m.FormatDSN()
}
