package database

import (
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pitch-booking/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{DBUser: "pitch", DBPass: "secret", DBHost: "db", DBPort: "3306", DBName: "booking"})
	m, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "pitch", m.User)
	assert.Equal(t, "secret", m.Passwd)
	assert.Equal(t, "tcp", m.Net)
	assert.Equal(t, "db:3306", m.Addr)
	assert.Equal(t, "booking", m.DBName)
	assert.True(t, m.ParseTime)
	assert.Equal(t, time.UTC, m.Loc)
	assert.Contains(t, dsn, "charset=utf8mb4")

	dsn = DSN(config.Config{DBUser: "root", DBHost: "localhost", DBPort: "3306", DBName: "booking"})
	assert.True(t, strings.HasPrefix(dsn, "root@tcp(localhost:3306)/booking"), dsn)
}

func TestSchemaIsIdempotent(t *testing.T) {
	for _, stmt := range schema {
		assert.True(t, strings.HasPrefix(stmt, "CREATE TABLE IF NOT EXISTS"), stmt[:40])
	}
}
