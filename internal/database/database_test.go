package database

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestConnect_Error(t *testing.T) {
	cfg := Config{
		Driver:             "invalid",
		ConnectionString:   "invalid",
		MaxOpenConnections: 10,
		MaxIdleConnections: 5,
		ConnMaxLifetime:    time.Hour,
	}

	db, err := Connect(cfg)
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "sql: unknown driver")
}

func TestIsPostgreSQL(t *testing.T) {
	assert.True(t, IsPostgreSQL(DriverPostgres))
	assert.True(t, IsPostgreSQL(DriverPgx))
	assert.False(t, IsPostgreSQL(DriverMySQL))
	assert.False(t, IsPostgreSQL("sqlite"))
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("boom"), false},
		{"lib/pq unique violation", &pq.Error{Code: "23505"}, true},
		{"lib/pq other code", &pq.Error{Code: "23503"}, false},
		{"pgx unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"pgx other code", &pgconn.PgError{Code: "42P01"}, false},
		{"mysql duplicate entry", &mysql.MySQLError{Number: 1062}, true},
		{"mysql other number", &mysql.MySQLError{Number: 1452}, false},
		{"wrapped pq error", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsUniqueViolation(tt.err))
		})
	}
}
