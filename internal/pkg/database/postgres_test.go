package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/piresc/payon/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN(models.DatabaseConfig{
		Host:     "db",
		Port:     5432,
		Username: "payon",
		Password: "secret",
		Database: "tracker",
		SSLMode:  "disable",
	})
	assert.Equal(t, "postgres://payon:secret@db:5432/tracker?sslmode=disable", dsn)
}

func TestPostgresClient_Ping(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing()
	mock.ExpectClose()

	client := NewPostgresClientFromDB(sqlx.NewDb(mockDB, "pgx"))
	assert.NoError(t, client.Ping(context.Background()))
	assert.NotNil(t, client.GetDB())
	assert.NoError(t, client.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
