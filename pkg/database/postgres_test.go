package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/propmanagement/backend/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "app",
		Password: "secret",
		DBName:   "propertydb",
		SSLMode:  "disable",
	})

	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=propertydb sslmode=disable", dsn)
}
