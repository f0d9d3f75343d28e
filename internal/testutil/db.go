// Package testutil provides an in-memory database for repository and handler tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	favoritedomain "github.com/propmanagement/backend/internal/favorite/domain"
	propertydomain "github.com/propmanagement/backend/internal/property/domain"
	userdomain "github.com/propmanagement/backend/internal/user/domain"
)

// NewTestDB opens a migrated sqlite database that lives as long as the test
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&userdomain.User{},
		&propertydomain.Property{},
		&favoritedomain.Favorite{},
	))
	return db
}

// SeedUser inserts a user with the given id and role
func SeedUser(t *testing.T, db *gorm.DB, id uint, role string) *userdomain.User {
	t.Helper()

	user := &userdomain.User{
		ID:       id,
		Name:     "User",
		Email:    fmt.Sprintf("user%d@example.com", id),
		Password: "hashed",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// SeedProperty inserts an approved property with the given id
func SeedProperty(t *testing.T, db *gorm.DB, id uint) *propertydomain.Property {
	t.Helper()

	property := &propertydomain.Property{
		ID:        id,
		OwnerID:   1,
		OwnerName: "Owner",
		Title:     fmt.Sprintf("Flat %d", id),
		Location:  "Pune",
		Rent:      15000,
		BHK:       2,
		Approved:  true,
		Amenities: []string{"parking"},
	}
	require.NoError(t, db.Create(property).Error)
	return property
}
