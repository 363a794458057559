package auth

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qa-office/qa-admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.User{}, &models.Permission{}, &models.Role{}, &models.RolePermission{}, &models.UserRole{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedRole creates a role holding the given permission keys, creating missing permissions.
func seedRole(t *testing.T, db *gorm.DB, name string, keys ...string) models.Role {
	t.Helper()

	role := models.Role{Name: name, DisplayName: name, Color: models.DefaultRoleColor}
	require.NoError(t, db.Create(&role).Error)

	for _, key := range keys {
		var perm models.Permission
		require.NoError(t, db.Where(models.Permission{Key: key}).
			Attrs(models.Permission{Name: key, Resource: "test", Action: "test"}).
			FirstOrCreate(&perm).Error)
		require.NoError(t, db.Create(&models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}).Error)
	}

	return role
}
