package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qa-office/qa-admin/internal/db/models"
)

func TestHasPermission(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	provider := NewLocalProvider(db)

	viewer := seedRole(t, db, "viewer", PermRolesView, "news.view")
	editor := seedRole(t, db, "editor", "news.view", "news.update")

	user, err := provider.CreateUser(ctx, "Ada", "ada@qa.local", "secret", viewer.ID, editor.ID)
	require.NoError(t, err)

	loner, err := provider.CreateUser(ctx, "Bob", "bob@qa.local", "secret")
	require.NoError(t, err)

	svc := NewService(db, 0, 0)

	tests := []struct {
		name       string
		userID     string
		permission string
		want       bool
	}{
		{"granted by first role", user.ID, PermRolesView, true},
		{"granted by second role", user.ID, "news.update", true},
		{"not granted", user.ID, PermRolesDelete, false},
		{"user without roles", loner.ID, "news.view", false},
		{"unknown user", "nobody", "news.view", false},
		{"empty user", "", "news.view", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.HasPermission(ctx, tt.userID, tt.permission)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	perms, err := svc.GetUserPermissions(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"news.update", "news.view", PermRolesView}, perms)
}

func TestHasPermissionInactiveUser(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	role := seedRole(t, db, "viewer", PermRolesView)
	user, err := NewLocalProvider(db).CreateUser(ctx, "Ada", "ada@qa.local", "secret", role.ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("active", false).Error)

	got, err := NewService(db, 0, 0).HasPermission(ctx, user.ID, PermRolesView)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestPermissionCache(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	role := seedRole(t, db, "viewer", PermRolesView)
	user, err := NewLocalProvider(db).CreateUser(ctx, "Ada", "ada@qa.local", "secret", role.ID)
	require.NoError(t, err)

	svc := NewService(db, 16, time.Hour)

	got, err := svc.HasPermission(ctx, user.ID, PermRolesView)
	require.NoError(t, err)
	assert.True(t, got)

	require.NoError(t, db.Where("role_id = ?", role.ID).Delete(&models.RolePermission{}).Error)

	got, err = svc.HasPermission(ctx, user.ID, PermRolesView)
	require.NoError(t, err)
	assert.True(t, got, "cached set is served until invalidated")

	svc.InvalidatePermissions()

	got, err = svc.HasPermission(ctx, user.ID, PermRolesView)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestPermissionCacheDisabled(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	role := seedRole(t, db, "viewer", PermRolesView)
	user, err := NewLocalProvider(db).CreateUser(ctx, "Ada", "ada@qa.local", "secret", role.ID)
	require.NoError(t, err)

	svc := NewService(db, -1, time.Hour)

	got, err := svc.HasPermission(ctx, user.ID, PermRolesView)
	require.NoError(t, err)
	assert.True(t, got)

	require.NoError(t, db.Where("role_id = ?", role.ID).Delete(&models.RolePermission{}).Error)

	got, err = svc.HasPermission(ctx, user.ID, PermRolesView)
	require.NoError(t, err)
	assert.False(t, got)
}
