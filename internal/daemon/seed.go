package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qa-office/qa-admin/internal/auth"
	"github.com/qa-office/qa-admin/internal/config"
	"github.com/qa-office/qa-admin/internal/db/models"
)

const (
	// AdminRoleName holds every permission.
	AdminRoleName = "admin"
	// ViewerRoleName holds every view permission.
	ViewerRoleName = "viewer"
)

// Seed creates the permissions, the system roles and the bootstrap administrator.
// Running it again only adds what is missing, the permissions of existing roles are left alone.
func Seed(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	db = db.WithContext(ctx)

	var all, views []string

	for _, d := range auth.Definitions() {
		perm := models.Permission{}
		if err := db.Where(models.Permission{Key: d.Key}).
			Attrs(models.Permission{Name: d.Name, Resource: d.Resource, Action: d.Action, Description: d.Description}).
			FirstOrCreate(&perm).Error; err != nil {
			return fmt.Errorf("failed to seed permission %s: %w", d.Key, err)
		}

		all = append(all, perm.ID)
		if auth.IsViewPermission(d.Key) {
			views = append(views, perm.ID)
		}
	}

	adminRole, err := seedSystemRole(db, AdminRoleName, "Administrator", "#dc2626", all)
	if err != nil {
		return err
	}

	if _, err = seedSystemRole(db, ViewerRoleName, "Viewer", "#64748b", views); err != nil {
		return err
	}

	return seedAdmin(ctx, cfg.Seed, db, adminRole.ID)
}

func seedSystemRole(db *gorm.DB, name, displayName, color string, permissionIDs []string) (*models.Role, error) {
	role := models.Role{}

	result := db.Where(models.Role{Name: name}).
		Attrs(models.Role{DisplayName: displayName, Color: color, IsSystem: true}).
		FirstOrCreate(&role)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to seed role %s: %w", name, result.Error)
	}

	// an existing role keeps the permission set administrators gave it.
	if result.RowsAffected == 0 {
		return &role, nil
	}

	rows := make([]models.RolePermission, len(permissionIDs))
	for i, id := range permissionIDs {
		rows[i] = models.RolePermission{RoleID: role.ID, PermissionID: id}
	}

	if len(rows) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to seed permissions of role %s: %w", name, err)
		}
	}

	return &role, nil
}

func seedAdmin(ctx context.Context, seed config.Seed, db *gorm.DB, adminRoleID string) error {
	if seed.AdminEmail == "" {
		return nil
	}

	accounts := auth.NewLocalProvider(db)

	_, err := accounts.GetUserByEmail(ctx, seed.AdminEmail)
	if err == nil {
		return nil
	}

	if !errors.Is(err, auth.ErrUserNotFound) {
		return err
	}

	if seed.AdminPassword == "" {
		log.Warn().Str("email", seed.AdminEmail).Msg("seed admin has no password, skipping")
		return nil
	}

	name := seed.AdminName
	if name == "" {
		name = "Administrator"
	}

	user, err := accounts.CreateUser(ctx, name, seed.AdminEmail, seed.AdminPassword, adminRoleID)
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("seeded admin user")

	return nil
}
