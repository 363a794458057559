package rbac

import (
	"context"

	"github.com/qa-office/qa-admin/internal/db/models"
)

// ListOptions selects the relations expanded on returned roles.
// Relation counts are always filled.
type ListOptions struct {
	IncludePermissions bool
	IncludeUsers       bool
}

// Store is the persistence the Manager needs.
type Store interface {
	// ListRoles returns all roles ordered by creation time ascending.
	ListRoles(ctx context.Context, opts ListOptions) ([]models.Role, error)
	// GetRole returns ErrRoleNotFound when id does not resolve.
	GetRole(ctx context.Context, id string, opts ListOptions) (*models.Role, error)
	// RoleNameTaken reports whether another role than exceptID uses name.
	RoleNameTaken(ctx context.Context, name, exceptID string) (bool, error)
	// UnknownPermissions returns the ids of ids that are no permission.
	UnknownPermissions(ctx context.Context, ids []string) ([]string, error)
	CreateRole(ctx context.Context, role *models.Role) error
	// UpdateRole writes name, display name, description and color.
	UpdateRole(ctx context.Context, role *models.Role) error
	// ReplacePermissions deletes every permission row of the role, then inserts ids.
	ReplacePermissions(ctx context.Context, roleID string, permissionIDs []string) error
	CountUsers(ctx context.Context, roleID string) (int64, error)
	// DeleteRole removes the role and its permission rows.
	DeleteRole(ctx context.Context, roleID string) error
	ListPermissions(ctx context.Context) ([]models.Permission, error)
	// Transaction runs fn against a Store bound to one transaction.
	// An error returned by fn rolls back every write of fn.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// PermissionChecker answers whether a user holds a permission.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID, permission string) (bool, error)
}

// CacheInvalidator drops cached permission sets after role changes.
type CacheInvalidator interface {
	InvalidatePermissions()
}
