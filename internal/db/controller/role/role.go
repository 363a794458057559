// Package role implements the role store on top of GORM.
package role

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qa-office/qa-admin/internal/db/models"
	"github.com/qa-office/qa-admin/internal/rbac"
)

const (
	roleIDQueryPattern = "role_id = ?"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Store persists roles, their permission rows and reads user assignments.
type Store struct {
	db *gorm.DB
}

var _ rbac.Store = (*Store)(nil)

// New creates a role store.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &Store{db: db}, nil
}

func (s *Store) with(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func preload(q *gorm.DB, opts rbac.ListOptions) *gorm.DB {
	if opts.IncludePermissions {
		q = q.Preload("Permissions.Permission")
	}

	if opts.IncludeUsers {
		q = q.Preload("Users", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).Preload("Users.User")
	}

	return q
}

// ListRoles returns all roles ordered by creation time, then name.
func (s *Store) ListRoles(ctx context.Context, opts rbac.ListOptions) ([]models.Role, error) {
	var roles []models.Role

	result := preload(s.with(ctx), opts).Order("created_at ASC").Order("name ASC").Find(&roles)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list roles: %w", result.Error)
	}

	if err := s.attachCounts(ctx, roles); err != nil {
		return nil, err
	}

	markLoaded(roles, opts)

	return roles, nil
}

// GetRole retrieves a role by its ID.
func (s *Store) GetRole(ctx context.Context, id string, opts rbac.ListOptions) (*models.Role, error) {
	var role models.Role

	result := preload(s.with(ctx), opts).Where("id = ?", id).First(&role)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, rbac.ErrRoleNotFound
		}

		return nil, fmt.Errorf("failed to get role: %w", result.Error)
	}

	roles := []models.Role{role}
	if err := s.attachCounts(ctx, roles); err != nil {
		return nil, err
	}

	markLoaded(roles, opts)

	return &roles[0], nil
}

// markLoaded sets requested relations without rows to empty slices, so they
// serialise as [] instead of being left out.
func markLoaded(roles []models.Role, opts rbac.ListOptions) {
	for i := range roles {
		if opts.IncludePermissions && roles[i].Permissions == nil {
			roles[i].Permissions = []models.RolePermission{}
		}

		if opts.IncludeUsers && roles[i].Users == nil {
			roles[i].Users = []models.UserRole{}
		}
	}
}

type relationCount struct {
	RoleID string
	Total  int64
}

// attachCounts fills the user and permission counts of roles with two grouped queries.
func (s *Store) attachCounts(ctx context.Context, roles []models.Role) error {
	if len(roles) == 0 {
		return nil
	}

	ids := make([]string, len(roles))
	for i := range roles {
		ids[i] = roles[i].ID
	}

	users, err := s.countBy(ctx, &models.UserRole{}, ids)
	if err != nil {
		return fmt.Errorf("failed to count role users: %w", err)
	}

	perms, err := s.countBy(ctx, &models.RolePermission{}, ids)
	if err != nil {
		return fmt.Errorf("failed to count role permissions: %w", err)
	}

	for i := range roles {
		roles[i].Count = models.RoleCount{
			Users:       users[roles[i].ID],
			Permissions: perms[roles[i].ID],
		}
	}

	return nil
}

func (s *Store) countBy(ctx context.Context, model any, roleIDs []string) (map[string]int64, error) {
	var rows []relationCount

	result := s.with(ctx).Model(model).
		Select("role_id, COUNT(*) AS total").
		Where("role_id IN ?", roleIDs).
		Group("role_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.RoleID] = r.Total
	}

	return counts, nil
}

// RoleNameTaken reports whether a role other than exceptID is named name.
func (s *Store) RoleNameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	var count int64

	q := s.with(ctx).Model(&models.Role{}).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}

	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check role name: %w", err)
	}

	return count > 0, nil
}

// UnknownPermissions returns the ids that match no permission, in input order.
func (s *Store) UnknownPermissions(ctx context.Context, ids []string) ([]string, error) {
	var found []string

	result := s.with(ctx).Model(&models.Permission{}).Where("id IN ?", ids).Pluck("id", &found)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to look up permissions: %w", result.Error)
	}

	known := make(map[string]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}

	var unknown []string

	for _, id := range ids {
		if _, ok := known[id]; !ok {
			unknown = append(unknown, id)
		}
	}

	return unknown, nil
}

// CreateRole inserts the role row only, permission rows go through ReplacePermissions.
func (s *Store) CreateRole(ctx context.Context, role *models.Role) error {
	result := s.with(ctx).Omit(clause.Associations).Create(role)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return rbac.ErrRoleNameTaken
		}

		return fmt.Errorf("failed to create role: %w", result.Error)
	}

	return nil
}

// UpdateRole writes the editable columns of role.
func (s *Store) UpdateRole(ctx context.Context, role *models.Role) error {
	result := s.with(ctx).Model(role).
		Select("name", "display_name", "description", "color", "updated_at").
		Updates(role)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return rbac.ErrRoleNameTaken
		}

		return fmt.Errorf("failed to update role: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return rbac.ErrRoleNotFound
	}

	return nil
}

// ReplacePermissions swaps the permission rows of a role for permissionIDs.
func (s *Store) ReplacePermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	db := s.with(ctx)

	if err := db.Where(roleIDQueryPattern, roleID).Delete(&models.RolePermission{}).Error; err != nil {
		return fmt.Errorf("failed to clear role permissions: %w", err)
	}

	if len(permissionIDs) == 0 {
		return nil
	}

	rows := make([]models.RolePermission, len(permissionIDs))
	for i, id := range permissionIDs {
		rows[i] = models.RolePermission{RoleID: roleID, PermissionID: id}
	}

	if err := db.Omit(clause.Associations).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to assign role permissions: %w", err)
	}

	return nil
}

// CountUsers returns the number of users holding the role.
func (s *Store) CountUsers(ctx context.Context, roleID string) (int64, error) {
	var count int64

	if err := s.with(ctx).Model(&models.UserRole{}).Where(roleIDQueryPattern, roleID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count role users: %w", err)
	}

	return count, nil
}

// DeleteRole deletes the permission rows of the role, then the role.
func (s *Store) DeleteRole(ctx context.Context, roleID string) error {
	db := s.with(ctx)

	if err := db.Where(roleIDQueryPattern, roleID).Delete(&models.RolePermission{}).Error; err != nil {
		return fmt.Errorf("failed to delete role permissions: %w", err)
	}

	result := db.Where("id = ?", roleID).Delete(&models.Role{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete role: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return rbac.ErrRoleNotFound
	}

	return nil
}

// ListPermissions returns all permissions ordered by resource, then key.
func (s *Store) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	var perms []models.Permission

	if err := s.with(ctx).Order("resource ASC").Order("code ASC").Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	return perms, nil
}

// Transaction runs fn on a store bound to a database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx rbac.Store) error) error {
	return s.with(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
