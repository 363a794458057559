package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"gorm.io/gorm"
)

// Service provides authorization functionality.
type Service struct {
	db    *gorm.DB
	cache *expirable.LRU[string, map[string]struct{}]
}

// NewService creates a new auth service.
// Resolved permission sets are cached for cacheTTL, a cacheSize below one disables the cache.
func NewService(db *gorm.DB, cacheSize int, cacheTTL time.Duration) *Service {
	s := &Service{db: db}

	if cacheSize > 0 {
		s.cache = expirable.NewLRU[string, map[string]struct{}](cacheSize, nil, cacheTTL)
	}

	return s
}

// HasPermission checks if a user has a specific permission.
// This works by checking whether any role assigned to the user carries the permission.
func (s *Service) HasPermission(ctx context.Context, userID, permission string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	perms, err := s.permissionSet(ctx, userID)
	if err != nil {
		return false, err
	}

	_, ok := perms[permission]

	return ok, nil
}

// GetUserPermissions retrieves all permission keys of an active user, sorted.
func (s *Service) GetUserPermissions(ctx context.Context, userID string) ([]string, error) {
	var permissions []string

	err := s.db.WithContext(ctx).Table("permissions").
		Distinct("permissions.code").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Joins("JOIN users ON users.id = user_roles.user_id").
		Where("users.id = ? AND users.active = ?", userID, true).
		Order("permissions.code").
		Pluck("permissions.code", &permissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}

	return permissions, nil
}

// InvalidatePermissions drops every cached permission set.
func (s *Service) InvalidatePermissions() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

func (s *Service) permissionSet(ctx context.Context, userID string) (map[string]struct{}, error) {
	if s.cache != nil {
		if perms, ok := s.cache.Get(userID); ok {
			return perms, nil
		}
	}

	keys, err := s.GetUserPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}

	perms := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		perms[k] = struct{}{}
	}

	if s.cache != nil {
		s.cache.Add(userID, perms)
	}

	return perms, nil
}
