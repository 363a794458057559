package rbac_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qa-office/qa-admin/internal/db/models"
	"github.com/qa-office/qa-admin/internal/rbac"
)

var errStoreDown = errors.New("store down")

// memStore is an in-memory rbac.Store. Transaction snapshots the state and
// restores it when fn fails.
type memStore struct {
	mu          sync.Mutex
	roles       map[string]models.Role
	permissions map[string]models.Permission
	rolePerms   map[string][]string
	userRoles   map[string][]string
	clock       time.Time
	failWrites  bool
	writes      int
}

func newMemStore() *memStore {
	return &memStore{
		roles:       map[string]models.Role{},
		permissions: map[string]models.Permission{},
		rolePerms:   map[string][]string{},
		userRoles:   map[string][]string{},
		clock:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) addPermission(key string) string {
	p := models.Permission{ID: uuid.NewString(), Key: key, Name: key}
	s.permissions[p.ID] = p

	return p.ID
}

func (s *memStore) addRole(name string, system bool, permissionIDs ...string) string {
	now := s.tick()
	r := models.Role{
		ID: uuid.NewString(), Name: name, DisplayName: name, Color: models.DefaultRoleColor,
		IsSystem: system, CreatedAt: now, UpdatedAt: now,
	}
	s.roles[r.ID] = r
	s.rolePerms[r.ID] = permissionIDs

	return r.ID
}

func (s *memStore) assign(userID, roleID string) {
	s.userRoles[roleID] = append(s.userRoles[roleID], userID)
}

func (s *memStore) expand(r models.Role, opts rbac.ListOptions) models.Role {
	r.Count = models.RoleCount{
		Users:       int64(len(s.userRoles[r.ID])),
		Permissions: int64(len(s.rolePerms[r.ID])),
	}

	r.Permissions = nil
	if opts.IncludePermissions {
		r.Permissions = []models.RolePermission{}
		for _, pid := range s.rolePerms[r.ID] {
			r.Permissions = append(r.Permissions, models.RolePermission{
				RoleID: r.ID, PermissionID: pid, Permission: s.permissions[pid],
			})
		}
	}

	r.Users = nil
	if opts.IncludeUsers {
		r.Users = []models.UserRole{}
		for _, uid := range s.userRoles[r.ID] {
			r.Users = append(r.Users, models.UserRole{UserID: uid, RoleID: r.ID, User: models.User{ID: uid}})
		}
	}

	return r
}

func (s *memStore) ListRoles(_ context.Context, opts rbac.ListOptions) ([]models.Role, error) {
	roles := make([]models.Role, 0, len(s.roles))
	for _, r := range s.roles {
		roles = append(roles, s.expand(r, opts))
	}

	sort.Slice(roles, func(i, j int) bool { return roles[i].CreatedAt.Before(roles[j].CreatedAt) })

	return roles, nil
}

func (s *memStore) GetRole(_ context.Context, id string, opts rbac.ListOptions) (*models.Role, error) {
	r, ok := s.roles[id]
	if !ok {
		return nil, rbac.ErrRoleNotFound
	}

	r = s.expand(r, opts)

	return &r, nil
}

func (s *memStore) RoleNameTaken(_ context.Context, name, exceptID string) (bool, error) {
	for _, r := range s.roles {
		if r.Name == name && r.ID != exceptID {
			return true, nil
		}
	}

	return false, nil
}

func (s *memStore) UnknownPermissions(_ context.Context, ids []string) ([]string, error) {
	var unknown []string

	for _, id := range ids {
		if _, ok := s.permissions[id]; !ok {
			unknown = append(unknown, id)
		}
	}

	return unknown, nil
}

func (s *memStore) write() error {
	s.writes++
	if s.failWrites {
		return errStoreDown
	}

	return nil
}

func (s *memStore) CreateRole(_ context.Context, role *models.Role) error {
	if err := s.write(); err != nil {
		return err
	}

	now := s.tick()
	role.ID = uuid.NewString()
	role.CreatedAt, role.UpdatedAt = now, now
	stored := *role
	stored.Permissions, stored.Users = nil, nil
	s.roles[role.ID] = stored

	return nil
}

func (s *memStore) UpdateRole(_ context.Context, role *models.Role) error {
	if err := s.write(); err != nil {
		return err
	}

	stored := *role
	stored.UpdatedAt = s.tick()
	stored.Permissions, stored.Users = nil, nil
	s.roles[role.ID] = stored

	return nil
}

func (s *memStore) ReplacePermissions(_ context.Context, roleID string, ids []string) error {
	if err := s.write(); err != nil {
		return err
	}

	s.rolePerms[roleID] = append([]string(nil), ids...)

	return nil
}

func (s *memStore) CountUsers(_ context.Context, roleID string) (int64, error) {
	return int64(len(s.userRoles[roleID])), nil
}

func (s *memStore) DeleteRole(_ context.Context, roleID string) error {
	if err := s.write(); err != nil {
		return err
	}

	delete(s.rolePerms, roleID)
	delete(s.roles, roleID)

	return nil
}

func (s *memStore) ListPermissions(_ context.Context) ([]models.Permission, error) {
	perms := make([]models.Permission, 0, len(s.permissions))
	for _, p := range s.permissions {
		perms = append(perms, p)
	}

	sort.Slice(perms, func(i, j int) bool { return perms[i].Key < perms[j].Key })

	return perms, nil
}

func (s *memStore) Transaction(_ context.Context, fn func(tx rbac.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles := make(map[string]models.Role, len(s.roles))
	for k, v := range s.roles {
		roles[k] = v
	}

	rolePerms := make(map[string][]string, len(s.rolePerms))
	for k, v := range s.rolePerms {
		rolePerms[k] = v
	}

	if err := fn(s); err != nil {
		s.roles, s.rolePerms = roles, rolePerms
		return err
	}

	return nil
}

// checker grants permissions per user id.
type checker struct {
	grants map[string]map[string]bool
	calls  []string
	err    error
}

func newChecker() *checker {
	return &checker{grants: map[string]map[string]bool{}}
}

func (c *checker) grant(userID string, perms ...string) {
	if c.grants[userID] == nil {
		c.grants[userID] = map[string]bool{}
	}

	for _, p := range perms {
		c.grants[userID][p] = true
	}
}

func (c *checker) HasPermission(_ context.Context, userID, permission string) (bool, error) {
	c.calls = append(c.calls, permission)
	if c.err != nil {
		return false, c.err
	}

	return c.grants[userID][permission], nil
}

type invalidator struct{ calls int }

func (i *invalidator) InvalidatePermissions() { i.calls++ }
