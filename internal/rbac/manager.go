package rbac

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/qa-office/qa-admin/internal/auth"
	"github.com/qa-office/qa-admin/internal/db/models"
)

// Manager lists, creates, updates and deletes roles on behalf of a caller.
type Manager struct {
	store       Store
	checker     PermissionChecker
	invalidator CacheInvalidator
	validate    *validator.Validate
}

// NewManager creates a role manager.
func NewManager(store Store, checker PermissionChecker) *Manager {
	return &Manager{
		store:    store,
		checker:  checker,
		validate: newValidator(),
	}
}

// SetCacheInvalidator registers the cache dropped after role mutations.
func (m *Manager) SetCacheInvalidator(inv CacheInvalidator) {
	m.invalidator = inv
}

// List returns all roles ordered by creation time. Requires roles.view.
func (m *Manager) List(ctx context.Context, userID string, opts ListOptions) (roles []models.Role, err error) {
	defer func() { observe("list", err) }()

	if err = m.authorize(ctx, userID, auth.PermRolesView); err != nil {
		return nil, err
	}

	roles, err = m.store.ListRoles(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list roles")
	}

	return roles, nil
}

// ListPermissions returns every permission a role can be given. Requires roles.view.
func (m *Manager) ListPermissions(ctx context.Context, userID string) (perms []models.Permission, err error) {
	defer func() { observe("list_permissions", err) }()

	if err = m.authorize(ctx, userID, auth.PermRolesView); err != nil {
		return nil, err
	}

	perms, err = m.store.ListPermissions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list permissions")
	}

	return perms, nil
}

// Create adds a non system role. Requires roles.create.
func (m *Manager) Create(ctx context.Context, userID string, req CreateRoleRequest) (role *models.Role, err error) {
	defer func() { observe("create", err) }()

	if err = m.authorize(ctx, userID, auth.PermRolesCreate); err != nil {
		return nil, err
	}

	// an empty color means the default one.
	req.Color = blankToNil(req.Color)

	if err = m.validate.StructCtx(ctx, req); err != nil {
		return nil, validationError(err)
	}

	name := Slugify(req.Name)
	displayName := strings.TrimSpace(req.DisplayName)

	if name == "" || displayName == "" {
		return nil, newError(KindValidation, MsgNameRequired)
	}

	color := models.DefaultRoleColor
	if req.Color != nil {
		color = *req.Color
	}

	newRole := &models.Role{
		Name:        name,
		DisplayName: displayName,
		Description: req.Description,
		Color:       color,
	}
	permissionIDs := uniqueIDs(req.PermissionIDs)

	err = m.store.Transaction(ctx, func(tx Store) error {
		if err := checkNameFree(ctx, tx, name, ""); err != nil {
			return err
		}

		if err := checkPermissionsExist(ctx, tx, permissionIDs); err != nil {
			return err
		}

		if err := tx.CreateRole(ctx, newRole); err != nil {
			return err
		}

		if len(permissionIDs) == 0 {
			return nil
		}

		return tx.ReplacePermissions(ctx, newRole.ID, permissionIDs)
	})
	if err != nil {
		return nil, storeError(err, "create role")
	}

	log.Info().
		Str("role", newRole.Name).
		Str("user_id", userID).
		Int("permissions", len(permissionIDs)).
		Msg("role created")

	return m.reload(ctx, newRole.ID, "create role")
}

// Update changes the fields present in req. Requires roles.update, and
// roles.assign-permissions when req carries permission ids.
// Every check runs before the first write, the writes share one transaction.
func (m *Manager) Update(ctx context.Context, userID string, req UpdateRoleRequest) (role *models.Role, err error) {
	defer func() { observe("update", err) }()

	if err = m.authorize(ctx, userID, auth.PermRolesUpdate); err != nil {
		return nil, err
	}

	// an empty color keeps the current one.
	req.Color = blankToNil(req.Color)

	if err = m.validate.StructCtx(ctx, req); err != nil {
		return nil, validationError(err)
	}

	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) == "" {
		return nil, newError(KindValidation, MsgDisplayNameEmpty)
	}

	existing, err := m.store.GetRole(ctx, req.ID, ListOptions{})
	if err != nil {
		return nil, storeError(err, "find role")
	}

	newName := ""
	if req.Name != nil {
		newName = Slugify(*req.Name)
	}

	renaming := newName != "" && newName != existing.Name
	if renaming && existing.IsSystem {
		return nil, newError(KindValidation, MsgSystemRoleRename)
	}

	var permissionIDs []string

	replacePermissions := req.PermissionIDs != nil
	if replacePermissions {
		if err = m.authorize(ctx, userID, auth.PermRolesAssignPermissions); err != nil {
			return nil, err
		}

		permissionIDs = uniqueIDs(*req.PermissionIDs)
	}

	if renaming {
		existing.Name = newName
	}

	if req.DisplayName != nil {
		existing.DisplayName = strings.TrimSpace(*req.DisplayName)
	}

	if req.Description != nil {
		existing.Description = req.Description
	}

	if req.Color != nil {
		existing.Color = *req.Color
	}

	err = m.store.Transaction(ctx, func(tx Store) error {
		if renaming {
			if err := checkNameFree(ctx, tx, newName, existing.ID); err != nil {
				return err
			}
		}

		if err := checkPermissionsExist(ctx, tx, permissionIDs); err != nil {
			return err
		}

		if err := tx.UpdateRole(ctx, existing); err != nil {
			return err
		}

		if !replacePermissions {
			return nil
		}

		return tx.ReplacePermissions(ctx, existing.ID, permissionIDs)
	})
	if err != nil {
		return nil, storeError(err, "update role")
	}

	if replacePermissions {
		m.invalidate()
	}

	log.Info().
		Str("role", existing.Name).
		Str("user_id", userID).
		Bool("permissions_replaced", replacePermissions).
		Msg("role updated")

	return m.reload(ctx, existing.ID, "update role")
}

// Delete removes a role without assigned users. Requires roles.delete.
func (m *Manager) Delete(ctx context.Context, userID, roleID string) (err error) {
	defer func() { observe("delete", err) }()

	if err = m.authorize(ctx, userID, auth.PermRolesDelete); err != nil {
		return err
	}

	if strings.TrimSpace(roleID) == "" {
		return newError(KindValidation, MsgRoleIDRequired)
	}

	var name string

	err = m.store.Transaction(ctx, func(tx Store) error {
		role, err := tx.GetRole(ctx, roleID, ListOptions{})
		if err != nil {
			return err
		}

		if role.IsSystem {
			return newError(KindValidation, MsgSystemRoleDelete)
		}

		users, err := tx.CountUsers(ctx, roleID)
		if err != nil {
			return err
		}

		if users > 0 {
			return newError(KindValidation, MsgUsersAssignedFmt, users)
		}

		name = role.Name

		return tx.DeleteRole(ctx, roleID)
	})
	if err != nil {
		return storeError(err, "delete role")
	}

	m.invalidate()

	log.Info().
		Str("role", name).
		Str("user_id", userID).
		Msg("role deleted")

	return nil
}

// authorize fails with Unauthenticated for an empty caller and Forbidden when
// the caller lacks permission.
func (m *Manager) authorize(ctx context.Context, userID, permission string) error {
	if userID == "" {
		return newError(KindUnauthenticated, MsgUnauthorized)
	}

	ok, err := m.checker.HasPermission(ctx, userID, permission)
	if err != nil {
		return errors.Wrapf(err, "check permission %s", permission)
	}

	if !ok {
		log.Debug().
			Str("user_id", userID).
			Str("permission", permission).
			Msg("permission denied")

		return newError(KindForbidden, MsgForbidden)
	}

	return nil
}

func (m *Manager) reload(ctx context.Context, roleID, op string) (*models.Role, error) {
	role, err := m.store.GetRole(ctx, roleID, ListOptions{IncludePermissions: true})
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	return role, nil
}

func (m *Manager) invalidate() {
	if m.invalidator != nil {
		m.invalidator.InvalidatePermissions()
	}
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}

	return s
}

func checkNameFree(ctx context.Context, tx Store, name, exceptID string) error {
	taken, err := tx.RoleNameTaken(ctx, name, exceptID)
	if err != nil {
		return err
	}

	if taken {
		return newError(KindConflict, MsgRoleExists)
	}

	return nil
}

func checkPermissionsExist(ctx context.Context, tx Store, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	unknown, err := tx.UnknownPermissions(ctx, ids)
	if err != nil {
		return err
	}

	if len(unknown) > 0 {
		return newError(KindValidation, MsgUnknownPermissions, unknown)
	}

	return nil
}

// storeError maps store sentinels to caller facing errors and wraps the rest.
func storeError(err error, op string) error {
	var e *Error

	switch {
	case errors.As(err, &e):
		return e
	case errors.Is(err, ErrRoleNotFound):
		return newError(KindNotFound, MsgRoleNotFound)
	case errors.Is(err, ErrRoleNameTaken):
		return newError(KindConflict, MsgRoleExists)
	default:
		return errors.Wrap(err, op)
	}
}
