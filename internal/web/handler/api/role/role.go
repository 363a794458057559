// Package role serves the role management API.
package role

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/qa-office/qa-admin/internal/auth"
	"github.com/qa-office/qa-admin/internal/rbac"
	"github.com/qa-office/qa-admin/internal/web/handler"
)

const (
	// Path is the role collection resource.
	Path = handler.APIPath + "/roles"

	// PermissionsPath lists the permissions a role can hold.
	PermissionsPath = handler.APIPath + "/permissions"
)

// Messages of unexpected failures, the cause is only logged.
const (
	MsgFetchFailed       = "Failed to fetch roles"
	MsgCreateFailed      = "Failed to create role"
	MsgUpdateFailed      = "Failed to update role"
	MsgDeleteFailed      = "Failed to delete role"
	MsgPermissionsFailed = "Failed to fetch permissions"
)

// Service is the role API handler service.
type Service struct {
	roles *rbac.Manager
}

// Handler is the role API handler.
var Handler = Service{}

var _ handler.Service = (*Service)(nil)

// Init registers the role routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.Roles == nil || deps.Auth == nil {
		return handler.ErrNilDeps
	}

	s.roles = deps.Roles

	app.Route(Path, func(router fiber.Router) {
		router.Use(auth.RequireSession())
		router.Get(handler.RootPath, s.List)
		// the body is only read once the caller may write roles at all.
		router.Post(handler.RootPath, auth.RequirePermission(deps.Auth, auth.PermRolesCreate), s.Create)
		router.Put(handler.RootPath, auth.RequirePermission(deps.Auth, auth.PermRolesUpdate), s.Update)
		router.Delete(handler.RootPath, s.Delete)
	})

	app.Get(PermissionsPath,
		auth.RequireSession(),
		auth.RequirePermission(deps.Auth, auth.PermRolesView),
		s.ListPermissions,
	)

	return nil
}

// List handles GET /api/roles?includePermissions=&includeUsers=.
func (s *Service) List(c *fiber.Ctx) error {
	opts := rbac.ListOptions{
		IncludePermissions: c.QueryBool("includePermissions"),
		IncludeUsers:       c.QueryBool("includeUsers"),
	}

	roles, err := s.roles.List(c.UserContext(), auth.UserID(c), opts)
	if err != nil {
		return fail(c, err, MsgFetchFailed)
	}

	return c.JSON(roles)
}

// Create handles POST /api/roles.
func (s *Service) Create(c *fiber.Ctx) error {
	var req rbac.CreateRoleRequest
	if err := handler.DecodeStrict(c.Body(), &req); err != nil {
		log.Debug().Err(err).Msg("invalid create role body")
		return handler.Error(c, fiber.StatusBadRequest, handler.MsgInvalidBody)
	}

	role, err := s.roles.Create(c.UserContext(), auth.UserID(c), req)
	if err != nil {
		return fail(c, err, MsgCreateFailed)
	}

	return c.Status(fiber.StatusCreated).JSON(role)
}

// Update handles PUT /api/roles.
func (s *Service) Update(c *fiber.Ctx) error {
	var req rbac.UpdateRoleRequest
	if err := handler.DecodeStrict(c.Body(), &req); err != nil {
		log.Debug().Err(err).Msg("invalid update role body")
		return handler.Error(c, fiber.StatusBadRequest, handler.MsgInvalidBody)
	}

	role, err := s.roles.Update(c.UserContext(), auth.UserID(c), req)
	if err != nil {
		return fail(c, err, MsgUpdateFailed)
	}

	return c.JSON(role)
}

// Delete handles DELETE /api/roles?id=.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := s.roles.Delete(c.UserContext(), auth.UserID(c), c.Query("id")); err != nil {
		return fail(c, err, MsgDeleteFailed)
	}

	return c.JSON(fiber.Map{"success": true})
}

// ListPermissions handles GET /api/permissions.
func (s *Service) ListPermissions(c *fiber.Ctx) error {
	perms, err := s.roles.ListPermissions(c.UserContext(), auth.UserID(c))
	if err != nil {
		return fail(c, err, MsgPermissionsFailed)
	}

	return c.JSON(perms)
}

// fail answers a manager error. Unexpected errors are logged and hidden behind msg.
func fail(c *fiber.Ctx, err error, msg string) error {
	var rbacErr *rbac.Error
	if errors.As(err, &rbacErr) {
		return handler.Error(c, statusOf(rbacErr.Kind), rbacErr.Message)
	}

	log.Error().Err(err).
		Str("user_id", auth.UserID(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg(msg)

	return handler.Error(c, fiber.StatusInternalServerError, msg)
}

func statusOf(kind rbac.Kind) int {
	switch kind {
	case rbac.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case rbac.KindForbidden:
		return fiber.StatusForbidden
	case rbac.KindValidation:
		return fiber.StatusBadRequest
	case rbac.KindNotFound:
		return fiber.StatusNotFound
	case rbac.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
