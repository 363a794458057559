// Package logout ends the session of the caller.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/qa-office/qa-admin/internal/web/handler"
	"github.com/qa-office/qa-admin/internal/web/handler/login"
	"github.com/qa-office/qa-admin/internal/web/session"
)

// Path is the logout endpoint.
const Path = login.Path + "/logout"

// Service is the logout handler service.
type Service struct {
	devMode bool
}

// Handler is the logout handler.
var Handler = Service{}

var _ handler.Service = (*Service)(nil)

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.Cfg == nil {
		return handler.ErrNilDeps
	}

	s.devMode = deps.Cfg.DevMode

	app.Post(Path, s.Logout)

	return nil
}

// Logout handles user logout by clearing the session.
func (s *Service) Logout(c *fiber.Ctx) error {
	sessionID := c.Cookies(session.CookieName)
	if sessionID != "" {
		if err := session.Delete(sessionID); err != nil {
			log.Error().Err(err).Msg("failed to delete session")
		}
	}

	// Clear the session cookie
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		MaxAge:   -1,
		Secure:   !s.devMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{"success": true})
}
