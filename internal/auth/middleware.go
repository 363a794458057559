package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	fiberlogger "github.com/qa-office/qa-admin/internal/logger/adapter/fiber"
	"github.com/qa-office/qa-admin/internal/web/session"
)

// LocalsUserID is the fiber.Locals key holding the authenticated user id.
const LocalsUserID = fiberlogger.LocalsUserID

// RequireSession creates Fiber middleware that rejects requests without a valid session
// and stores the session user id in the request locals.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(session.CookieName)
		if sessionID == "" {
			return unauthorized(c)
		}

		sessionData := new(session.Data)
		if err := sessionData.Read(sessionID); err != nil {
			log.Debug().Err(err).Msg("failed to read session")
			return unauthorized(c)
		}

		if sessionData.UserID == "" {
			log.Error().Msg("invalid session data")
			return unauthorized(c)
		}

		c.Locals(LocalsUserID, sessionData.UserID)

		return c.Next()
	}
}

// RequirePermission creates Fiber middleware that requires a specific permission.
// It must run after RequireSession.
func RequirePermission(authService *Service, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := UserID(c)
		if userID == "" {
			return unauthorized(c)
		}

		hasPermission, err := authService.HasPermission(c.UserContext(), userID, permission)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Str("permission", permission).
				Msg("Failed to check permission")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
		}

		if !hasPermission {
			log.Warn().Str("user_id", userID).Str("permission", permission).
				Msg("User lacks required permission")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		}

		return c.Next()
	}
}

// UserID returns the authenticated user id stored by RequireSession.
func UserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(LocalsUserID).(string)

	return userID
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
}
