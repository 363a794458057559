package login

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/qa-office/qa-admin/internal/auth"
	"github.com/qa-office/qa-admin/internal/config"
	"github.com/qa-office/qa-admin/internal/db/models"
	"github.com/qa-office/qa-admin/internal/web/handler"
	"github.com/qa-office/qa-admin/internal/web/session"
)

const (
	// Path is the auth API group.
	Path = handler.APIPath + "/auth"

	// LoginPath authenticates a user.
	LoginPath = Path + "/login"

	// MePath returns the session user.
	MePath = Path + "/me"
)

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of the session user.
type UserResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Image       *string  `json:"image"`
	Permissions []string `json:"permissions,omitempty"`
}

// Service is the login handler service.
type Service struct {
	cfg      *config.Config
	accounts *auth.LocalProvider
	auth     *auth.Service
}

// Handler is the login handler.
var Handler = Service{}

var _ handler.Service = (*Service)(nil)

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.Cfg == nil || deps.Accounts == nil || deps.Auth == nil {
		return handler.ErrNilDeps
	}

	s.cfg = deps.Cfg
	s.accounts = deps.Accounts
	s.auth = deps.Auth

	app.Post(LoginPath, s.Post)
	app.Get(MePath, auth.RequireSession(), s.Me)

	return nil
}

// Post handles the login request.
func (s *Service) Post(c *fiber.Ctx) error {
	var creds Credentials
	if err := handler.DecodeStrict(c.Body(), &creds); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, handler.MsgInvalidBody)
	}

	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return handler.Error(c, fiber.StatusBadRequest, MsgCredentialsRequired)
	}

	user, err := s.accounts.Authenticate(c.UserContext(), creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) ||
			errors.Is(err, auth.ErrInvalidPassword) ||
			errors.Is(err, auth.ErrUserAccountDisabled) {
			log.Info().Err(err).Str("email", creds.Email).Msg("login rejected")
			return handler.Error(c, fiber.StatusUnauthorized, MsgInvalidCredentials)
		}

		log.Error().Err(err).Msg("failed to authenticate user")

		return handler.Error(c, fiber.StatusInternalServerError, MsgInternalServerError)
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")
		return handler.Error(c, fiber.StatusInternalServerError, MsgInternalServerError)
	}

	userSession := &session.Data{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return handler.Error(c, fiber.StatusInternalServerError, MsgInternalServerError)
	}

	// set login cookie
	cookieSettings := &fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	log.Info().Str("user_id", user.ID).Msg("user logged in")

	return c.JSON(fiber.Map{"user": toResponse(user, nil)})
}

// Me returns the session user and their permission keys.
func (s *Service) Me(c *fiber.Ctx) error {
	user, err := s.accounts.GetUserByID(c.UserContext(), auth.UserID(c))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return handler.Error(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		log.Error().Err(err).Msg("failed to load session user")

		return handler.Error(c, fiber.StatusInternalServerError, MsgInternalServerError)
	}

	perms, err := s.auth.GetUserPermissions(c.UserContext(), user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to load user permissions")
		return handler.Error(c, fiber.StatusInternalServerError, MsgInternalServerError)
	}

	return c.JSON(fiber.Map{"user": toResponse(user, perms)})
}

func toResponse(user *models.User, perms []string) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Image:       user.Image,
		Permissions: perms,
	}
}
