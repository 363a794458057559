package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/qa-office/qa-admin/internal/auth"
	"github.com/qa-office/qa-admin/internal/config"
	"github.com/qa-office/qa-admin/internal/rbac"
)

// Deps holds what handlers need to serve requests.
type Deps struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Auth     *auth.Service
	Accounts *auth.LocalProvider
	Roles    *rbac.Manager
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}
