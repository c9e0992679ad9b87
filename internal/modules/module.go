package modules

import (
	"github.com/fixmyblock/fixmyblock-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Module is one feature vertical of the API.
type Module interface {
	// ID returns the unique module identifier.
	ID() string

	// Models returns the GORM model pointers this module owns, for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts the module's routes on the given Fiber group.
	RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// AdminModule extends Module with admin-only route registration. The admin
// group has both JWT and Admin middleware applied.
type AdminModule interface {
	Module

	RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}
