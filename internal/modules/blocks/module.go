package blocks

import (
	"github.com/fixmyblock/fixmyblock-backend/internal/config"
	"github.com/fixmyblock/fixmyblock-backend/internal/middleware"
	"github.com/fixmyblock/fixmyblock-backend/internal/models"
	"github.com/fixmyblock/fixmyblock-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BlocksModule struct {
	service *BlockService
}

func New(service *BlockService) *BlocksModule {
	return &BlocksModule{service: service}
}

func (m *BlocksModule) ID() string {
	return "blocks"
}

func (m *BlocksModule) Models() []interface{} {
	return []interface{}{&models.Block{}}
}

func (m *BlocksModule) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(m.service)

	router.Get("/blocks", handler.List)
	router.Get("/blocks/:slug", middleware.OptionalJWT(cfg), session.Middleware(), handler.Get)
}

func (m *BlocksModule) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(m.service)

	router.Post("/blocks/:slug/recompute", handler.Recompute)
}
