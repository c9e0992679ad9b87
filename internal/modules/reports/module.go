package reports

import (
	"github.com/fixmyblock/fixmyblock-backend/internal/config"
	"github.com/fixmyblock/fixmyblock-backend/internal/middleware"
	"github.com/fixmyblock/fixmyblock-backend/internal/models"
	"github.com/fixmyblock/fixmyblock-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReportsModule struct {
	service *Service
}

func New(service *Service) *ReportsModule {
	return &ReportsModule{service: service}
}

func (m *ReportsModule) ID() string {
	return "reports"
}

func (m *ReportsModule) Models() []interface{} {
	return []interface{}{&models.Report{}}
}

func (m *ReportsModule) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(m.service)

	router.Get("/feed", middleware.OptionalJWT(cfg), session.Middleware(), handler.Feed)
	router.Get("/reports", middleware.OptionalJWT(cfg), session.Middleware(), handler.Feed)
	router.Get("/reports/mine", middleware.JWTProtected(cfg), session.Middleware(), handler.Mine)
	router.Get("/reports/:id", middleware.OptionalJWT(cfg), session.Middleware(), handler.Get)
	router.Post("/reports", middleware.JWTProtected(cfg), session.Middleware(), handler.Create)
}

func (m *ReportsModule) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(m.service)

	router.Put("/reports/:id/resolve", handler.Resolve)
	router.Put("/reports/:id/notify", handler.NotifyCivicBodies)
}
