package engagement

import (
	"github.com/fixmyblock/fixmyblock-backend/internal/config"
	"github.com/fixmyblock/fixmyblock-backend/internal/middleware"
	"github.com/fixmyblock/fixmyblock-backend/internal/models"
	"github.com/fixmyblock/fixmyblock-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EngagementModule struct {
	service *Service
}

func New(service *Service) *EngagementModule {
	return &EngagementModule{service: service}
}

func (m *EngagementModule) ID() string {
	return "engagement"
}

func (m *EngagementModule) Models() []interface{} {
	return []interface{}{&models.Upvote{}, &models.ReportVerification{}, &models.ReportReply{}}
}

func (m *EngagementModule) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(m.service)

	router.Get("/reports/:id/replies", handler.ListReplies)
	router.Post("/reports/:id/upvote", middleware.JWTProtected(cfg), session.Middleware(), handler.Upvote)
	router.Post("/reports/:id/verify", middleware.JWTProtected(cfg), session.Middleware(), handler.Verify)
	router.Post("/reports/:id/replies", middleware.JWTProtected(cfg), session.Middleware(), handler.CreateReply)
}
