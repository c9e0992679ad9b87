package ai

import (
	"errors"

	"github.com/fixmyblock/fixmyblock-backend/internal/config"
	"github.com/fixmyblock/fixmyblock-backend/internal/dto"
	"github.com/fixmyblock/fixmyblock-backend/internal/enrich"
	"github.com/fixmyblock/fixmyblock-backend/internal/middleware"
	"github.com/fixmyblock/fixmyblock-backend/internal/session"
	"github.com/fixmyblock/fixmyblock-backend/internal/vision"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AIModule exposes on-demand vision analysis. Every response is 200 with a
// success flag; AI being down degrades the feature, never the request.
type AIModule struct {
	vision   *vision.Client
	enricher *enrich.Service
}

func New(visionClient *vision.Client, enricher *enrich.Service) *AIModule {
	return &AIModule{vision: visionClient, enricher: enricher}
}

func (m *AIModule) ID() string {
	return "ai"
}

func (m *AIModule) Models() []interface{} {
	return nil
}

type suggestRequest struct {
	ImageData string `json:"image_data"` // data URI, base64 payload, or a public URL
}

type enrichRequest struct {
	ReportID uuid.UUID `json:"report_id"`
}

type suggestResponse struct {
	Success          bool   `json:"success"`
	Category         string `json:"category,omitempty"`
	Severity         string `json:"severity,omitempty"`
	ShortDescription string `json:"short_description,omitempty"`
	Error            string `json:"error,omitempty"`
}

func (m *AIModule) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	router.Post("/ai/suggest-report-fields", middleware.JWTProtected(cfg), session.Middleware(), m.suggest)
}

func (m *AIModule) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	router.Post("/ai/enrich-report", m.enrichReport)
}

func (m *AIModule) suggest(c *fiber.Ctx) error {
	var req suggestRequest
	if err := c.BodyParser(&req); err != nil || req.ImageData == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "An image is required"})
	}

	if !m.vision.Available() {
		return c.JSON(suggestResponse{Success: false, Error: "AI analysis is not configured"})
	}

	classification, err := m.vision.ClassifyIssue(req.ImageData)
	if err != nil {
		return c.JSON(suggestResponse{Success: false, Error: "Could not analyze the photo"})
	}

	return c.JSON(suggestResponse{
		Success:          true,
		Category:         classification.Category,
		Severity:         classification.Severity,
		ShortDescription: classification.ShortDescription,
	})
}

func (m *AIModule) enrichReport(c *fiber.Ctx) error {
	var req enrichRequest
	if err := c.BodyParser(&req); err != nil || req.ReportID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "A report_id is required"})
	}

	classification, err := m.enricher.EnrichReport(req.ReportID)
	if err != nil {
		if errors.Is(err, enrich.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Report not found"})
		}
		return c.JSON(suggestResponse{Success: false, Error: "Enrichment failed"})
	}

	return c.JSON(suggestResponse{
		Success:          true,
		Category:         classification.Category,
		Severity:         classification.Severity,
		ShortDescription: classification.ShortDescription,
	})
}
