package events

import (
	"github.com/fixmyblock/fixmyblock-backend/internal/config"
	"github.com/fixmyblock/fixmyblock-backend/internal/dto"
	"github.com/fixmyblock/fixmyblock-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EventsModule serves the community events board.
type EventsModule struct{}

func New() *EventsModule {
	return &EventsModule{}
}

func (m *EventsModule) ID() string {
	return "events"
}

func (m *EventsModule) Models() []interface{} {
	return []interface{}{&models.CivicEvent{}}
}

func (m *EventsModule) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	router.Get("/events", func(c *fiber.Ctx) error {
		query := db.Model(&models.CivicEvent{}).Order("starts_at ASC")
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}

		var events []models.CivicEvent
		if err := query.Find(&events).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to load events"})
		}
		return c.JSON(fiber.Map{"events": events, "categories": models.EventCategories})
	})
}
