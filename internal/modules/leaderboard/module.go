package leaderboard

import (
	"github.com/fixmyblock/fixmyblock-backend/internal/config"
	"github.com/fixmyblock/fixmyblock-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LeaderboardModule struct {
	service *Service
}

func New(service *Service) *LeaderboardModule {
	return &LeaderboardModule{service: service}
}

func (m *LeaderboardModule) ID() string {
	return "leaderboard"
}

func (m *LeaderboardModule) Models() []interface{} {
	return nil
}

func (m *LeaderboardModule) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	router.Get("/leaderboard/contributors", func(c *fiber.Ctx) error {
		entries, err := m.service.TopContributors(c.QueryInt("limit", 10))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to load leaderboard"})
		}
		return c.JSON(fiber.Map{"contributors": entries})
	})

	router.Get("/leaderboard/blocks", func(c *fiber.Ctx) error {
		entries, err := m.service.TopBlocks(c.QueryInt("limit", 10))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to load leaderboard"})
		}
		return c.JSON(fiber.Map{"blocks": entries})
	})
}
