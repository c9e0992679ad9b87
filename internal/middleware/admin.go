package middleware

import (
	"strings"

	"github.com/fixmyblock/fixmyblock-backend/internal/config"
	"github.com/fixmyblock/fixmyblock-backend/internal/dto"
	"github.com/fixmyblock/fixmyblock-backend/internal/models"
	"github.com/fixmyblock/fixmyblock-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminGate runs the JWT guard on admin routes unless the request carries a
// valid ops token, which authenticates on its own.
func AdminGate(cfg *config.Config) fiber.Handler {
	jwtGuard := JWTProtected(cfg)
	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return c.Next()
		}
		return jwtGuard(c)
	}
}

// AdminRequired gates admin routes. It accepts, in order: the ops token
// header, config-listed admin emails/IDs, or a DB user with the admin role.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)
	adminUserIDs := parseCSV(cfg.AdminUserIDs)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" {
			if c.Get("X-Admin-Token") == cfg.AdminToken {
				return c.Next()
			}
		}

		sess, err := session.FromCtx(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if contains(adminEmails, sess.Email) || contains(adminUserIDs, sess.UserID.String()) {
			return c.Next()
		}

		var user models.User
		if err := db.First(&user, "id = ?", sess.UserID).Error; err == nil {
			if user.Role == "admin" {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
