package profile

import (
	"errors"

	"github.com/fixmyblock/fixmyblock-backend/internal/config"
	"github.com/fixmyblock/fixmyblock-backend/internal/dto"
	"github.com/fixmyblock/fixmyblock-backend/internal/middleware"
	"github.com/fixmyblock/fixmyblock-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileModule struct {
	service *Service
}

func New(service *Service) *ProfileModule {
	return &ProfileModule{service: service}
}

func (m *ProfileModule) ID() string {
	return "profile"
}

func (m *ProfileModule) Models() []interface{} {
	return nil
}

func (m *ProfileModule) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	router.Get("/profile", middleware.JWTProtected(cfg), session.Middleware(), m.me)
	router.Get("/users/:id", middleware.OptionalJWT(cfg), session.Middleware(), m.byID)
}

func (m *ProfileModule) me(c *fiber.Ctx) error {
	sess, err := session.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Please sign in to continue"})
	}

	view, err := m.service.Get(sess.UserID, &sess.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to load profile"})
	}
	return c.JSON(view)
}

func (m *ProfileModule) byID(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid user id"})
	}

	var viewerID *uuid.UUID
	if sess, err := session.FromCtx(c); err == nil {
		viewerID = &sess.UserID
	}

	view, err := m.service.Get(userID, viewerID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to load profile"})
	}
	return c.JSON(view)
}
