package blocks

import (
	"errors"

	"github.com/fixmyblock/fixmyblock-backend/internal/dto"
	"github.com/fixmyblock/fixmyblock-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	service *BlockService
}

func NewHandler(service *BlockService) *Handler {
	return &Handler{service: service}
}

// List returns all blocks, neediest first.
func (h *Handler) List(c *fiber.Ctx) error {
	summaries, err := h.service.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to load blocks"})
	}
	return c.JSON(fiber.Map{"blocks": summaries})
}

// Get returns one block with stats and reports.
func (h *Handler) Get(c *fiber.Ctx) error {
	detail, err := h.service.GetBySlug(c.Params("slug"), viewerID(c))
	if err != nil {
		if errors.Is(err, ErrBlockNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Block not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to load block"})
	}
	return c.JSON(detail)
}

// Recompute refreshes one block's need score from its current reports
// (admin only).
func (h *Handler) Recompute(c *fiber.Ctx) error {
	summary, err := h.service.Recompute(c.Params("slug"))
	if err != nil {
		if errors.Is(err, ErrBlockNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Block not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to recompute need score"})
	}
	return c.JSON(summary)
}

func viewerID(c *fiber.Ctx) *uuid.UUID {
	sess, err := session.FromCtx(c)
	if err != nil {
		return nil
	}
	return &sess.UserID
}
