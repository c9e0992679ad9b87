package engagement

import (
	"errors"

	"github.com/fixmyblock/fixmyblock-backend/internal/dto"
	"github.com/fixmyblock/fixmyblock-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upvote toggles the caller's upvote on a report.
func (h *Handler) Upvote(c *fiber.Ctx) error {
	sess, err := session.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Please sign in to continue"})
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid report id"})
	}

	result, err := h.service.ToggleUpvote(sess.UserID, reportID)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Report not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to record upvote"})
	}
	return c.JSON(result)
}

// Verify records a resolution confirmation on a resolved report.
func (h *Handler) Verify(c *fiber.Ctx) error {
	sess, err := session.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Please sign in to continue"})
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid report id"})
	}

	result, err := h.service.Verify(sess.UserID, reportID)
	if err != nil {
		switch {
		case errors.Is(err, ErrReportNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Report not found"})
		case errors.Is(err, ErrNotResolved):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Only resolved reports can be verified"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to record verification"})
		}
	}
	return c.JSON(result)
}

type replyRequest struct {
	Body string `json:"body"`
}

// CreateReply appends a comment to a report's thread.
func (h *Handler) CreateReply(c *fiber.Ctx) error {
	sess, err := session.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Please sign in to continue"})
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid report id"})
	}

	var req replyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}

	reply, err := h.service.CreateReply(sess.UserID, reportID, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, ErrReportNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Report not found"})
		case errors.Is(err, ErrEmptyReply), errors.Is(err, ErrReplyTooLong):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to post reply"})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

// ListReplies returns a report's thread oldest-first.
func (h *Handler) ListReplies(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid report id"})
	}

	replies, err := h.service.ListReplies(reportID)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Report not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to load replies"})
	}
	return c.JSON(fiber.Map{"replies": replies})
}
