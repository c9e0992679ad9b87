package reports

import (
	"errors"
	"strconv"

	"github.com/fixmyblock/fixmyblock-backend/internal/dto"
	"github.com/fixmyblock/fixmyblock-backend/internal/session"
	"github.com/fixmyblock/fixmyblock-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles the multipart report submission.
func (h *Handler) Create(c *fiber.Ctx) error {
	sess, err := session.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Please sign in to continue"})
	}

	header, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "A photo of the issue is required"})
	}
	file, err := header.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Could not read the uploaded photo"})
	}
	defer file.Close()

	lat, _ := strconv.ParseFloat(c.FormValue("lat"), 64)
	lng, _ := strconv.ParseFloat(c.FormValue("lng"), 64)

	in := CreateInput{
		Type:        c.FormValue("type"),
		Description: c.FormValue("description"),
		Lat:         lat,
		Lng:         lng,
		BlockSlug:   c.FormValue("block"),
	}

	view, err := h.service.Create(c.Context(), sess.UserID, in, file, header)
	if err != nil {
		switch {
		case errors.Is(err, ErrBlockNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Unknown block"})
		case errors.Is(err, storage.ErrNotConfigured):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: true, Message: "Photo storage is not available right now"})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(view)
}

// Feed lists reports with optional status/type/block filters.
func (h *Handler) Feed(c *fiber.Ctx) error {
	filter := FeedFilter{
		Status:    c.Query("status"),
		Type:      c.Query("type"),
		BlockSlug: c.Query("block"),
		Sort:      c.Query("sort", "recent"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 20),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	views, total, err := h.service.Feed(filter, viewerID(c))
	if err != nil {
		if errors.Is(err, ErrBlockNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Block not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to load reports"})
	}

	return c.JSON(fiber.Map{
		"reports": views,
		"total":   total,
		"page":    filter.Page,
		"limit":   filter.Limit,
	})
}

// Get returns a single report with its reply thread.
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid report id"})
	}

	detail, err := h.service.Get(id, viewerID(c))
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Report not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to load report"})
	}

	return c.JSON(detail)
}

// Mine lists the signed-in user's reports.
func (h *Handler) Mine(c *fiber.Ctx) error {
	sess, err := session.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Please sign in to continue"})
	}

	views, err := h.service.Mine(sess.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to load your reports"})
	}
	return c.JSON(fiber.Map{"reports": views})
}

type resolveRequest struct {
	Note string `json:"note"`
}

// Resolve marks a report fixed (admin only).
func (h *Handler) Resolve(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid report id"})
	}

	var req resolveRequest
	_ = c.BodyParser(&req)

	view, err := h.service.Resolve(id, req.Note)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Report not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to resolve report"})
	}
	return c.JSON(view)
}

// NotifyCivicBodies escalates a report to the responsible agency (admin only).
func (h *Handler) NotifyCivicBodies(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid report id"})
	}

	view, err := h.service.NotifyCivicBodies(id)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Report not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Failed to update report"})
	}
	return c.JSON(view)
}

// viewerID best-effort resolves the caller for personalization on public
// routes; anonymous readers get nil.
func viewerID(c *fiber.Ctx) *uuid.UUID {
	sess, err := session.FromCtx(c)
	if err != nil {
		return nil
	}
	return &sess.UserID
}
