package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/veilchat/veilchat/internal/chat"
	"github.com/veilchat/veilchat/internal/dto"
	"github.com/veilchat/veilchat/internal/services"
)

// ModerationHandler is the HTTP moderation panel: report review plus direct
// ban management, both driving the same engine the bot uses.
type ModerationHandler struct {
	moderation *services.ModerationService
	engine     *chat.Engine
	defaultBan time.Duration
}

func NewModerationHandler(moderation *services.ModerationService, engine *chat.Engine, defaultBan time.Duration) *ModerationHandler {
	return &ModerationHandler{moderation: moderation, engine: engine, defaultBan: defaultBan}
}

func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	status := c.Query("status", "")
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	if limit > 100 {
		limit = 100
	}

	reports, total, err := h.moderation.ListReports(status, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch reports",
		})
	}

	return c.JSON(fiber.Map{
		"reports": reports,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

func (h *ModerationHandler) ActionReport(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	var req dto.ActionReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.moderation.ActionReport(reportID, req.Status, req.AdminNote); err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.JSON(fiber.Map{"message": "Report updated successfully"})
}

func (h *ModerationHandler) BanUser(c *fiber.Ctx) error {
	var req dto.BanUserRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	duration := h.defaultBan
	if req.Hours > 0 {
		duration = time.Duration(req.Hours) * time.Hour
	}
	reason := req.Reason
	if reason == "" {
		reason = "admin decision"
	}

	if err := h.engine.Ban(req.UserID, duration, req.Permanent, reason); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to ban user",
		})
	}
	return c.JSON(fiber.Map{"message": "User banned"})
}

func (h *ModerationHandler) UnbanUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	if !h.engine.Unban(userID) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "No active ban for this user",
		})
	}
	return c.JSON(fiber.Map{"message": "User unbanned"})
}

func (h *ModerationHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.engine.Stats())
}
