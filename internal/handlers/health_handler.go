package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/veilchat/veilchat/internal/chat"
	"github.com/veilchat/veilchat/internal/database"
	"github.com/veilchat/veilchat/internal/dto"
)

type HealthHandler struct {
	engine *chat.Engine
}

func NewHealthHandler(engine *chat.Engine) *HealthHandler {
	return &HealthHandler{engine: engine}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Engine:    h.engine.Stats(),
	})
}
