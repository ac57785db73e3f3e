package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/veilchat/veilchat/internal/config"
	"github.com/veilchat/veilchat/internal/dto"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler exchanges the shared admin token for a short-lived JWT so the
// moderation panel does not have to hold the raw token in the browser.
type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if h.cfg.AdminTokenHash == "" || req.Token == "" ||
		bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminTokenHash), []byte(req.Token)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid admin token",
		})
	}

	expiry := h.cfg.JWTAccessExpiry
	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to issue token",
		})
	}

	return c.JSON(dto.AdminLoginResponse{
		AccessToken: signed,
		ExpiresIn:   int64(expiry.Seconds()),
	})
}
