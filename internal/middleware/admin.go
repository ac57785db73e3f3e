package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/veilchat/veilchat/internal/config"
	"github.com/veilchat/veilchat/internal/dto"
	"golang.org/x/crypto/bcrypt"
)

// AdminRequired gates the moderation panel. Two accepted credentials:
//  1. the raw admin token in X-Admin-Token, checked against the bcrypt hash
//     from the environment;
//  2. a JWT from /api/auth/admin/login with the admin role claim.
func AdminRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.AdminTokenHash != "" {
			if token := c.Get("X-Admin-Token"); token != "" {
				if bcrypt.CompareHashAndPassword([]byte(cfg.AdminTokenHash), []byte(token)) == nil {
					return c.Next()
				}
			}
		}

		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid claims",
			})
		}
		if role, _ := claims["role"].(string); role == "admin" {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}
