package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/veilchat/veilchat/internal/config"
	"github.com/veilchat/veilchat/internal/dto"
)

// JWTParsed validates a bearer token when one is present but lets requests
// without one through, so AdminRequired can still accept the raw admin
// token header.
func JWTParsed(cfg *config.Config) fiber.Handler {
	verify := jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}
		return verify(c)
	}
}
