package middleware

import (
	"github.com/fixmyblock/fixmyblock-backend/internal/config"
	"github.com/fixmyblock/fixmyblock-backend/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected rejects unauthenticated requests before any handler or
// database work runs; writes guarded by it never reach a service without an
// identity.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Please sign in to continue",
			})
		},
	})
}

// OptionalJWT verifies a bearer token when one is present but lets the
// request through either way. Public reads use it so a signed-in caller
// still gets personalized fields (upvoted_by_viewer) while anonymous
// readers are served identically.
func OptionalJWT(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Missing or invalid token just means an anonymous reader.
			return c.Next()
		},
	})
}
