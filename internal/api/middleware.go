package api

import "github.com/gofiber/fiber/v2"

// AccessCodeMiddleware gates the dashboard behind the single shared
// access code, supplied in the X-Access-Code header.
func AccessCodeMiddleware(code string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("X-Access-Code") != code {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid access code"})
		}
		return c.Next()
	}
}
