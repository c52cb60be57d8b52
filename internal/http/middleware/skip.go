package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Skip runs h for every request except those whose path starts with one of prefixes.
func Skip(h fiber.Handler, prefixes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, p := range prefixes {
			if strings.HasPrefix(c.Path(), p) {
				return c.Next()
			}
		}
		return h(c)
	}
}
