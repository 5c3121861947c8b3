package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit creates a per-caller rate limiter middleware instance. Keys by
// the authenticated admin when present, otherwise by client IP so each kiosk
// gets its own bucket.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if adminID, ok := c.Locals("admin_id").(uint); ok && adminID > 0 {
				return fmt.Sprintf("%s:admin:%d", identifier, adminID)
			}
			return fmt.Sprintf("%s:%s", identifier, c.IP())
		},
	})
}
