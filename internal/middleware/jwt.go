package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/souchan25/attendance-go-api/internal/utils"
)

// JWTProtected returns a middleware that validates JWT bearer tokens and
// binds the admin identity to the request.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		if role, _ := claims["role"].(string); strings.ToLower(role) != "admin" {
			return utils.SendError(c, fiber.StatusForbidden, "admin access required")
		}

		if adminID := extractAdminID(claims); adminID != nil {
			c.Locals("admin_id", *adminID)
		}
		if name, _ := claims["name"].(string); name != "" {
			c.Locals("admin_name", name)
		}

		return c.Next()
	}
}

func extractAdminID(claims jwt.MapClaims) *uint {
	value, ok := claims["sub"]
	if !ok {
		return nil
	}

	switch v := value.(type) {
	case float64:
		if v < 0 {
			return nil
		}
		id := uint(v)
		return &id
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil
		}
		id := uint(parsed)
		return &id
	default:
		return nil
	}
}
