package devapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/miuconsole/internal/session"
)

const (
	roleAdmin = session.RoleAdmin
	roleUser  = session.RoleUser

	contextClaimsKey = "claims"
)

// requireSession accepts a valid access token cookie. An empty role accepts
// any signed-in account; a different role is forbidden.
func (server *Server) requireSession(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Cookies(session.AccessTokenCookieName))
		if raw == "" {
			return detail(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		claims, err := server.parseToken(raw, tokenTypeAccess)
		if err != nil {
			return detail(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		if role != "" && claims.Role != role {
			return detail(c, fiber.StatusForbidden, "forbidden")
		}
		c.Locals(contextClaimsKey, claims)
		return c.Next()
	}
}

func currentClaims(c *fiber.Ctx) tokenClaims {
	claims, _ := c.Locals(contextClaimsKey).(tokenClaims)
	return claims
}
