package devapi

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/miuconsole/internal/session"
)

// account is whoever a session is issued for.
type account struct {
	Role      string
	ID        uint
	Nickname  string
	CreatedAt time.Time
}

func (server *Server) issueSession(c *fiber.Ctx, subject account) error {
	accessToken, err := server.signToken(subject.Role, subject.ID, tokenTypeAccess, accessTokenTTL)
	if err != nil {
		return fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := server.signToken(subject.Role, subject.ID, tokenTypeRefresh, refreshTokenTTL)
	if err != nil {
		return fmt.Errorf("sign refresh token: %w", err)
	}
	window, err := server.signWindow()
	if err != nil {
		return fmt.Errorf("sign refresh window: %w", err)
	}

	identity := session.Identity{AuthType: subject.Role, ID: int64(subject.ID)}
	if subject.Role == session.RoleUser {
		identity.Nickname = subject.Nickname
	}
	if !subject.CreatedAt.IsZero() {
		identity.CreatedAt = subject.CreatedAt.Format("2006-01-02T15:04:05")
	}
	identityValue, err := session.EncodeIdentity(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	server.setCookie(c, session.IdentityCookieName, identityValue, accessTokenTTL, false)
	server.setCookie(c, session.AccessTokenCookieName, accessToken, accessTokenTTL, true)
	server.setCookie(c, session.RefreshTokenCookieName, refreshToken, refreshTokenTTL, true)
	server.setCookie(c, session.RefreshWindowCookieName, window, refreshTokenTTL, false)
	return nil
}

func (server *Server) setCookie(c *fiber.Ctx, name string, value string, ttl time.Duration, httpOnly bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: httpOnly,
		Secure:   server.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (server *Server) clearSession(c *fiber.Ctx) {
	for _, name := range []string{
		session.AccessTokenCookieName,
		session.RefreshTokenCookieName,
		session.IdentityCookieName,
		session.RefreshWindowCookieName,
	} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Secure:   server.cookieSecure,
			SameSite: fiber.CookieSameSiteLaxMode,
			Expires:  time.Unix(0, 0),
		})
	}
}
