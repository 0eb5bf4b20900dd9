package console

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/miuconsole/internal/session"
	"go.uber.org/zap"
)

const (
	contextLanguageKey = "language"
	contextMessagesKey = "messages"
	contextSessionKey  = "session"
	contextCSRFKey     = "csrf"
)

func (server *Server) LanguageMiddleware(c *fiber.Ctx) error {
	cookieLanguage := c.Cookies(languageCookieName)
	language := server.i18n.DetectFromAcceptLanguage(c.Get("Accept-Language"))
	if queryLanguage := c.Query("lang"); queryLanguage != "" {
		language = server.i18n.NormalizeLanguage(queryLanguage)
	} else if cookieLanguage != "" {
		language = server.i18n.NormalizeLanguage(cookieLanguage)
	}

	if cookieLanguage != language {
		c.Cookie(&fiber.Cookie{
			Name:     languageCookieName,
			Value:    language,
			Path:     "/",
			Secure:   server.cookieSecure,
			SameSite: fiber.CookieSameSiteLaxMode,
			Expires:  time.Now().AddDate(1, 0, 0),
		})
	}

	c.Locals(contextLanguageKey, language)
	c.Locals(contextMessagesKey, server.i18n.Messages(language))
	return c.Next()
}

// SessionMiddleware decodes the relayed identity cookies once per request.
func (server *Server) SessionMiddleware(c *fiber.Ctx) error {
	c.Locals(contextSessionKey, session.FromCookies(func(name string) string { return c.Cookies(name) }))
	return c.Next()
}

func currentSession(c *fiber.Ctx) session.Context {
	current, _ := c.Locals(contextSessionKey).(session.Context)
	return current
}

func currentLanguage(c *fiber.Ctx) string {
	language, _ := c.Locals(contextLanguageKey).(string)
	return language
}

func currentMessages(c *fiber.Ctx) map[string]string {
	messages, _ := c.Locals(contextMessagesKey).(map[string]string)
	return messages
}

// AdminRequired lets administrators through. A visitor whose identity cookie
// expired while the refresh window is still open gets one refresh and a
// reload; everyone else is sent to the admin login page.
func (server *Server) AdminRequired(c *fiber.Ctx) error {
	current := currentSession(c)
	if current.IsAdmin() {
		return c.Next()
	}
	if current.CanRefresh() {
		if server.refreshSession(c, adminLoginPath) {
			return reload(c, adminHomePath)
		}
	}
	return redirectTo(c, adminLoginPath)
}

// ClientSession restores an expired client session the same way but never
// blocks: anonymous visitors still see client pages.
func (server *Server) ClientSession(c *fiber.Ctx) error {
	current := currentSession(c)
	if current.CanRefresh() && server.refreshSession(c, clientHomePath) {
		return reload(c, clientHomePath)
	}
	return c.Next()
}

// refreshSession runs one upstream refresh with the visitor's cookies and
// relays whatever the upstream answered back to the browser. It reports true
// only when the upstream accepted the refresh and issued a new identity, so a
// reload cannot loop.
func (server *Server) refreshSession(c *fiber.Ctx, fallbackPath string) bool {
	bridge, err := server.upstreamFor(c, fallbackPath)
	if err != nil {
		server.logger.Error("prepare upstream session", zap.Error(err))
		return false
	}
	refreshed := bridge.client.RefreshSession(c.UserContext())
	bridge.flush(c, server.cookieSecure)
	if !refreshed || !bridge.issued(session.IdentityCookieName) {
		server.logger.Info("session refresh rejected", zap.String("path", c.Path()), zap.Bool("accepted", refreshed))
		return false
	}
	return true
}
