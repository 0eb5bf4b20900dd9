package console

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/miuconsole/internal/apiclient"
	"go.uber.org/zap"
)

type clientProfile struct {
	ID        int64  `json:"id"`
	Nickname  string `json:"user_nickname"`
	Email     string `json:"user_email"`
	CreatedAt string `json:"created_at"`
}

// ShowClientHome greets signed-in users with their profile. A session that
// can no longer be refreshed degrades to the anonymous page.
func (server *Server) ShowClientHome(c *fiber.Ctx) error {
	messages := currentMessages(c)
	data := fiber.Map{"Title": translateMessage(messages, "client.home.title")}

	if !currentSession(c).IsUser() {
		return server.render(c, "client_home", data)
	}

	outcome := server.call(c, clientHomePath, apiclient.Get("api/user/me", nil))
	switch {
	case outcome.OK():
		profile, err := apiclient.Decode[clientProfile](outcome)
		if err != nil {
			data["ErrorMessage"] = translateMessage(messages, "common.error.parse")
			break
		}
		data["Profile"] = profile
	case outcome.Kind == apiclient.KindRefreshFailed:
		clearUpstreamCookies(c, server.cookieSecure)
		data["Anonymous"] = true
	default:
		server.logger.Warn("load client profile", zap.Stringer("kind", outcome.Kind), zap.Int("status", outcome.Status))
		data["ErrorMessage"] = translateMessage(messages, outcomeMessageKey(outcome))
	}
	return server.render(c, "client_home", data)
}

func (server *Server) ClientLogout(c *fiber.Ctx) error {
	outcome := server.call(c, clientHomePath, apiclient.Request{Method: http.MethodPost, Path: "api/auth/logout"})
	if !outcome.OK() && outcome.Kind != apiclient.KindRefreshFailed {
		server.logger.Warn("upstream logout failed", zap.Stringer("kind", outcome.Kind), zap.Int("status", outcome.Status))
	}
	clearUpstreamCookies(c, server.cookieSecure)
	return redirectOrJSON(c, clientHomePath)
}

func (server *Server) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
