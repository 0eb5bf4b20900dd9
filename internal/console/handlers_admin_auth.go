package console

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/miuconsole/internal/apiclient"
	"go.uber.org/zap"
)

type adminLoginInput struct {
	Email    string `json:"admin_email" form:"admin_email"`
	Password string `json:"admin_password" form:"admin_password"`
}

func (server *Server) ShowAdminLogin(c *fiber.Ctx) error {
	if currentSession(c).IsAdmin() {
		return c.Redirect(adminHomePath, fiber.StatusSeeOther)
	}

	flash := server.popFlash(c)
	messages := currentMessages(c)
	errorMessage := ""
	if flash.Error != "" {
		errorMessage = translateMessage(messages, flash.Error)
	}
	return server.render(c, "admin_login", fiber.Map{
		"Title":        translateMessage(messages, "admin.login.title"),
		"ErrorMessage": errorMessage,
		"Email":        flash.LoginEmail,
	})
}

// AdminLogin forwards the credentials upstream. A wrong password comes back
// as 401 and therefore passes through one refresh attempt first, so both a
// final 401 and a failed refresh mean bad credentials.
func (server *Server) AdminLogin(c *fiber.Ctx) error {
	input := adminLoginInput{}
	if err := c.BodyParser(&input); err != nil {
		return server.respondLoginError(c, fiber.StatusBadRequest, "admin.login.error.required", "")
	}
	input.Email = strings.TrimSpace(input.Email)
	input.Password = strings.TrimSpace(input.Password)
	if input.Email == "" || input.Password == "" {
		return server.respondLoginError(c, fiber.StatusBadRequest, "admin.login.error.required", input.Email)
	}

	outcome := server.call(c, adminLoginPath, apiclient.PostJSON("api/admin/login", fiber.Map{
		"admin_email":    input.Email,
		"admin_password": input.Password,
	}))
	if outcome.OK() {
		server.logger.Info("admin signed in", zap.Int("attempts", outcome.Attempts))
		return redirectOrJSON(c, adminHomePath)
	}

	if outcome.Kind == apiclient.KindRefreshFailed {
		clearUpstreamCookies(c, server.cookieSecure)
	}
	status := outcome.Status
	if status < http.StatusBadRequest {
		status = http.StatusBadGateway
	}
	return server.respondLoginError(c, status, loginErrorKey(outcome), input.Email)
}

func loginErrorKey(outcome apiclient.Outcome) string {
	switch outcome.Status {
	case http.StatusUnauthorized:
		return "admin.login.error.invalid_credentials"
	case http.StatusForbidden:
		return "admin.login.error.disabled"
	default:
		return "admin.login.error.generic"
	}
}

func (server *Server) respondLoginError(c *fiber.Ctx, status int, key string, email string) error {
	if acceptsJSON(c) || isHTMX(c) {
		return apiError(c, status, translateMessage(currentMessages(c), key))
	}
	server.setFlash(c, flashPayload{Error: key, LoginEmail: email})
	return c.Redirect(adminLoginPath, fiber.StatusSeeOther)
}

// AdminLogout always ends the console session, even when the upstream
// logout fails.
func (server *Server) AdminLogout(c *fiber.Ctx) error {
	outcome := server.call(c, adminLoginPath, apiclient.Request{Method: http.MethodPost, Path: "api/admin/logout"})
	if !outcome.OK() && outcome.Kind != apiclient.KindRefreshFailed {
		server.logger.Warn("upstream admin logout failed", zap.Stringer("kind", outcome.Kind), zap.Int("status", outcome.Status))
	}
	clearUpstreamCookies(c, server.cookieSecure)
	return redirectOrJSON(c, adminLoginPath)
}
