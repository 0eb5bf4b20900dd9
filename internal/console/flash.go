package console

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// flashPayload survives exactly one redirect. Values are translation keys or
// already localized text.
type flashPayload struct {
	Error      string `json:"error,omitempty"`
	Success    string `json:"success,omitempty"`
	LoginEmail string `json:"login_email,omitempty"`
}

func (payload flashPayload) normalized() flashPayload {
	payload.Error = strings.TrimSpace(payload.Error)
	payload.Success = strings.TrimSpace(payload.Success)
	payload.LoginEmail = strings.ToLower(strings.TrimSpace(payload.LoginEmail))
	return payload
}

func (payload flashPayload) empty() bool {
	return payload.Error == "" && payload.Success == "" && payload.LoginEmail == ""
}

func (server *Server) setFlash(c *fiber.Ctx, payload flashPayload) {
	payload = payload.normalized()
	if payload.empty() {
		server.clearFlash(c)
		return
	}

	serialized, err := json.Marshal(payload)
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(serialized),
		Path:     "/",
		HTTPOnly: true,
		Secure:   server.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(5 * time.Minute),
	})
}

func (server *Server) popFlash(c *fiber.Ctx) flashPayload {
	raw := strings.TrimSpace(c.Cookies(flashCookieName))
	if raw == "" {
		return flashPayload{}
	}
	server.clearFlash(c)

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return flashPayload{}
	}
	payload := flashPayload{}
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return flashPayload{}
	}
	return payload.normalized()
}

func (server *Server) clearFlash(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   server.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
