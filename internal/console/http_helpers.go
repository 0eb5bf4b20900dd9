package console

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// redirectTo navigates the browser to path. HTMX requests get HX-Redirect so
// the whole page moves instead of swapping a fragment.
func redirectTo(c *fiber.Ctx, path string) error {
	if isHTMX(c) {
		c.Set("HX-Redirect", path)
		return c.SendStatus(fiber.StatusOK)
	}
	return c.Redirect(path, fiber.StatusSeeOther)
}

func redirectOrJSON(c *fiber.Ctx, path string) error {
	if acceptsJSON(c) && !isHTMX(c) {
		return c.JSON(fiber.Map{"ok": true, "redirect": path})
	}
	return redirectTo(c, path)
}

// reload asks the browser to load the current page again.
func reload(c *fiber.Ctx, fallback string) error {
	if isHTMX(c) {
		c.Set("HX-Refresh", "true")
		return c.SendStatus(fiber.StatusOK)
	}
	if c.Method() == fiber.MethodGet {
		return c.Redirect(sanitizeRedirectPath(c.OriginalURL(), fallback), fiber.StatusSeeOther)
	}
	return c.Redirect(fallback, fiber.StatusSeeOther)
}

func apiError(c *fiber.Ctx, status int, message string) error {
	if acceptsJSON(c) && !isHTMX(c) {
		return c.Status(status).JSON(fiber.Map{"error": message})
	}
	return renderStatusFragment(c, status, "status-error", message)
}

func acceptsJSON(c *fiber.Ctx) bool {
	return strings.Contains(strings.ToLower(c.Get("Accept")), "application/json")
}

func isHTMX(c *fiber.Ctx) bool {
	return strings.EqualFold(c.Get("HX-Request"), "true")
}

func csrfToken(c *fiber.Ctx) string {
	token, _ := c.Locals(contextCSRFKey).(string)
	return token
}

func sanitizeRedirectPath(raw string, fallback string) string {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return fallback
	}
	if strings.HasPrefix(candidate, "//") || !strings.HasPrefix(candidate, "/") {
		return fallback
	}
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.IsAbs() {
		return fallback
	}
	return candidate
}
