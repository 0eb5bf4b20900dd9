package console

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/miuconsole/internal/daterange"
)

//go:embed templates/*.html templates/partials/*.html
var templateFiles embed.FS

var pageTemplateNames = []string{"admin_login", "admin_users", "admin_gpt", "client_home"}

var partialTemplateNames = []string{"date_picker", "users_results", "pagination"}

func parseTemplates(funcMap template.FuncMap) (map[string]*template.Template, map[string]*template.Template, error) {
	partialFiles, err := fs.Glob(templateFiles, "templates/partials/*.html")
	if err != nil {
		return nil, nil, fmt.Errorf("list partial templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageTemplateNames))
	for _, page := range pageTemplateNames {
		files := append([]string{"templates/base.html", "templates/" + page + ".html"}, partialFiles...)
		parsed, err := template.New("base").Funcs(funcMap).ParseFS(templateFiles, files...)
		if err != nil {
			return nil, nil, fmt.Errorf("parse page template %s: %w", page, err)
		}
		pages[page] = parsed
	}

	shared, err := template.New("partials").Funcs(funcMap).ParseFS(templateFiles, partialFiles...)
	if err != nil {
		return nil, nil, fmt.Errorf("parse partial templates: %w", err)
	}
	partials := make(map[string]*template.Template, len(partialTemplateNames))
	for _, name := range partialTemplateNames {
		if shared.Lookup(name) == nil {
			return nil, nil, fmt.Errorf("partial %s is not defined", name)
		}
		partials[name] = shared
	}
	return pages, partials, nil
}

func newTemplateFuncMap(location *time.Location) template.FuncMap {
	return template.FuncMap{
		"t":  translateMessage,
		"tf": translateMessagef,
		"formatTimestamp": func(raw string) string {
			return formatTimestamp(raw, location)
		},
		"formatDate": func(date daterange.CalendarDate) string {
			if date.IsZero() {
				return ""
			}
			return date.Display()
		},
		"dateValue": dateValue,
		"isActivePath": func(current string, prefix string) bool {
			return current == prefix || strings.HasPrefix(current, prefix+"/")
		},
		"dict": templateDict,
	}
}

func templateDict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("dict expects key/value pairs")
	}
	result := make(map[string]any, len(values)/2)
	for index := 0; index < len(values); index += 2 {
		key, ok := values[index].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", values[index])
		}
		result[key] = values[index+1]
	}
	return result, nil
}

func translateMessage(messages map[string]string, key string) string {
	if value, ok := messages[key]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	return key
}

func translateMessagef(messages map[string]string, key string, args ...any) string {
	return fmt.Sprintf(translateMessage(messages, key), args...)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// formatTimestamp renders an upstream timestamp as a calendar day in
// location. Unparseable values are shown as received.
func formatTimestamp(raw string, location *time.Location) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	for _, layout := range timestampLayouts {
		parsed, err := time.ParseInLocation(layout, value, location)
		if err == nil {
			return daterange.DateOf(parsed.In(location)).Display()
		}
	}
	return value
}

func (server *Server) withTemplateDefaults(c *fiber.Ctx, data fiber.Map) fiber.Map {
	payload := fiber.Map{
		"Lang":        currentLanguage(c),
		"Messages":    currentMessages(c),
		"CSRFToken":   csrfToken(c),
		"Session":     currentSession(c),
		"CurrentPath": c.Path(),
	}
	for key, value := range data {
		payload[key] = value
	}
	return payload
}

func (server *Server) render(c *fiber.Ctx, name string, data fiber.Map) error {
	tmpl, ok := server.templates[name]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("template not found")
	}
	var output bytes.Buffer
	if err := tmpl.ExecuteTemplate(&output, "base", server.withTemplateDefaults(c, data)); err != nil {
		server.logger.Sugar().Errorw("render template", "template", name, "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("failed to render template")
	}
	c.Type("html", "utf-8")
	return c.Send(output.Bytes())
}

func (server *Server) renderPartial(c *fiber.Ctx, name string, data fiber.Map) error {
	tmpl, ok := server.partials[name]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("partial not found")
	}
	var output bytes.Buffer
	if err := tmpl.ExecuteTemplate(&output, name, server.withTemplateDefaults(c, data)); err != nil {
		server.logger.Sugar().Errorw("render partial", "partial", name, "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("failed to render partial")
	}
	c.Type("html", "utf-8")
	return c.Send(output.Bytes())
}

func renderStatusFragment(c *fiber.Ctx, status int, class string, message string) error {
	c.Type("html", "utf-8")
	return c.Status(status).SendString(fmt.Sprintf("<div class=%q role=\"status\">%s</div>", class, template.HTMLEscapeString(message)))
}
