// Package console serves the administrative and client web pages. It is a
// backend for the browser: every upstream API call is made server side with
// the visitor's relayed session cookies.
package console

import (
	"errors"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/miuconsole/internal/apiclient"
	"github.com/terraincognita07/miuconsole/internal/i18n"
	"github.com/terraincognita07/miuconsole/internal/logging"
	"go.uber.org/zap"
)

const (
	adminLoginPath = "/admin/login"
	adminHomePath  = "/admin/users"
	clientHomePath = "/"

	csrfCookieName     = "miu_csrf"
	languageCookieName = "miu_lang"
	flashCookieName    = "miu_flash"

	defaultUsersPerPage = 10
)

type Options struct {
	Client       *apiclient.Client
	I18n         *i18n.Manager
	Logger       *zap.Logger
	Location     *time.Location
	CookieSecure bool
	UsersPerPage int
	// Now overrides the clock used for "today" in date pickers.
	Now func() time.Time
}

type Server struct {
	client       *apiclient.Client
	i18n         *i18n.Manager
	logger       *zap.Logger
	location     *time.Location
	cookieSecure bool
	usersPerPage int
	now          func() time.Time
	templates    map[string]*template.Template
	partials     map[string]*template.Template
}

func NewServer(options Options) (*Server, error) {
	if options.Client == nil {
		return nil, errors.New("api client is required")
	}
	if options.I18n == nil {
		return nil, errors.New("i18n manager is required")
	}

	server := &Server{
		client:       options.Client,
		i18n:         options.I18n,
		logger:       options.Logger,
		location:     options.Location,
		cookieSecure: options.CookieSecure,
		usersPerPage: options.UsersPerPage,
		now:          options.Now,
	}
	if server.logger == nil {
		server.logger = zap.NewNop()
	}
	if server.location == nil {
		server.location = time.Local
	}
	if server.usersPerPage <= 0 {
		server.usersPerPage = defaultUsersPerPage
	}
	if server.now == nil {
		server.now = time.Now
	}

	templates, partials, err := parseTemplates(newTemplateFuncMap(server.location))
	if err != nil {
		return nil, err
	}
	server.templates = templates
	server.partials = partials
	return server, nil
}

// App builds the fiber application with the console middleware stack and
// routes.
func (server *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "miuconsole",
		DisableStartupMessage: true,
		BodyLimit:             32 * 1024 * 1024,
		ErrorHandler:          server.errorHandler,
	})

	app.Use(recover.New())
	app.Use(logging.Middleware(server.logger))
	app.Use(compress.New())
	app.Use(server.LanguageMiddleware)
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:X-CSRF-Token",
		Extractor:      csrfFromHeaderOrForm,
		CookieName:     csrfCookieName,
		CookieSameSite: "Lax",
		CookieHTTPOnly: false,
		CookieSecure:   server.cookieSecure,
		ContextKey:     contextCSRFKey,
	}))
	app.Use(server.SessionMiddleware)

	RegisterRoutes(app, server)
	return app
}

func (server *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
	}
	if status >= fiber.StatusInternalServerError {
		server.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}

	messages := currentMessages(c)
	message := translateMessage(messages, "common.error.generic")
	switch status {
	case fiber.StatusForbidden:
		message = translateMessage(messages, "common.error.forbidden")
	case fiber.StatusNotFound:
		message = translateMessage(messages, "common.error.not_found")
	}
	return apiError(c, status, message)
}

// csrfFromHeaderOrForm accepts the token from the HTMX header or from a form
// field, including multipart forms.
func csrfFromHeaderOrForm(c *fiber.Ctx) (string, error) {
	if token := c.Get("X-CSRF-Token"); token != "" {
		return token, nil
	}
	if token := c.FormValue("csrf_token"); token != "" {
		return token, nil
	}
	return "", csrf.ErrTokenNotFound
}
