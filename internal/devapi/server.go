// Package devapi is a local stand-in for the upstream API the console talks
// to. It issues the same session cookies and serves the endpoints the console
// pages use, backed by SQLite.
package devapi

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/miuconsole/internal/db"
	"github.com/terraincognita07/miuconsole/internal/logging"
	"github.com/terraincognita07/miuconsole/internal/services"
	"go.uber.org/zap"
)

const minSecretKeyLength = 16

type Options struct {
	Repositories *db.Repositories
	SecretKey    string
	CookieSecure bool
	Location     *time.Location
	Logger       *zap.Logger
	Now          func() time.Time
	// BcryptCost overrides the password hashing cost. Zero keeps the default.
	BcryptCost int
}

type Server struct {
	admins       *services.AdminAuthService
	users        *services.UserDirectoryService
	gptSettings  *services.GPTSettingService
	secretKey    []byte
	cookieSecure bool
	logger       *zap.Logger
	now          func() time.Time
}

func New(options Options) (*Server, error) {
	if options.Repositories == nil {
		return nil, errors.New("repositories are required")
	}
	secret := strings.TrimSpace(options.SecretKey)
	if len(secret) < minSecretKeyLength {
		return nil, errors.New("secret key must be at least 16 characters")
	}

	admins := services.NewAdminAuthService(options.Repositories.Admins)
	if options.BcryptCost > 0 {
		admins = admins.WithHashCost(options.BcryptCost)
	}
	server := &Server{
		admins:       admins,
		users:        services.NewUserDirectoryService(options.Repositories.Users, options.Location),
		gptSettings:  services.NewGPTSettingService(options.Repositories.GPTSettings),
		secretKey:    []byte(secret),
		cookieSecure: options.CookieSecure,
		logger:       options.Logger,
		now:          options.Now,
	}
	if server.logger == nil {
		server.logger = zap.NewNop()
	}
	if server.now == nil {
		server.now = time.Now
	}
	return server, nil
}

// Admins exposes the account service for seeding and password resets.
func (server *Server) Admins() *services.AdminAuthService {
	return server.admins
}

func (server *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "miuconsole-devapi",
		DisableStartupMessage: true,
		BodyLimit:             32 * 1024 * 1024,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	app.Use(logging.Middleware(server.logger))
	registerRoutes(app, server)
	return app
}

func registerRoutes(app *fiber.App, server *Server) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/refresh_token", server.RefreshToken)
	auth.Post("/logout", server.requireSession(""), server.Logout)

	admin := api.Group("/admin")
	admin.Post("/login", server.AdminLogin)
	admin.Post("/logout", server.requireSession(roleAdmin), server.Logout)
	admin.Get("/users", server.requireSession(roleAdmin), server.ListUsers)

	api.Get("/user/me", server.requireSession(roleUser), server.Me)

	gpt := api.Group("/gpt", server.requireSession(roleAdmin))
	gpt.Get("/gpt_setting", server.GetGPTSetting)
	gpt.Post("/gpt_setting/save", server.SaveGPTSetting)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return detail(c, fiberErr.Code, strings.ToLower(fiberErr.Message))
	}
	return detail(c, fiber.StatusInternalServerError, "internal server error")
}

// detail writes an error body in the upstream's {"detail": ...} shape.
func detail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"detail": message})
}
