package console

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, server *Server) {
	app.Get("/healthz", server.Health)
	app.Get("/favicon.ico", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	admin := app.Group("/admin")
	admin.Get("/login", server.ShowAdminLogin)
	admin.Post("/login", server.AdminLogin)
	admin.Post("/logout", server.AdminLogout)
	admin.Get("/users", server.AdminRequired, server.ShowAdminUsers)
	admin.Get("/picker", server.AdminRequired, server.ShowPicker)
	admin.Get("/gpt", server.AdminRequired, server.ShowAdminGPT)
	admin.Post("/gpt", server.AdminRequired, server.SaveAdminGPT)
	admin.Get("", func(c *fiber.Ctx) error { return c.Redirect(adminHomePath, fiber.StatusSeeOther) })

	app.Get("/", server.ClientSession, server.ShowClientHome)
	app.Post("/logout", server.ClientLogout)
}
