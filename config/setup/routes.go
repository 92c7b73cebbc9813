package setup

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"notes-api/app"
	"notes-api/handlers"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App) {
	fiberApp.Get("/health", handlers.Health(application))
	fiberApp.Get("/metrics", adaptor.HTTPHandler(application.Metrics.Handler()))

	notes := fiberApp.Group("/api/notes")
	notes.Get("", handlers.ListNotes(application))
	notes.Post("", handlers.CreateNote(application))
	notes.Get("/:id", handlers.GetNote(application))
	notes.Put("/:id", handlers.UpdateNote(application))
	notes.Delete("/:id", handlers.DeleteNote(application))
}
