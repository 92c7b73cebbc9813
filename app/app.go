package app

import (
	"log/slog"

	"notes-api/database"
	"notes-api/metrics"
	"notes-api/services"
	"notes-api/validator"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Repo      *database.Repository
	Notes     *services.NoteService
	Validator *validator.Validator
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// New creates a new App instance with all dependencies
func New(db *database.DB, m *metrics.Metrics, pagination services.Pagination, logger *slog.Logger) *App {
	repo := database.NewRepository(db, m)

	return &App{
		Repo:      repo,
		Notes:     services.NewNoteService(repo, m, pagination),
		Validator: validator.New(),
		Metrics:   m,
		Logger:    logger,
	}
}
