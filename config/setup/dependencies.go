package setup

import (
	"log/slog"

	"notes-api/app"
	"notes-api/config"
	"notes-api/database"
	"notes-api/metrics"
	"notes-api/services"
)

// InitDatabase opens the configured database and runs migrations
func InitDatabase(cfg *config.Config, logger *slog.Logger) (*database.DB, error) {
	db, err := database.New(cfg.Database.Driver, cfg.Database.DefaultConnection)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database initialized", "driver", db.Driver())
	return db, nil
}

// InitApp initializes the application with all dependencies
func InitApp(cfg *config.Config, db *database.DB, logger *slog.Logger) *app.App {
	m := metrics.New("notes_api")
	m.SetServiceHealth(true)

	pagination := services.Pagination{
		DefaultPageSize: cfg.Pagination.DefaultPageSize,
		MaxPageSize:     cfg.Pagination.MaxPageSize,
	}

	application := app.New(db, m, pagination, logger)
	logger.Info("application initialized",
		"default_page_size", pagination.DefaultPageSize,
		"max_page_size", pagination.MaxPageSize,
	)

	return application
}

// Shutdown releases resources held by the application
func Shutdown(application *app.App, db *database.DB, logger *slog.Logger) {
	logger.Info("shutting down services...")

	if application != nil {
		application.Metrics.SetServiceHealth(false)
	}

	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
			return
		}
		logger.Info("database closed")
	}
}
