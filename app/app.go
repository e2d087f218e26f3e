package app

import (
	"log/slog"

	"notefall/database"
	"notefall/services"
	"notefall/validator"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	DB           *database.DB
	Validator    *validator.Validator
	Auth         *services.AuthService
	Registration *services.RegistrationService
	Logger       *slog.Logger
}

// New creates a new App instance with all dependencies
func New(db *database.DB, logger *slog.Logger) *App {
	v := validator.New()
	return &App{
		DB:           db,
		Validator:    v,
		Auth:         services.NewAuthService(),
		Registration: services.NewRegistrationService(v),
		Logger:       logger,
	}
}
