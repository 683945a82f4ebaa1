package main

import (
	"os"

	"github.com/tutorhub/selection/internal/pkg/logger"
	"github.com/tutorhub/selection/internal/server"
)

// @title Tutor Selection API
// @version 1.0
// @description API for tutor applications, lecturer selection decisions and admin reports.
// @description Every response uses one envelope: {success, message, data, timestamp} on success and
// @description {success: false, error: {code, message, details}} on failure.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@tutorhub.example

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization, as "Bearer <token>"

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Error details are logged within NewServer's setup functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
