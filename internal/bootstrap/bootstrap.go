package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/tutorhub/selection/internal/app/auth"
	appControllers "github.com/tutorhub/selection/internal/app/controllers"
	appMigrations "github.com/tutorhub/selection/internal/app/migrations"
	appRepos "github.com/tutorhub/selection/internal/app/repositories"
	appRoutes "github.com/tutorhub/selection/internal/app/routes"
	appServices "github.com/tutorhub/selection/internal/app/services"
	"github.com/tutorhub/selection/internal/config"
	"github.com/tutorhub/selection/internal/db"
	appMiddleware "github.com/tutorhub/selection/internal/middleware"
	pkgAuth "github.com/tutorhub/selection/internal/pkg/auth"
	"github.com/tutorhub/selection/internal/pkg/helpers"
	"github.com/tutorhub/selection/internal/pkg/logger"
	"github.com/tutorhub/selection/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store                 appRepos.Store
	AuthService           appServices.AuthService
	ApplicationService    appServices.ApplicationService
	CourseService         appServices.CourseService
	UserService           appServices.UserService
	ReportService         appServices.ReportService
	AuthController        *appControllers.AuthController
	ApplicationController *appControllers.ApplicationController
	CourseController      *appControllers.CourseController
	AdminController       *appControllers.AdminController
	AuthMiddleware        *appMiddleware.AuthMiddleware
	JWTService            *pkgAuth.JWTService
	AuthzService          *appAuth.AuthorizationService
	Logger                zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: cfg.Logging.Format == "text",
	})
	appMiddleware.SetDebugInfo(!cfg.IsProduction())

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if cfg.Database.AutoMigrate {
		lgr.Info().Msg("Running database migrations...")
		if err := appMigrations.NewMigrator(database.Pool, lgr).Up(ctx); err != nil {
			lgr.Error().Err(err).Msg("Database migration error")
			database.Close()
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")
	}

	if err := seed.CreateDefaultData(ctx, appRepos.NewPostgresStore(database), cfg, lgr); err != nil {
		// Seeding problems do not block startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr}

	deps.Store = appRepos.NewPostgresStore(database)
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Store, cfg.Auth.AdminEmails)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(deps.Store, deps.AuthzService, deps.JWTService, lgr)
	deps.ApplicationService = appServices.NewApplicationService(deps.Store, lgr)
	deps.CourseService = appServices.NewCourseService(deps.Store)
	deps.UserService = appServices.NewUserService(deps.Store, deps.AuthzService, lgr)
	deps.ReportService = appServices.NewReportService(deps.Store)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Store)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.ApplicationController = appControllers.NewApplicationController(deps.ApplicationService, deps.AuthzService, lgr)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.AdminController = appControllers.NewAdminController(deps.ReportService, deps.UserService)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, database *db.PostgresDB) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		deps.Logger.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		deps.Logger.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(deps.Logger))

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ApplicationController,
		deps.CourseController,
		deps.AdminController,
		deps.AuthMiddleware,
	)

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Pool.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
