package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/techhub/server/internal/app/controllers"
	appMigrations "github.com/techhub/server/internal/app/migrations"
	"github.com/techhub/server/internal/app/models"
	appRepos "github.com/techhub/server/internal/app/repositories"
	appRoutes "github.com/techhub/server/internal/app/routes"
	appServices "github.com/techhub/server/internal/app/services"
	"github.com/techhub/server/internal/config"
	"github.com/techhub/server/internal/db"
	appMiddleware "github.com/techhub/server/internal/middleware"
	pkgAuth "github.com/techhub/server/internal/pkg/auth"
	"github.com/techhub/server/internal/pkg/email"
	"github.com/techhub/server/internal/pkg/helpers"
	"github.com/techhub/server/internal/pkg/logger"
	"github.com/techhub/server/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	UserRepository  *appRepos.UserRepository
	EventRepository *appRepos.EventRepository

	JWTService   *pkgAuth.JWTService
	EmailService *email.EmailServiceImpl
	AuthService  *appServices.AuthService
	EventService *appServices.EventService

	AuthController   *appControllers.AuthController
	EventController  *appControllers.EventController
	HealthController *appControllers.HealthController
	AuthMiddleware   *appMiddleware.AuthMiddleware

	// RateLimiter is nil when rate limiting is disabled.
	RateLimiter *appMiddleware.LimiterStore
	Logger      zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  prettyLog,
		Service: "techhub-api",
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase opens the connection pool.
func ConnectDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database.Pool, nil
}

// RunMigrations applies the embedded SQL migrations.
func RunMigrations(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(dbPool, appMigrations.Files(), lgr).Up(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")
	return nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the administrator account.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	dbPool, err := ConnectDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, dbPool, lgr); err != nil {
		dbPool.Close()
		return nil, err
	}

	admin := seed.Admin{Name: cfg.Admin.Name, Email: cfg.Admin.Email, Password: cfg.Admin.Password}
	if err := seed.CreateDefaultData(ctx, appRepos.NewUserRepository(dbPool), admin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr}

	deps.UserRepository = appRepos.NewUserRepository(dbPool)
	deps.EventRepository = appRepos.NewEventRepository(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 7*24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		BaseURL:   cfg.SMTP.BaseURL,
	}, lgr.With().Str("component", "email").Logger())

	deps.AuthService = appServices.NewAuthService(
		deps.UserRepository,
		deps.JWTService,
		deps.EmailService,
		lgr.With().Str("component", "auth").Logger(),
	)
	deps.EventService = appServices.NewEventService(
		deps.EventRepository,
		deps.UserRepository,
		deps.EmailService,
		models.FullEventPolicy(cfg.Events.FullPolicy),
		lgr.With().Str("component", "events").Logger(),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.EventController = appControllers.NewEventController(deps.EventService, lgr)
	deps.HealthController = appControllers.NewHealthController(dbPool)

	if cfg.RateLimit.Enabled {
		deps.RateLimiter = appMiddleware.NewLimiterStore(appMiddleware.RateLimitConfig{
			Requests: cfg.RateLimit.Requests,
			Window:   helpers.ParseDuration(cfg.RateLimit.Window, 15*time.Minute),
		})
	}

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		appMiddleware.Recovery(lgr),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.Metrics(),
		appMiddleware.SecurityHeaders(cfg.IsProduction()),
		appMiddleware.CORS(cfg.Server.CORSOrigins, lgr),
		appMiddleware.BodyLimit(cfg.Server.MaxBodyBytes),
	)
	if deps.RateLimiter != nil {
		router.Use(appMiddleware.RateLimit(deps.RateLimiter))
	}

	appRoutes.SetupRouter(router, appRoutes.Handlers{
		Auth:           deps.AuthController,
		Events:         deps.EventController,
		Health:         deps.HealthController,
		AuthMiddleware: deps.AuthMiddleware,
	})

	return router
}
