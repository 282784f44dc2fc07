package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/emre/coursehub/internal/app/controllers"
	appMigrations "github.com/emre/coursehub/internal/app/migrations"
	appRepos "github.com/emre/coursehub/internal/app/repositories"
	appRoutes "github.com/emre/coursehub/internal/app/routes"
	appServices "github.com/emre/coursehub/internal/app/services"
	"github.com/emre/coursehub/internal/config"
	"github.com/emre/coursehub/internal/db"
	appMiddleware "github.com/emre/coursehub/internal/middleware"
	"github.com/emre/coursehub/internal/pkg/logger"
	"github.com/emre/coursehub/internal/pkg/session"
	"github.com/emre/coursehub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos             *appRepos.Repositories
	StudentService    *appServices.StudentService
	CourseService     *appServices.CourseService
	HomeController    *appControllers.HomeController
	StudentController *appControllers.StudentController
	SessionManager    *session.Manager
	SessionMiddleware *appMiddleware.SessionMiddleware
	RedisClient       *redis.Client // nil when the in-memory store is active
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations, and
// seeds the course catalogue.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to seed default courses, proceeding anyway...")
	}

	return dbPool, nil
}

// SetupSessionStore selects the session backend: redis when an address is
// configured, otherwise the in-memory store.
func SetupSessionStore(cfg *config.Config, lgr zerolog.Logger) (session.Store, *redis.Client, error) {
	if cfg.Redis.Addr == "" {
		lgr.Warn().Msg("No redis address configured, using in-memory session store")
		return session.NewMemoryStore(), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis session store configured")
	return session.NewRedisStore(client), client, nil
}

// BuildDependencies initializes repositories, services, controllers, and
// middleware.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	sessionStore, redisClient, err := SetupSessionStore(cfg, lgr)
	if err != nil {
		return nil, err
	}
	deps.RedisClient = redisClient

	deps.SessionManager = session.NewManager(
		sessionStore,
		cfg.Session.CookieName,
		cfg.SessionTTL(),
		cfg.Session.Secure,
	)

	deps.StudentService = appServices.NewStudentService(deps.Repos.Students, cfg.Security.BcryptCost, lgr)
	deps.CourseService = appServices.NewCourseService(deps.Repos.Courses, deps.Repos.Enrollments)

	deps.SessionMiddleware = appMiddleware.NewSessionMiddleware(deps.SessionManager, lgr)

	deps.HomeController = appControllers.NewHomeController(sessionStore, lgr)
	deps.StudentController = appControllers.NewStudentController(
		deps.StudentService,
		deps.CourseService,
		deps.SessionManager,
		lgr,
	)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware, templates, and
// routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(deps.SessionMiddleware.Load())

	router.LoadHTMLGlob(cfg.Server.TemplateGlob)

	appRoutes.SetupRouter(router, deps.HomeController, deps.StudentController, deps.SessionMiddleware)

	return router
}
