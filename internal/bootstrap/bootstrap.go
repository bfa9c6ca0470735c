package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/edutrack/internal/app/controllers"
	appMigrations "github.com/yigit/edutrack/internal/app/migrations"
	appRepos "github.com/yigit/edutrack/internal/app/repositories"
	appRoutes "github.com/yigit/edutrack/internal/app/routes"
	appServices "github.com/yigit/edutrack/internal/app/services"
	"github.com/yigit/edutrack/internal/config"
	"github.com/yigit/edutrack/internal/db"
	appMiddleware "github.com/yigit/edutrack/internal/middleware"
	pkgAuth "github.com/yigit/edutrack/internal/pkg/auth"
	"github.com/yigit/edutrack/internal/pkg/logger"
	"github.com/yigit/edutrack/internal/pkg/session"
	"github.com/yigit/edutrack/internal/pkg/validation"
	"github.com/yigit/edutrack/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos             *appRepos.Repositories
	Sessions          session.Store
	JWTService        *pkgAuth.JWTService
	StudentService    appServices.StudentService
	CourseService     appServices.CourseService
	EnrollmentService appServices.EnrollmentService
	AuthService       *appServices.AuthService
	HealthService     *appServices.HealthService
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Controllers       appRoutes.Controllers
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(filepath.Join("configs", "config.yaml"), ".env")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  prettyLog,
		Service: cfg.Server.ServiceName,
	})

	lgr := logger.Get()
	lgr.Info().
		Str("logLevel", string(logLevel)).
		Str("logFormat", cfg.Logging.Format).
		Str("service", cfg.Server.Service).
		Msg("Logger configured")

	if cfg.GeneratedSecret {
		lgr.Warn().Msg("auth.token_secret is not set; using a per-process secret, tokens will not survive a restart")
	}
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().
		Str("host", cfg.Database.Host).
		Str("port", cfg.Database.Port).
		Str("dbname", cfg.Database.DBName).
		Msg("Establishing database connection...")

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)
	if err := migrator.Migrate(ctx, appMigrations.Embedded()); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return dbPool, nil
}

// SetupSessionStore opens the configured admin session backend.
func SetupSessionStore(cfg *config.Config, lgr zerolog.Logger) (session.Store, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		store, err := session.NewRedisStore(ctx, session.RedisOptions{
			Addr:      cfg.Session.RedisAddr,
			Password:  cfg.Session.RedisPassword,
			DB:        cfg.Session.RedisDB,
			KeyPrefix: cfg.Session.KeyPrefix,
		})
		if err != nil {
			lgr.Error().Err(err).Str("addr", cfg.Session.RedisAddr).Msg("Failed to connect to session redis")
			return nil, err
		}
		lgr.Info().Str("addr", cfg.Session.RedisAddr).Msg("Using redis session store")
		return store, nil
	default:
		lgr.Info().Msg("Using in-memory session store; sessions are lost on restart and not shared between instances")
		return session.NewMemoryStore(), nil
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, sessions session.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Sessions: sessions}

	deps.Repos = appRepos.NewRepositories(dbPool, cfg.Database.TxMaxAttempts)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.Auth.TokenSecret,
		TokenExp:    cfg.SessionTTL(),
		TokenIssuer: cfg.Auth.Issuer,
	})

	deps.StudentService = appServices.NewStudentService(deps.Repos.StudentRepository, lgr)
	deps.CourseService = appServices.NewCourseService(deps.Repos.CourseRepository, lgr)
	deps.EnrollmentService = appServices.NewEnrollmentService(
		deps.Repos.EnrollmentRepository,
		deps.Repos.StudentRepository,
		deps.Repos.CourseRepository,
		lgr,
	)
	deps.AuthService = appServices.NewAuthService(deps.Repos.AdminRepository, deps.JWTService, sessions, lgr)
	deps.HealthService = appServices.NewHealthService(dbPool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := seed.CreateDefaultAdmin(ctx, deps.Repos.AdminRepository, seed.DefaultAdmin{
		Username: cfg.Auth.AdminUsername,
		Password: cfg.Auth.AdminPassword,
	}, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default admin, proceeding anyway...")
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService)

	deps.Controllers = appRoutes.Controllers{
		Student:    appControllers.NewStudentController(deps.StudentService, deps.EnrollmentService),
		Course:     appControllers.NewCourseController(deps.CourseService, deps.EnrollmentService),
		Enrollment: appControllers.NewEnrollmentController(deps.EnrollmentService),
		Auth:       appControllers.NewAuthController(deps.AuthService),
		Health:     appControllers.NewHealthController(deps.HealthService, cfg.Server.ServiceName, appRoutes.Endpoints(cfg)),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.RegisterWithGin(); err != nil {
		lgr.Error().Err(err).Msg("Failed to register custom validation rules")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(), appMiddleware.CORS())

	appRoutes.SetupSwagger(router, cfg.Server.ServiceName)
	appRoutes.SetupRouter(router, cfg, deps.Controllers, deps.AuthMiddleware)

	return router
}
