package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/cvportal/internal/app/controllers"
	appMigrations "github.com/yigit/cvportal/internal/app/migrations"
	"github.com/yigit/cvportal/internal/app/models/dto"
	appRepos "github.com/yigit/cvportal/internal/app/repositories"
	appRoutes "github.com/yigit/cvportal/internal/app/routes"
	appServices "github.com/yigit/cvportal/internal/app/services"
	"github.com/yigit/cvportal/internal/config"
	"github.com/yigit/cvportal/internal/db"
	appMiddleware "github.com/yigit/cvportal/internal/middleware"
	"github.com/yigit/cvportal/internal/pkg/apperrors"
	pkgAuth "github.com/yigit/cvportal/internal/pkg/auth"
	"github.com/yigit/cvportal/internal/pkg/cache"
	"github.com/yigit/cvportal/internal/pkg/cvpdf"
	"github.com/yigit/cvportal/internal/pkg/email"
	"github.com/yigit/cvportal/internal/pkg/filestorage"
	"github.com/yigit/cvportal/internal/pkg/logger"
	"github.com/yigit/cvportal/internal/seed"
)

// uploadsURLPrefix is both the static route and the prefix of stored file paths
const uploadsURLPrefix = "uploads"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services       appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	Lookups        *appServices.StudentLookups
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	RedisClient    *redis.Client
	Pool           *pgxpool.Pool
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath, ".env")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFromSettings(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx := context.Background()

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// SeedDemoData inserts the demo students when seeding is enabled.
func SeedDemoData(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	if !cfg.Seed.Enabled {
		return
	}
	seedStudents(ctx, deps.Pool, deps.Lookups, deps.Logger)
}

// seedStudents drops the cached lookup lists once new students are stored
func seedStudents(ctx context.Context, beginner db.TxBeginner, lookups *appServices.StudentLookups, lgr zerolog.Logger) {
	created, err := seed.Students(ctx, beginner, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to seed demo students, proceeding anyway...")
		return
	}
	if created > 0 && lookups != nil {
		lookups.Invalidate(ctx)
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, pool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Pool: pool}

	deps.Repos = appRepos.NewRepositories(pool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.UploadDir, uploadsURLPrefix)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	var lookupCache cache.LookupCache = cache.NoopCache{}
	if cfg.CacheEnabled() {
		deps.RedisClient = cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		lookupCache = cache.NewRedisCache(deps.RedisClient, cfg.CacheTTL())
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Lookup cache enabled")
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:            cfg.JWT.Secret,
		AccessTokenExp:       cfg.AccessTokenTTL(),
		VerificationTokenExp: cfg.VerificationTokenTTL(),
		TokenIssuer:          cfg.JWT.Issuer,
	})

	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.Mail.Host,
		Port:      cfg.Mail.Port,
		Username:  cfg.Mail.Username,
		Password:  cfg.Mail.Password,
		FromName:  cfg.Mail.FromName,
		FromEmail: cfg.Mail.FromEmail,
		UseTLS:    cfg.Mail.UseTLS,
		AppName:   cfg.App.Name,
	}, logger.WithComponent("email"))

	lookups := appServices.NewStudentLookups(deps.Repos.StudentRepository, lookupCache, lgr)
	deps.Lookups = lookups

	deps.Services.AuthService = appServices.NewAuthService(
		deps.Repos.CompanyRepository,
		deps.JWTService,
		pkgAuth.NewTOTPService(cfg.TOTP.Issuer),
		mailer,
		appServices.AuthConfig{
			BaseURL:          cfg.App.BaseURL,
			PasswordResetTTL: cfg.PasswordResetTTL(),
		},
		logger.WithComponent("auth"),
	)
	deps.Services.CompanyService = appServices.NewCompanyService(
		deps.Repos.CompanyRepository,
		deps.Repos.StudentRepository,
		lookups,
		logger.WithComponent("company"),
	)
	deps.Services.StudentService = appServices.NewStudentService(
		deps.Repos.StudentRepository,
		deps.FileStorage,
		lookups,
		cfg.Server.MaxUploadBytes,
		logger.WithComponent("student"),
	)
	renderer, err := newCVRenderer(cfg)
	if err != nil {
		return nil, err
	}
	deps.Services.CVService, err = appServices.NewCVService(
		deps.Repos.StudentRepository,
		deps.FileStorage,
		renderer,
		lookups,
		cfg.Storage.TempDir,
		logger.WithComponent("cv"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cv service: %w", err)
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		Auth:    appControllers.NewAuthController(deps.Services.AuthService, lgr),
		Company: appControllers.NewCompanyController(deps.Services.CompanyService, lgr),
		Student: appControllers.NewStudentController(deps.Services.StudentService, lgr),
		CV:      appControllers.NewCVController(deps.Services.CVService, lgr),
	}

	return deps, nil
}

// newCVRenderer uses the configured TrueType fonts, or the bundled DejaVu Sans when none is set
func newCVRenderer(cfg *config.Config) (*cvpdf.Renderer, error) {
	lgr := logger.WithComponent("cvpdf")
	if cfg.CV.FontPath == "" {
		return cvpdf.NewRenderer(lgr), nil
	}
	renderer, err := cvpdf.NewRendererWithFont(lgr, cfg.CV.FontPath, cfg.CV.BoldFontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cv renderer: %w", err)
	}
	return renderer, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr), appMiddleware.Recovery(lgr))
	router.MaxMultipartMemory = cfg.Server.MaxUploadBytes

	// Uploaded photos and certificates are public
	router.Static("/"+uploadsURLPrefix, cfg.Storage.UploadDir)

	router.GET("/health", healthHandler(deps))

	appRoutes.SetupRouter(router, cfg.Server.BasePath, deps.Controllers, deps.AuthMiddleware)
	appRoutes.SetupSwagger(router)

	router.NoRoute(func(c *gin.Context) {
		appMiddleware.HandleAPIError(c, apperrors.NewResourceNotFoundError("Route not found"))
	})

	return router, nil
}

func healthHandler(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"database": "up"}
		if deps.Pool != nil {
			if err := deps.Pool.Ping(ctx); err != nil {
				deps.Logger.Warn().Err(err).Msg("Health check: database ping failed")
				appMiddleware.HandleAPIError(c, apperrors.NewUnavailableError(err))
				return
			}
		}
		if deps.RedisClient != nil {
			status["cache"] = "up"
			if err := deps.RedisClient.Ping(ctx).Err(); err != nil {
				deps.Logger.Warn().Err(err).Msg("Health check: cache ping failed")
				status["cache"] = "down"
			}
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(status, "ok"))
	}
}
