package bootstrap

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/unidwh/internal/app/controllers"
	"github.com/yigit/unidwh/internal/app/models"
	"github.com/yigit/unidwh/internal/app/normalize"
	"github.com/yigit/unidwh/internal/app/report"
	appRepos "github.com/yigit/unidwh/internal/app/repositories"
	appRoutes "github.com/yigit/unidwh/internal/app/routes"
	appServices "github.com/yigit/unidwh/internal/app/services"
	"github.com/yigit/unidwh/internal/app/sources"
	"github.com/yigit/unidwh/internal/config"
	"github.com/yigit/unidwh/internal/db"
	appMiddleware "github.com/yigit/unidwh/internal/middleware"
	"github.com/yigit/unidwh/internal/pkg/helpers"
	"github.com/yigit/unidwh/internal/pkg/logger"
	"github.com/yigit/unidwh/internal/pkg/metrics"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	DB               *db.PostgresDB
	Metrics          *metrics.Metrics
	IngestService    *appServices.IngestService
	ReportService    *appServices.ReportService
	ReportController *appControllers.ReportController
	Logger           zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr.Debug().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the warehouse connection pool. The warehouse schema is
// expected to exist already.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Debug().
		Str("host", cfg.Database.Host).
		Str("dbname", cfg.Database.DBName).
		Str("schema", cfg.Database.Schema).
		Msg("Establishing database connection...")

	database, err := db.NewPostgresDB(cfg, logger.Component(lgr, "db"))
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	lgr.Debug().Msg("Database connection successfully established.")
	return database, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{
		DB:      database,
		Metrics: metrics.New(),
		Logger:  lgr,
	}

	schema := cfg.Database.Schema

	reader := sources.NewFileReader(cfg.MetadataPath(), cfg.CoursesPath(), cfg.ResultsPath())
	deps.IngestService = appServices.NewIngestService(
		appRepos.NewPostgresWarehouse(database, schema),
		reader,
		normalize.NewNameParser(cfg.Normalize.Titles),
		appServices.IngestOptions{
			DedupeGrades: cfg.Load.DedupeGrades,
			Timeout:      helpers.ParseDuration(cfg.Load.Timeout, 5*time.Minute),
		},
		logger.Component(lgr, "ingest"),
		deps.Metrics,
	)

	deps.ReportService = appServices.NewReportService(
		appRepos.NewPostgresReportStore(database, schema),
		report.NewBuilder(schema, models.TableGrades),
		helpers.ParseDuration(cfg.Report.Timeout, 30*time.Second),
		logger.Component(lgr, "report"),
		deps.Metrics,
	)

	deps.ReportController = appControllers.NewReportController(deps.ReportService)

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
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(logger.Component(lgr, "http")))

	appRoutes.SetupRouter(router, deps.ReportController)

	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
