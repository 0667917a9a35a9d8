package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/admitra/admission-engine/internal/apperror"
	"github.com/admitra/admission-engine/internal/config"
	"github.com/admitra/admission-engine/internal/domain/fiber/handler"
	"github.com/admitra/admission-engine/internal/logger"
	"github.com/admitra/admission-engine/internal/middleware"
	"github.com/admitra/admission-engine/internal/ml"
	"github.com/admitra/admission-engine/internal/model"
	"github.com/admitra/admission-engine/internal/repository"
	"github.com/admitra/admission-engine/internal/service"
	"github.com/admitra/admission-engine/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	log := logger.New(appConfig.LogLevel, appConfig.LogFormat)
	defer log.Sync()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}
			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.Env == "production"
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := connectDB(log)

	outcomeRepo := repository.NewOutcomeRepository(db)
	registryRepo := repository.NewRegistryRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	runRepo := repository.NewTrainingRunRepository(db)
	artifacts := ml.NewArtifactStore(config.LoadArtifactsConfig().Dir)
	notifier := service.NewWebhookNotifier(log)

	predictionUC := usecase.NewPredictionUsecase(registryRepo, outcomeRepo, evaluationRepo, artifacts, log)
	trainingUC := usecase.NewTrainingUsecase(outcomeRepo, registryRepo, runRepo, artifacts, notifier, log)
	registryUC := usecase.NewRegistryUsecase(registryRepo, predictionUC, log)

	// A missing or unloadable artifact is a normal operating state; the
	// prediction path starts on the heuristic scorer instead.
	var missing *apperror.ArtifactMissingError
	if err := predictionUC.ReloadModel(); err != nil && !errors.As(err, &missing) {
		log.Fatal("failed to load active model", zap.Error(err))
	}

	handler.NewAdmissionHandler(predictionUC).RegisterRoutes(app)
	handler.NewTrainingHandler(trainingUC, registryUC).RegisterRoutes(app)
	handler.NewRegistryHandler(registryUC).RegisterRoutes(app)

	log.Info("server starting", zap.String("port", appConfig.Port))
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func connectDB(log *zap.Logger) *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	db, err := gorm.Open(postgres.Open(dbConfig.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatal("could not connect to database", zap.Error(err))
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatal("could not get database instance", zap.Error(err))
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(
		&model.HistoricalOutcome{},
		&model.ModelVersion{},
		&model.ProfileEvaluation{},
		&model.TrainingRun{},
	)
	if err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	return db
}
