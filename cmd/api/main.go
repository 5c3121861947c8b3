package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/souchan25/attendance-go-api/internal/config"
	"github.com/souchan25/attendance-go-api/internal/database"
	"github.com/souchan25/attendance-go-api/internal/handler"
	"github.com/souchan25/attendance-go-api/internal/middleware"
	"github.com/souchan25/attendance-go-api/internal/repository"
	"github.com/souchan25/attendance-go-api/internal/router"
	"github.com/souchan25/attendance-go-api/internal/service"
	"github.com/souchan25/attendance-go-api/pkg/fingerprint"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := connectDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	middlewareClient, err := fingerprint.NewClient(fingerprint.ClientConfig{
		BaseURL: cfg.MiddlewareURL,
		Timeout: cfg.MiddlewareTimeout,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("failed to create fingerprint client: %v", err)
	}

	sensor := fingerprint.NewSensor(middlewareClient, fingerprint.Config{
		CaptureTimeout: cfg.CaptureTimeout,
		PollInterval:   cfg.PollInterval,
		OpenRetries:    cfg.OpenRetries,
		OpenRetryDelay: cfg.OpenRetryDelay,
		Logger:         logger,
	})

	validate := validator.New(validator.WithRequiredStructEnabled())

	personRepo := repository.NewPersonRepository(db)
	eventRepo := repository.NewEventRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	scanNotifier := service.NewScanNotifier(natsConn, cfg.ScanSubject, logger)

	personService := service.NewPersonService(personRepo, validate, logger)
	eventService := service.NewEventService(eventRepo, validate, logger)
	lifecycleService := service.NewLifecycleService(eventRepo, logger)
	rosterService := service.NewRosterService(eventRepo, personRepo, attendanceRepo, redisClient, cfg.RosterCacheTTL, logger)
	recorderService := service.NewRecorderService(personRepo, eventRepo, attendanceRepo, scanNotifier, rosterService, logger)
	identifyService := service.NewIdentifyService(templateRepo, middlewareClient, logger)
	enrollmentService := service.NewEnrollmentService(personRepo, templateRepo, sensor, validate, cfg.MinQuality, logger)
	statsService := service.NewStatsService(personRepo, eventRepo, attendanceRepo, logger)
	authService := service.NewAuthService(adminRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)

	personHandler := handler.NewPersonHandler(personService, enrollmentService, statsService, logger)
	eventHandler := handler.NewEventHandler(eventService, lifecycleService, rosterService, logger)
	kioskHandler := handler.NewKioskHandler(sensor, identifyService, recorderService, lifecycleService, logger)
	deviceHandler := handler.NewDeviceHandler(sensor, middlewareClient, validate, logger)
	authHandler := handler.NewAuthHandler(authService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		PersonHandler: personHandler,
		EventHandler:  eventHandler,
		KioskHandler:  kioskHandler,
		DeviceHandler: deviceHandler,
		AuthHandler:   authHandler,
		JWTMiddleware: middleware.JWTProtected(cfg.JWTSecret),
	})

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go lifecycleService.Run(sweepCtx, cfg.SweepInterval)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func connectDatabase(cfg config.Config) (*gorm.DB, error) {
	if cfg.DatabaseDriver == "sqlite" {
		return database.ConnectSQLite(cfg.SQLitePath)
	}

	return database.ConnectPostgres(cfg.DatabaseURL)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
