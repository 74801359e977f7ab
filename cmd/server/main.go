package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tutordesk/tutordesk/internal/api"
	"github.com/tutordesk/tutordesk/internal/app"
	"github.com/tutordesk/tutordesk/internal/config"
	"github.com/tutordesk/tutordesk/internal/events"
	"github.com/tutordesk/tutordesk/internal/notify"
	"github.com/tutordesk/tutordesk/internal/service"
	"github.com/tutordesk/tutordesk/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	local, err := store.OpenLocalStore(filepath.Join(cfg.DataDir, "tutordesk.json"))
	if err != nil {
		logger.Fatal("Failed to open local store", zap.Error(err))
	}

	// The local file is the durable source of truth; a configured
	// Postgres DSN adds best-effort replication on top.
	var st store.Store = local
	var replicated *store.ReplicatedStore
	if cfg.DBDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			logger.Fatal("Failed to create pgx pool", zap.Error(err))
		}

		migrator, err := app.NewMigrator(pool, "migrations")
		if err != nil {
			logger.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := migrator.Run(ctx); err != nil {
			logger.Warn("Migrations failed, continuing with local store only", zap.Error(err))
		}
		migrator.Close()

		replicated = store.NewReplicatedStore(local, store.NewPostgresStore(pool), logger)
		st = replicated
	}

	var broadcast events.Broadcaster = events.NewLocalBroadcaster()
	if cfg.NatsURL != "" {
		nb, err := events.NewNatsBroadcaster(cfg.NatsURL, logger)
		if err != nil {
			logger.Warn("NATS unavailable, falling back to local broadcast", zap.Error(err))
		} else {
			defer nb.Close()
			broadcast = nb
		}
	}

	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.TelegramToken != "" {
		tn, err := notify.NewTelegramNotifier(cfg.TelegramToken, logger)
		if err != nil {
			logger.Warn("Telegram unavailable, notices go to the log", zap.Error(err))
		} else {
			notifier = tn
		}
	}

	scheduleSvc := service.NewScheduleService(st, broadcast, logger)
	slotSvc := service.NewSlotService(st, scheduleSvc, broadcast, logger)
	bookingSvc := service.NewBookingService(st, broadcast, notifier, logger)
	rescheduleSvc := service.NewRescheduleService(st, broadcast, notifier, logger)
	sessionSvc := service.NewSessionService(st, broadcast, notifier, logger)
	studentSvc := service.NewStudentService(st, broadcast, logger)

	scheduler := app.NewScheduler(replicated, bookingSvc, sessionSvc, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	fiberApp := fiber.New(fiber.Config{DisableStartupMessage: true})
	api.Register(fiberApp, cfg.AccessCode,
		api.NewScheduleHandler(scheduleSvc, slotSvc),
		api.NewBookingHandler(bookingSvc, rescheduleSvc),
		api.NewSessionHandler(sessionSvc),
		api.NewStudentHandler(studentSvc),
	)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info("Shutting down")
		fiberApp.Shutdown()
		cancel()
	}()

	logger.Info("Starting tutordesk server",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
		zap.Bool("remote_store", replicated != nil),
	)
	if err := fiberApp.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
