package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutor-marketplace/booking"
	"tutor-marketplace/config"
	"tutor-marketplace/database"
	"tutor-marketplace/events"
	"tutor-marketplace/handlers"
	"tutor-marketplace/logging"
	"tutor-marketplace/middleware"
	"tutor-marketplace/router"
	"tutor-marketplace/uploads"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			logger.Error("failed to disconnect from db", zap.Error(err))
		}
	}()
	if err := db.EnsureIndexes(ctx); err != nil {
		return err
	}
	logger.Info("connected to db", zap.String("database", cfg.MongoDatabase))

	files := uploads.New(cfg.UploadsDir)
	if err := files.Init(); err != nil {
		return err
	}

	var revoker middleware.Revoker = middleware.NoopRevoker{}
	var streams redis.UniversalClient
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis is not available: %w", err)
		}
		revoker = middleware.NewRedisRevoker(rdb)
		streams = rdb
		logger.Info("redis enabled for token revocation and booking events", zap.String("redis", cfg.RedisAddr))
	}

	bus, err := events.NewBus(logger, streams, events.StudentNotificationHandler(logger))
	if err != nil {
		return err
	}

	bookings := booking.NewService(db.Bookings, db.Users, db.Recordings, bus, logger,
		booking.Options{EnforceTutorOwnership: cfg.EnforceTutorOwnership})

	h := handlers.New(handlers.Deps{
		Users:        db.Users,
		Tutors:       db.Tutors,
		Availability: db.Availability,
		Recordings:   db.Recordings,
		Reviews:      db.Reviews,
		Payments:     db.Payments,
		Files:        files,
		Bookings:     bookings,
		Revoker:      revoker,
		Logger:       logger,
		TokenSecret:  cfg.JWTSecret,
		TokenTTL:     cfg.TokenTTL,
	})

	app := fiber.New(fiber.Config{
		BodyLimit:             int(uploads.MAX_FILE_SIZE),
		DisableStartupMessage: true,
	})
	router.SetupRoutes(app, h, router.Options{
		Guard:          middleware.NewGuard(cfg.JWTSecret, revoker),
		AuthLimiter:    middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateLimit),
		Logger:         logger,
		AllowedOrigins: cfg.Origins(),
		UploadsDir:     files.Root(),
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bus.Run(ctx)
	})

	g.Go(func() error {
		select {
		case <-bus.Running():
		case <-ctx.Done():
			return nil
		}
		logger.Info("starting server", zap.String("addr", cfg.ListenAddr()))
		return app.Listen(cfg.ListenAddr())
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		err := shutdownServer(app, shutdownTimeout)
		if err != nil {
			logger.Error("error stopping server", zap.Error(err))
		}
		if cerr := bus.Close(); cerr != nil {
			logger.Error("error stopping event router", zap.Error(cerr))
		}
		return err
	})

	return g.Wait()
}

// shutdownServer stops accepting connections and waits for in-flight requests
// for at most timeout.
func shutdownServer(app *fiber.App, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		done <- app.Shutdown()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("server did not stop within %s", timeout)
	}
}
