package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/theleywin/Backend-Skill-Barter/src/lib"
	"github.com/theleywin/Backend-Skill-Barter/src/realtime"
	"github.com/theleywin/Backend-Skill-Barter/src/routes"
	"github.com/theleywin/Backend-Skill-Barter/src/services"
	"github.com/theleywin/Backend-Skill-Barter/src/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "skill-barter: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := lib.LoadConfig()
	if err != nil {
		return err
	}

	log := lib.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	if cfg.UsesFallbackSecret() {
		log.Warn("JWT_SECRET is not set, using the development fallback secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the SQL database
	db, err := lib.ConnectDB(cfg, log)
	if err != nil {
		return err
	}
	if err := lib.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("database migration completed")

	// Almacén de mensajes: la base SQL principal o MongoDB
	var messages store.MessageStore = &store.GormMessageStore{DB: db}
	if cfg.MessageStore == "mongo" {
		mongoStore, err := store.NewMongoMessageStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return err
		}
		defer mongoStore.Close(context.Background())
		messages = mongoStore
		log.Info("messages stored in mongo", "database", cfg.MongoDatabase)
	}

	// Canales en tiempo real: en memoria o compartidos por Redis entre instancias
	var hub realtime.Hub = realtime.NewMemoryHub()
	if cfg.RedisURL != "" {
		redisHub, err := realtime.NewRedisHubFromURL(ctx, cfg.RedisURL, log)
		if err != nil {
			return err
		}
		hub = redisHub
		log.Info("real-time fan-out through redis")
	}
	defer hub.Close()

	notifications := &services.NotificationService{DB: db, Logger: log}
	connections := &services.ConnectionService{DB: db, Notifications: notifications, Logger: log}
	deps := routes.Dependencies{
		DB:     db,
		Logger: log,
		Users: &services.UserService{
			DB:             db,
			JWTSecret:      cfg.JWTSecret,
			JWTTTL:         cfg.JWTTTL,
			InitialCredits: cfg.InitialCredits,
		},
		Connections: connections,
		Chat: &services.ChatService{
			Connections:           connections,
			Messages:              messages,
			Hub:                   hub,
			Logger:                log,
			EnforceSendConnection: cfg.EnforceSendConnection,
		},
		Settlement: &services.SettlementService{
			DB:            db,
			Connections:   connections,
			Notifications: notifications,
			Logger:        log,
		},
		Notifications: notifications,
		Hub:           hub,
	}

	app := fiber.New(fiber.Config{
		AppName:               "skill-barter",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	routes.Register(app, deps)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server is running", "port", cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	return app.ShutdownWithTimeout(cfg.ShutdownTimeout)
}
