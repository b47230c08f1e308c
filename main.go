package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ezauction/ezauction/ezauction"
	"github.com/ezauction/ezauction/ezauction/auction"
	"github.com/ezauction/ezauction/ezauction/database"
	"github.com/ezauction/ezauction/ezauction/database/repositories"
	"github.com/ezauction/ezauction/ezauction/logger"
	"github.com/ezauction/ezauction/web/handlers"
	"github.com/ezauction/ezauction/web/middleware"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	configPath := "config.toml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// The level var lets the bootstrap logger run before the config is
	// loaded and still honour [log] level afterwards.
	logLevel := new(slog.LevelVar)
	slog.SetDefault(slog.New(logger.NewHandler(logLevel)))

	logger.LogSystem("Starting EZAuction API",
		slog.String("version", version),
		slog.String("commit", commit),
	)

	cfg, err := ezauction.LoadConfig(configPath)
	if err != nil {
		logger.LogError("Failed to load config", err)
		os.Exit(1)
	}

	logLevel.Set(cfg.Log.Level)
	if cfg.Log.Format == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: cfg.Log.AddSource,
		})))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.LogSystem("Connecting to database...")
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		logger.LogError("Failed to connect to database", err)
		os.Exit(1)
	}

	if err := db.InitializeSchema(ctx); err != nil {
		logger.LogError("Failed to initialize schema", err)
		os.Exit(1)
	}
	logger.LogSystem("Database ready")

	playerRepo := repositories.NewPlayerRepository(db.BunDB())
	teamRepo := repositories.NewTeamRepository(db.BunDB())
	bidRepo := repositories.NewBidRepository(db.BunDB())
	stateRepo := repositories.NewAuctionStateRepository(db.BunDB())

	manager := auction.NewManager(stateRepo, playerRepo, teamRepo, bidRepo, auction.NewBroadcaster())
	engine := manager.BidEngine()

	app := fiber.New(fiber.Config{
		AppName:      "EZAuction API",
		ServerHeader: "EZAuction",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	allowOrigins := "http://localhost:3000,http://localhost:5173"
	if len(cfg.Web.AllowedOrigins) > 0 {
		allowOrigins = strings.Join(cfg.Web.AllowedOrigins, ",")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With",
		AllowCredentials: true,
	}))
	app.Use(middleware.LoggingMiddleware())

	webApp := &handlers.WebApp{
		DB:      db,
		Manager: manager,
		Engine:  engine,
		Players: playerRepo,
		Teams:   teamRepo,
		Bids:    bidRepo,
		Version: version,
		Commit:  commit,
	}
	webApp.SetupRoutes(app)

	address := fmt.Sprintf(":%s", cfg.Web.Port)
	logger.LogSystem("Starting auction server", slog.String("address", address))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := app.Listen(address); err != nil {
			logger.LogError("Failed to start server", err)
		}
	}()

	<-c
	logger.LogSystem("Shutting down auction server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.LogError("Server shutdown error", err)
	}

	db.Close()

	logger.LogSystem("Auction server shutdown complete")
}
