package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/taskforge-dev/taskforge/db"
	"github.com/taskforge-dev/taskforge/internal/auth"
	"github.com/taskforge-dev/taskforge/internal/authz"
	"github.com/taskforge-dev/taskforge/internal/config"
	"github.com/taskforge-dev/taskforge/internal/handlers"
	"github.com/taskforge-dev/taskforge/internal/router"
	"github.com/taskforge-dev/taskforge/internal/scheduler"
	"github.com/taskforge-dev/taskforge/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using process environment")
	}

	cfg, err := config.Load()

	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	conn, err := db.Connect(cfg.DatabaseDSN)

	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := db.Migrate(conn); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	st := store.NewGormStore(conn)

	tokens, err := auth.NewTokenService(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, st.RefreshTokens())

	if err != nil {
		logger.Error("failed to initialize token service", "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(st.Users(), tokens, logger)
	engine := authz.NewEngine(st.Projects(), st.Tasks(), logger)

	sweeper := scheduler.NewTokenSweeper(st.RefreshTokens(), cfg.TokenSweepInterval, logger)
	sweeper.Start()
	defer sweeper.Stop()

	r := router.New(router.Dependencies{
		Auth:           handlers.NewAuthHandler(authService, logger),
		Users:          handlers.NewUserHandler(st.Users(), engine, logger),
		Projects:       handlers.NewProjectHandler(st.Projects(), engine, logger),
		Tasks:          handlers.NewTaskHandler(st.Tasks(), st.Users(), engine, logger),
		Tokens:         tokens,
		AllowedOrigins: cfg.CORSAllowedOrigins(),
		Logger:         logger,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		sweeper.Stop()
		os.Exit(0)
	}()

	logger.Info("starting server", "port", cfg.Port)

	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
