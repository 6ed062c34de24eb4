package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/korfside/club-system/config"
	"github.com/korfside/club-system/db"
	"github.com/korfside/club-system/handlers"
	"github.com/korfside/club-system/live"
	"github.com/korfside/club-system/repositories"
	api "github.com/korfside/club-system/routes"
	"github.com/korfside/club-system/services"
	"github.com/korfside/club-system/storage"
	"github.com/korfside/club-system/twizzit"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured, club logo uploads disabled")
	}

	wsHub := live.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	clubRepo := repositories.NewPostgresClubRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	competitionRepo := repositories.NewPostgresCompetitionRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	registrationRepo := repositories.NewPostgresTwizzitRegistrationRepository(dbConn)
	rosterRepo := repositories.NewPostgresRosterRepository(dbConn)
	templateRepo := repositories.NewPostgresExportTemplateRepository(dbConn)
	txManager := db.NewTxManager(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo)
	clubService := services.NewClubService(clubRepo, teamRepo, uploader)
	teamService := services.NewTeamService(teamRepo, clubRepo, playerRepo)
	playerService := services.NewPlayerService(playerRepo, clubRepo, teamRepo, registrationRepo)
	competitionService := services.NewCompetitionService(competitionRepo)
	gameService := services.NewGameService(gameRepo, clubRepo, competitionRepo)
	registrationService := services.NewRegistrationService(registrationRepo, playerRepo, txManager, wsHub)
	rosterService := services.NewRosterService(rosterRepo, gameRepo, competitionRepo, playerRepo, txManager, wsHub)
	dashboardService := services.NewDashboardService(playerRepo, teamRepo, competitionRepo, gameRepo)
	templateService := services.NewTemplateService(templateRepo)
	logger.Info("services initialized")

	if cfg.TwizzitSyncCron != "" && cfg.TwizzitBaseURL != "" {
		client, err := twizzit.NewClient(twizzit.Config{
			BaseURL:  cfg.TwizzitBaseURL,
			APIToken: cfg.TwizzitAPIToken,
		})
		if err != nil {
			logger.Error("failed to initialize twizzit client", slog.Any("error", err))
			os.Exit(1)
		}
		syncJob := twizzit.NewSyncJob(client, clubRepo, playerRepo, registrationRepo, registrationService, wsHub, logger)

		scheduler := cron.New()
		_, err = scheduler.AddFunc(cfg.TwizzitSyncCron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if _, err := syncJob.Run(ctx); err != nil {
				logger.Error("twizzit sync run failed", slog.Any("error", err))
			}
		})
		if err != nil {
			logger.Error("invalid TWIZZIT_SYNC_CRON expression", slog.Any("error", err))
			os.Exit(1)
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("twizzit sync scheduled", slog.String("cron", cfg.TwizzitSyncCron))
	} else {
		logger.Warn("twizzit sync not configured, registrations must be linked manually")
	}

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	clubHandler := handlers.NewClubHandler(clubService)
	teamHandler := handlers.NewTeamHandler(teamService)
	playerHandler := handlers.NewPlayerHandler(playerService, registrationService)
	competitionHandler := handlers.NewCompetitionHandler(competitionService)
	gameHandler := handlers.NewGameHandler(gameService)
	rosterHandler := handlers.NewRosterHandler(rosterService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		clubHandler,
		teamHandler,
		playerHandler,
		competitionHandler,
		gameHandler,
		rosterHandler,
		dashboardHandler,
		templateHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
