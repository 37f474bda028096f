package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"outreachengine/config"
	"outreachengine/internal/adapters/auth"
	"outreachengine/internal/adapters/email"
	delivery "outreachengine/internal/delivery/http"
	"outreachengine/internal/delivery/http/controllers"
	"outreachengine/internal/delivery/http/middleware"
	"outreachengine/internal/domain"
	"outreachengine/internal/repository/postgres"
	"outreachengine/internal/services"
)

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	recipientRepo := postgres.NewRecipientRepository(db)
	store := postgres.NewOutreachStore(db)

	dialer, err := email.NewChannelDialer(cfg.Email, logger)
	if err != nil {
		logger.Error("failed to configure delivery channel", "err", err)
		os.Exit(1)
	}
	resolver := services.NewContentResolver(email.NewTemplateRegistry(), cfg.Email.SenderName)

	fromAddress := cfg.Email.SMTPUser
	if cfg.Email.Provider == "ses" {
		fromAddress = cfg.Email.SESFromAddress
	}
	defaultSender := domain.SenderIdentity{Name: cfg.Email.SenderName, Address: fromAddress}

	campaignService := services.NewCampaignService(recipientRepo, store, dialer, resolver, defaultSender, logger)
	searchService := services.NewSearchService(recipientRepo)
	commandRouter := services.NewCommandRouter(campaignService, searchService)

	tokenProvider, err := auth.NewJWTProvider(cfg.JWTSecret)
	if err != nil {
		logger.Error("failed to configure token provider", "err", err)
		os.Exit(1)
	}
	authService, err := services.NewAuthService(cfg.OperatorKeyHash, tokenProvider, cfg.JWTExpiry)
	if err != nil {
		logger.Error("failed to configure auth service", "err", err)
		os.Exit(1)
	}

	mux := delivery.NewRouter(
		controllers.NewAuthController(logger, authService),
		controllers.NewOutreachController(logger, campaignService, store),
		controllers.NewSearchController(logger, searchService),
		controllers.NewCommandController(logger, commandRouter),
		tokenProvider,
		logger,
	)

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment, "provider", cfg.Email.Provider)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
