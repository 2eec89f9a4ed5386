package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/nano-midea/accounts/internal/auth"
	"github.com/anonto42/nano-midea/accounts/internal/handlers"
	"github.com/anonto42/nano-midea/accounts/internal/mailer"
	"github.com/anonto42/nano-midea/accounts/internal/metrics"
	"github.com/anonto42/nano-midea/accounts/internal/repositories"
	"github.com/anonto42/nano-midea/accounts/internal/router"
	"github.com/anonto42/nano-midea/accounts/internal/service"
	"github.com/anonto42/nano-midea/accounts/pkg/config"
	"github.com/anonto42/nano-midea/accounts/pkg/firebase"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := config.NewLogger(cfg)

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	accountRepo, postRepo, err := buildStores(cfg, db)
	if err != nil {
		log.Fatalf("Failed to prepare stores: %v", err)
	}

	sender, closeSender, err := buildSender(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize mail sender: %v", err)
	}
	defer closeSender()

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}
	var verifier handlers.IdentityVerifier
	if firebaseApp != nil {
		verifier = firebaseApp
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	accounts := service.NewAccountService(accountRepo, postRepo, sender, tokens, service.Options{
		ResetTokenTTL: cfg.ResetTokenTTL,
		Logger:        log,
	})
	m := metrics.New()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Setup global middleware
	config.SetupMiddleware(e, log)

	// Setup routes and dependencies
	router.SetupRoutes(e, router.Dependencies{
		Accounts: accounts,
		Tokens:   tokens,
		Metrics:  m,
		Cookies:  handlers.CookieOptions{TTL: cfg.SessionTTL, Secure: cfg.IsProduction()},
		Firebase: verifier,
		Log:      log,
	})

	metricsServer := &http.Server{Addr: ":" + cfg.MetricsPort, Handler: m.Handler()}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server stopped")
		}
	}()

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("metrics server shutdown")
	}
}

func buildStores(cfg *config.Config, db *config.DB) (repositories.AccountRepository, repositories.PostRepository, error) {
	if cfg.StoreDriver == config.StoreMemory {
		return repositories.NewMemoryAccountRepository(), repositories.NewMemoryPostRepository(), nil
	}

	mongoDB := db.Mongo.Database(cfg.MongoDatabase)
	postRepo := repositories.NewMongoPostRepository(mongoDB)

	switch cfg.StoreDriver {
	case config.StorePostgres:
		accountRepo := repositories.NewPostgresAccountRepository(db.Postgres)
		if err := accountRepo.Migrate(); err != nil {
			return nil, nil, fmt.Errorf("auto migrate accounts: %w", err)
		}
		return accountRepo, postRepo, nil
	case config.StoreMongo:
		accountRepo := repositories.NewMongoAccountRepository(mongoDB)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := accountRepo.EnsureIndexes(ctx); err != nil {
			return nil, nil, fmt.Errorf("ensure account indexes: %w", err)
		}
		return accountRepo, postRepo, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func buildSender(cfg *config.Config, log *logrus.Logger) (mailer.Sender, func(), error) {
	switch cfg.MailDriver {
	case config.MailRedis:
		client, err := mailer.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return mailer.NewStreamSender(client, cfg.MailStream), func() { client.Close() }, nil
	case config.MailSMTP:
		return mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}), func() {}, nil
	case config.MailLog:
		return mailer.NewLogSender(log), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown MAIL_DRIVER %q", cfg.MailDriver)
	}
}
