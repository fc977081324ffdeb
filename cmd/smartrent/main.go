package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	authsvc "smartrent/internal/app/services/auth"
	catalogsvc "smartrent/internal/app/services/catalog"
	quotesvc "smartrent/internal/app/services/quote"
	domainauth "smartrent/internal/domain/auth"
	domaincatalog "smartrent/internal/domain/catalog"
	"smartrent/internal/domain/pricing"
	domainuser "smartrent/internal/domain/user"
	"smartrent/internal/infra/broker/kafka"
	"smartrent/internal/infra/config"
	mongodb "smartrent/internal/infra/db/mongo"
	ginserver "smartrent/internal/infra/http/gin"
	"smartrent/internal/infra/obs"
	"smartrent/internal/infra/security"
	"smartrent/internal/infra/storage/memory"
	"smartrent/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, cleanup, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if cfg.AdminEmail != "" {
		if err := app.auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Error("admin bootstrap failed", "error", err)
			os.Exit(1)
		}
	}

	if cfg.StorageMode == "memory" {
		fixturesPath := cfg.FixturesPath
		if fixturesPath == "" {
			fixturesPath = filepath.Join("data", "catalog.json")
		}
		if err := loadCatalogFixtures(ctx, fixturesPath, app, logger); err != nil {
			logger.Warn("catalog fixtures load failed", "error", err, "path", fixturesPath)
		}
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	auth     *authsvc.Service
	catalog  *catalogsvc.Service
	quotes   *quotesvc.Service
	ready    func() error

	// memory-mode repos for fixture loading; nil under mongo.
	memProducts   *memory.ProductRepository
	memCategories *memory.CategoryRepository
	memRules      *memory.RuleRepository
}

func buildApplication(cfg config.Config, logger *slog.Logger) (*application, func(), error) {
	app := &application{ready: func() error { return nil }}
	cleanup := func() {}

	var (
		products   domaincatalog.ProductRepository
		categories domaincatalog.CategoryRepository
		rules      pricing.RuleCatalog
		users      domainuser.Repository
		sessions   domainauth.SessionStore
	)

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Close(closeCtx); err != nil {
				logger.Warn("mongo disconnect failed", "error", err)
			}
		}
		products = mongodb.NewProductRepository(client.DB)
		categories = mongodb.NewCategoryRepository(client.DB)
		rules = mongodb.NewPricelistRepository(client.DB)
		users = mongodb.NewUserRepository(client.DB)
		sessions = mongodb.NewSessionRepository(client.DB)
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
	default:
		app.memProducts = memory.NewProductRepository()
		app.memCategories = memory.NewCategoryRepository()
		app.memRules = memory.NewRuleRepository()
		products = app.memProducts
		categories = app.memCategories
		rules = app.memRules
		users = memory.NewUserRepository()
		sessions = memory.NewSessionStore()
	}

	var events quotesvc.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, nil)
		if err != nil {
			logger.Warn("kafka unavailable, quote events disabled", "error", err)
		} else {
			events = producer
			prev := cleanup
			cleanup = func() {
				if err := producer.Close(); err != nil {
					logger.Warn("kafka producer close failed", "error", err)
				}
				prev()
			}
		}
	}

	var photos catalogsvc.Uploader = s3.NoopUploader{}
	if cfg.S3Endpoint != "" {
		uploader, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
		if err != nil {
			logger.Warn("object storage unavailable, photo uploads disabled", "error", err)
		} else {
			photos = uploader
		}
	}

	app.auth = &authsvc.Service{
		Users:      users,
		Sessions:   sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}
	app.catalog = &catalogsvc.Service{
		Products:   products,
		Categories: categories,
		Photos:     photos,
		Logger:     logger,
	}
	app.quotes = quotesvc.NewService(products, rules, events, logger)

	app.handlers = ginserver.Handlers{
		Pricing:        ginserver.PricingHandler{Service: app.quotes, Logger: logger},
		Catalog:        ginserver.CatalogHandler{Service: app.catalog, Logger: logger},
		Auth:           ginserver.AuthHandler{Service: app.auth, Logger: logger},
		AuthMiddleware: ginserver.Authenticator{Auth: app.auth}.Handle,
		AdminOnly:      ginserver.RequireRole(domainuser.RoleAdmin),
	}
	return app, cleanup, nil
}
