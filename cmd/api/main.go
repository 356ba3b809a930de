package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/greenaudit/esg-insight/internal/application"
	appanalysis "github.com/greenaudit/esg-insight/internal/application/analysis"
	appauth "github.com/greenaudit/esg-insight/internal/application/auth"
	appcompliance "github.com/greenaudit/esg-insight/internal/application/compliance"
	"github.com/greenaudit/esg-insight/internal/config"
	"github.com/greenaudit/esg-insight/internal/domain/analysis"
	"github.com/greenaudit/esg-insight/internal/infra/ai/deepseek"
	"github.com/greenaudit/esg-insight/internal/infra/db/postgres"
	"github.com/greenaudit/esg-insight/internal/infra/httpserver"
	minioStore "github.com/greenaudit/esg-insight/internal/infra/storage"
	"github.com/greenaudit/esg-insight/internal/middleware"
)

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation error: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	db, err := postgres.Connect(ctx, cfg.DSN())
	if err != nil {
		logger.Fatal("postgres connect error", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.InitSchema(ctx, db); err != nil {
		logger.Fatal("schema init error", zap.Error(err))
	}

	analysisRepo := postgres.NewAnalysisRepository(db)
	complianceRepo := postgres.NewComplianceRepository(db)
	usersRepo := postgres.NewUsersRepository(db)

	var artifacts analysis.ArtifactStore
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			logger.Fatal("minio init error", zap.Error(err))
		}
		artifacts = store
	}

	aiClient := deepseek.NewClient(deepseek.Config{
		APIKey:     cfg.DeepSeek.APIKey,
		BaseURL:    cfg.DeepSeek.BaseURL,
		Model:      cfg.DeepSeek.Model,
		Timeout:    time.Duration(cfg.DeepSeek.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.DeepSeek.MaxRetries,
	}, logger)

	clock := application.SystemClock{}

	analysisSvc := &appanalysis.Service{
		Repo:      analysisRepo,
		AI:        aiClient,
		Artifacts: artifacts,
		Clock:     clock,
		Logger:    logger,
	}
	complianceSvc := &appcompliance.Service{
		Analyses: analysisRepo,
		Repo:     complianceRepo,
		AI:       aiClient,
		Logger:   logger,
	}
	authSvc := &appauth.Service{
		Repo:     usersRepo,
		Secret:   []byte(cfg.Auth.JWTSecret),
		TokenTTL: cfg.TokenTTL(),
		Clock:    clock,
	}

	handler := httpserver.NewRouter(analysisSvc, complianceSvc, authSvc, logger, httpserver.Options{
		Health: map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: db},
		},
		RateRPS:     cfg.RateLimit.RPS,
		RateBurst:   cfg.RateLimit.Burst,
		EnforceAuth: cfg.Auth.Enforce,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
}
