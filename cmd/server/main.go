package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"tjarchive-backend/analysis"
	"tjarchive-backend/config"
	"tjarchive-backend/handlers"
	"tjarchive-backend/logging"
	"tjarchive-backend/metrics"
	"tjarchive-backend/repository"
	"tjarchive-backend/service"
	"tjarchive-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", os.Getenv("TJARCHIVE_CONFIG"), "path to YAML config file")
	flag.Parse()

	// Load .env file from project root (relative to cmd/server/)
	// Try current directory first, then project root
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error(context.Background(), "server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	feedStorage, err := storage.NewStorage(ctx, storage.StorageConfig{
		Type:         storage.StorageType(cfg.Storage.Type),
		LocalPath:    cfg.Storage.LocalPath,
		S3Bucket:     cfg.Storage.S3Bucket,
		S3Prefix:     cfg.Storage.S3Prefix,
		S3Region:     cfg.AWS.Region,
		AWSAccessKey: cfg.AWS.AccessKeyID,
		AWSSecretKey: cfg.AWS.SecretAccessKey.Value(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info(ctx, "storage initialized", zap.String("type", cfg.Storage.Type))

	// Initialize repositories
	archiveRepo := repository.NewArchiveRepository(feedStorage, repository.ArchiveKeys{
		IndexKey:        cfg.Archive.IndexKey,
		RevocationsKey:  cfg.Archive.RevocationsKey,
		DecisionsPrefix: cfg.Archive.DecisionsPrefix,
	})

	var revocations repository.RevocationSource = archiveRepo
	if cfg.Archive.RevocationSource == config.RevocationSourcePostgres {
		db, err := initPostgres(ctx, cfg.Database.URL.Value())
		if err != nil {
			return fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		defer db.Close()
		revocations = repository.NewRevocationRepository(db)
		logger.Info(ctx, "revocations served from Postgres mirror")
	}

	catalog, err := loadCatalog(cfg.Archive.CatalogPath)
	if err != nil {
		return err
	}

	m := metrics.NewMetrics()

	// Initialize services
	archiveService := service.NewArchiveService(
		service.WithDecisionStore(archiveRepo),
		service.WithRevocationSource(revocations),
		service.WithTagger(analysis.NewTagger(catalog)),
		service.WithPageSize(cfg.Archive.PageSize),
		service.WithLogger(logger.Named("archive")),
		service.WithMetrics(m),
	)
	if err := archiveService.Load(ctx); err != nil {
		return fmt.Errorf("failed to load archive: %w", err)
	}

	// Setup Gin router
	gin.SetMode(cfg.Server.Mode)
	router := handlers.NewRouter(handlers.NewArchiveHandler(archiveService), logger.Named("http"), m)

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loadCatalog(path string) (analysis.Catalog, error) {
	if path == "" {
		return analysis.DefaultCatalog(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return analysis.Catalog{}, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	catalog, err := analysis.LoadCatalog(f)
	if err != nil {
		return analysis.Catalog{}, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	return catalog, nil
}

func initPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
