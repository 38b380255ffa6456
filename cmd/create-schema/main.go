package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"tjarchive-backend/config"
	"tjarchive-backend/logging"
	"tjarchive-backend/repository"
	"tjarchive-backend/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	importFeed bool
	dropFirst  bool
)

var rootCmd = &cobra.Command{
	Use:   "create-schema",
	Short: "Create the Postgres revocation mirror",
	Long: `Create the revocations table used when archive.revocation_source is "postgres".

With --import the revocation feed is read from the configured storage and
copied into the table, replacing any previous contents.`,
	SilenceUsage: true,
	RunE:         runCreateSchema,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", os.Getenv("TJARCHIVE_CONFIG"), "path to YAML config file")
	rootCmd.Flags().BoolVar(&importFeed, "import", false, "import the revocation feed after creating the table")
	rootCmd.Flags().BoolVar(&dropFirst, "drop", false, "drop the existing table first")
}

func main() {
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load("../../.env")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCreateSchema(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("database.url (DATABASE_URL) is required")
	}

	logger, err := logging.NewLogger(logging.Config{Level: cfg.Logging.Level, Format: "console"})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := pgxpool.New(ctx, cfg.Database.URL.Value())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if dropFirst {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS revocations CASCADE"); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
		logger.Info(ctx, "dropped existing revocations table")
	}

	if _, err := pool.Exec(ctx, repository.CreateSchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	logger.Info(ctx, "revocations table ready")

	if !importFeed {
		return nil
	}

	store, err := storage.NewStorage(ctx, storage.StorageConfig{
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

	feed := repository.NewArchiveRepository(store, repository.ArchiveKeys{
		IndexKey:        cfg.Archive.IndexKey,
		RevocationsKey:  cfg.Archive.RevocationsKey,
		DecisionsPrefix: cfg.Archive.DecisionsPrefix,
	})
	records, err := feed.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read revocation feed: %w", err)
	}

	if err := repository.NewRevocationRepository(pool).ReplaceAll(ctx, records); err != nil {
		return fmt.Errorf("failed to import revocations: %w", err)
	}

	var total int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM revocations").Scan(&total); err != nil {
		return fmt.Errorf("failed to verify import: %w", err)
	}
	logger.Info(ctx, "revocations imported",
		zap.Int("records", len(records)),
		zap.Int("rows", total),
		zap.String("key", cfg.Archive.RevocationsKey),
	)
	return nil
}
