package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"tjarchive-backend/config"
	"tjarchive-backend/logging"
	"tjarchive-backend/models"
	"tjarchive-backend/repository"
	"tjarchive-backend/service"
	"tjarchive-backend/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	dryRun     bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "build-index",
	Short: "Rebuild the decision index from the detail documents",
	Long: `Read every detail document under the decisions prefix, keep its metadata
and write the index sorted by case type and case number.

Documents that cannot be read are skipped and reported.`,
	SilenceUsage: true,
	RunE:         runBuildIndex,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", os.Getenv("TJARCHIVE_CONFIG"), "path to YAML config file")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "build the index without writing it")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every index entry")
}

func main() {
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load("../../.env")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBuildIndex(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
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

	archive := repository.NewArchiveRepository(store, repository.ArchiveKeys{
		IndexKey:        cfg.Archive.IndexKey,
		RevocationsKey:  cfg.Archive.RevocationsKey,
		DecisionsPrefix: cfg.Archive.DecisionsPrefix,
	})

	indexService := service.NewIndexService(
		service.IndexWithStore(archive),
		service.IndexWithLogger(logger.Named("index")),
	)

	result, err := indexService.BuildIndex(ctx, service.BuildIndexRequest{DryRun: dryRun})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if verbose {
		for _, item := range result.Items {
			fmt.Fprintf(out, "%s\t%s\t%s\n", item.ID,
				models.StringValue(item.Metadata.CaseNo),
				models.StringValue(item.Metadata.Subject))
		}
	}
	for _, name := range result.Skipped {
		fmt.Fprintf(out, "skipped: %s\n", name)
	}

	logger.Info(ctx, "index built",
		zap.Int("entries", len(result.Items)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Bool("dry_run", dryRun),
		zap.String("key", cfg.Archive.IndexKey),
	)
	return nil
}
