package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Anomanderiz/wdh-character-vault/internal/config"
	"github.com/Anomanderiz/wdh-character-vault/internal/repositories/characters"
	"github.com/Anomanderiz/wdh-character-vault/internal/services"
	"github.com/Anomanderiz/wdh-character-vault/internal/services/vault"
)

var (
	// Global flags
	verbose bool

	logger      *zap.Logger
	cfg         *config.Config
	service     vault.Service
	redisClient *redis.Client

	// inMemory is set when snapshots will not outlive the process
	inMemory bool
)

var rootCmd = &cobra.Command{
	Use:   "vault",
	Short: "Store Foundry character exports and compute their sheets",
	Long: `vault imports Foundry VTT actor exports, keeps them as snapshots and
derives armor class, skills, saves and the rest of the sheet from them.

Snapshots live in Redis when VAULT_REDIS_URL is set and in memory otherwise.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if err := godotenv.Load(); err != nil {
			logger.Debug("no .env file found")
		}

		cfg, err = config.Load()
		if err != nil {
			return err
		}

		// Tests install their own service
		if service != nil {
			return nil
		}

		repo, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		provider := services.NewProvider(&services.ProviderConfig{
			CharacterRepository: repo,
			Logger:              logger,
			ImportConcurrency:   cfg.Import.Concurrency,
		})
		service = provider.VaultService
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("error closing redis connection", zap.Error(err))
			}
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(importCmd, listCmd, showCmd, searchCmd, deleteCmd, computeCmd, botCmd)
}

// openRepository connects to Redis when configured, falling back to memory
// when the URL is unusable
func openRepository(ctx context.Context) (characters.Repository, error) {
	if !cfg.Redis.UsesRedis() {
		logger.Info("no VAULT_REDIS_URL set, snapshots are kept in memory")
		inMemory = true
		return characters.NewInMemoryRepository(), nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Warn("failed to parse redis url, falling back to memory", zap.Error(err))
		inMemory = true
		return characters.NewInMemoryRepository(), nil
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		logger.Warn("failed to connect to redis, falling back to memory", zap.Error(err))
		inMemory = true
		return characters.NewInMemoryRepository(), nil
	}

	redisClient = client
	inMemory = false
	logger.Debug("using redis for snapshots",
		zap.String("addr", opts.Addr),
		zap.String("key_prefix", cfg.Redis.KeyPrefix))

	return characters.NewRedisRepository(&characters.RedisRepoConfig{
		Client:    client,
		KeyPrefix: cfg.Redis.KeyPrefix,
	}), nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
