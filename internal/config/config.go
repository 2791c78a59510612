package config

import (
	"github.com/caarlos0/env/v11"

	dnderr "github.com/Anomanderiz/wdh-character-vault/internal/errors"
)

// Config holds all configuration for the application
type Config struct {
	Discord DiscordConfig
	Redis   RedisConfig
	Import  ImportConfig
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string `env:"DISCORD_TOKEN"`
	AppID   string `env:"DISCORD_APP_ID"`
	GuildID string `env:"DISCORD_GUILD_ID"` // Optional: for guild-specific commands
}

// RedisConfig holds vault storage configuration
type RedisConfig struct {
	URL       string `env:"VAULT_REDIS_URL"` // Empty keeps the vault in memory
	KeyPrefix string `env:"VAULT_KEY_PREFIX" envDefault:"vault"`
}

// ImportConfig tunes bulk imports
type ImportConfig struct {
	Concurrency int `env:"VAULT_IMPORT_CONCURRENCY" envDefault:"4"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom loads configuration from the given variables instead of the process
// environment
func LoadFrom(environment map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInvalidArgument, "failed to parse environment")
	}

	if cfg.Import.Concurrency <= 0 {
		return nil, dnderr.InvalidArgumentf("VAULT_IMPORT_CONCURRENCY must be positive, got %d", cfg.Import.Concurrency)
	}

	return cfg, nil
}

// UsesRedis reports whether a Redis URL was configured
func (c *RedisConfig) UsesRedis() bool {
	return c.URL != ""
}

// Validate checks the fields the bot needs
func (c *DiscordConfig) Validate() error {
	if c.Token == "" {
		return dnderr.InvalidArgument("DISCORD_TOKEN is required")
	}
	if c.AppID == "" {
		return dnderr.InvalidArgument("DISCORD_APP_ID is required")
	}
	return nil
}
