package services

import (
	"go.uber.org/zap"

	"github.com/Anomanderiz/wdh-character-vault/internal/repositories/characters"
	"github.com/Anomanderiz/wdh-character-vault/internal/services/vault"
	"github.com/Anomanderiz/wdh-character-vault/internal/uuid"
)

// Provider holds all service instances
type Provider struct {
	VaultService vault.Service
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	CharacterRepository characters.Repository
	UUIDGenerator       uuid.Generator
	Logger              *zap.Logger
	ImportConcurrency   int
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	if cfg == nil {
		cfg = &ProviderConfig{}
	}

	// Use in-memory repository if none provided
	charRepo := cfg.CharacterRepository
	if charRepo == nil {
		charRepo = characters.NewInMemoryRepository()
	}

	vaultService := vault.NewService(&vault.ServiceConfig{
		Repository:    charRepo,
		UUIDGenerator: cfg.UUIDGenerator,
		Logger:        cfg.Logger,
		Concurrency:   cfg.ImportConcurrency,
	})

	return &Provider{
		VaultService: vaultService,
	}
}
