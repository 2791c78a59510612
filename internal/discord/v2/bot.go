// Package v2 wires the slash command handlers to a Discord session
package v2

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/Anomanderiz/wdh-character-vault/internal/discord/v2/builders"
	"github.com/Anomanderiz/wdh-character-vault/internal/discord/v2/core"
	"github.com/Anomanderiz/wdh-character-vault/internal/discord/v2/handlers"
	"github.com/Anomanderiz/wdh-character-vault/internal/discord/v2/middleware"
	dnderr "github.com/Anomanderiz/wdh-character-vault/internal/errors"
	"github.com/Anomanderiz/wdh-character-vault/internal/services/vault"
)

// BotConfig holds configuration for the bot
type BotConfig struct {
	Session *discordgo.Session // Required
	Service vault.Service      // Required
	AppID   string             // Required
	GuildID string             // Optional: registers commands for one guild only
	Logger  *zap.Logger        // Optional
}

// Bot serves the vault's slash commands
type Bot struct {
	session  *discordgo.Session
	router   *core.Router
	commands []*discordgo.ApplicationCommand
	appID    string
	guildID  string
	logger   *zap.Logger
}

// NewBot creates a bot and registers its handlers on the router
func NewBot(cfg *BotConfig) *Bot {
	if cfg == nil {
		panic("BotConfig cannot be nil")
	}
	if cfg.Session == nil {
		panic("discord session is required")
	}
	if cfg.Service == nil {
		panic("vault service is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router, commands := NewRouter(cfg.Service, logger)

	return &Bot{
		session:  cfg.Session,
		router:   router,
		commands: commands,
		appID:    cfg.AppID,
		guildID:  cfg.GuildID,
		logger:   logger,
	}
}

// NewRouter builds the command router with logging and error embeds, and
// returns the command definitions to register
func NewRouter(service vault.Service, logger *zap.Logger) (*core.Router, []*discordgo.ApplicationCommand) {
	sheet := handlers.NewSheetHandler(&handlers.SheetHandlerConfig{Service: service})
	roster := handlers.NewRosterHandler(service)

	router := core.NewRouter(func(err *core.HandlerError) *core.Response {
		return core.NewEmbedResponse(builders.ErrorEmbed("Sheet unavailable", err.UserMessage).Build()).AsEphemeral()
	}).
		Use(middleware.LoggingMiddleware(logger)).
		Command(handlers.SheetCommandName, sheet).
		Command(handlers.RosterCommandName, roster)

	return router, []*discordgo.ApplicationCommand{sheet.Command(), roster.Command()}
}

// Start opens the gateway connection and registers the slash commands
func (b *Bot) Start(ctx context.Context) error {
	b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		responder := core.NewDiscordResponder(s, i)
		if err := b.router.Dispatch(ctx, responder, i); err != nil {
			b.logger.Error("failed to respond to interaction", zap.Error(err))
		}
	})

	if err := b.session.Open(); err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to open discord session")
	}

	for _, cmd := range b.commands {
		if _, err := b.session.ApplicationCommandCreate(b.appID, b.guildID, cmd); err != nil {
			return dnderr.Wrapf(err, "failed to register /%s", cmd.Name)
		}
		b.logger.Info("registered command", zap.String("command", cmd.Name), zap.String("guild_id", b.guildID))
	}

	return nil
}

// Stop closes the gateway connection
func (b *Bot) Stop() error {
	return b.session.Close()
}
