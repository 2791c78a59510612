package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	v2 "github.com/Anomanderiz/wdh-character-vault/internal/discord/v2"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Serve /sheet and /roster on Discord",
	Long: `Connect to Discord and serve the vault's slash commands until interrupted.

Requires DISCORD_TOKEN and DISCORD_APP_ID. Set DISCORD_GUILD_ID to register the
commands on a single guild, which takes effect immediately.`,
	Args: cobra.NoArgs,
	RunE: runBot,
}

func runBot(cmd *cobra.Command, args []string) error {
	if err := cfg.Discord.Validate(); err != nil {
		return err
	}

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}

	bot := v2.NewBot(&v2.BotConfig{
		Session: session,
		Service: service,
		AppID:   cfg.Discord.AppID,
		GuildID: cfg.Discord.GuildID,
		Logger:  logger,
	})

	if err := bot.Start(cmd.Context()); err != nil {
		_ = bot.Stop()
		return err
	}
	defer func() {
		if err := bot.Stop(); err != nil {
			logger.Warn("failed to close discord connection", zap.Error(err))
		}
	}()

	if cfg.Discord.GuildID != "" {
		logger.Info("registered guild commands", zap.String("guild_id", cfg.Discord.GuildID))
	} else {
		logger.Info("registered global commands (may take up to 1 hour to propagate)")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Bot is now running. Press CTRL-C to exit.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sc:
	case <-cmd.Context().Done():
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Shutting down...")
	return nil
}
