package handlers

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Anomanderiz/wdh-character-vault/internal/discord/v2/builders"
	"github.com/Anomanderiz/wdh-character-vault/internal/discord/v2/core"
	"github.com/Anomanderiz/wdh-character-vault/internal/services/vault"
)

const (
	// RosterCommandName is the slash command that lists the vault
	RosterCommandName = "roster"
	// SearchOption filters the roster
	SearchOption = "search"
)

// RosterHandler lists or searches stored snapshots
type RosterHandler struct {
	service vault.Service
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(service vault.Service) *RosterHandler {
	if service == nil {
		panic("vault service is required")
	}
	return &RosterHandler{service: service}
}

// Command describes /roster for registration
func (h *RosterHandler) Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        RosterCommandName,
		Description: "List the characters in the vault",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        SearchOption,
				Description: "Filter by name, class or item",
			},
		},
	}
}

// Handle lists the vault, filtered when a search term is given
func (h *RosterHandler) Handle(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	search := ctx.GetStringParam(SearchOption)

	summaries, err := h.service.Search(ctx.Context, search)
	if err != nil {
		return nil, err
	}

	title := "Character Vault"
	if search != "" {
		title = fmt.Sprintf("Vault search: %s", search)
	}

	response := core.NewEmbedResponse(builders.RosterEmbed(title, summaries))
	return core.Result(response.AsEphemeral()), nil
}
