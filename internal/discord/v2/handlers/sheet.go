package handlers

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Anomanderiz/wdh-character-vault/internal/discord/v2/builders"
	"github.com/Anomanderiz/wdh-character-vault/internal/discord/v2/core"
	"github.com/Anomanderiz/wdh-character-vault/internal/services/vault"
)

const (
	// SheetCommandName is the slash command that renders a character
	SheetCommandName = "sheet"
	// QueryOption holds a character name or snapshot ID
	QueryOption = "query"
)

// SheetHandlerConfig holds dependencies for the sheet handler
type SheetHandlerConfig struct {
	Service vault.Service
}

// SheetHandler renders a stored snapshot as an embed
type SheetHandler struct {
	service vault.Service
}

// NewSheetHandler creates a new sheet handler
func NewSheetHandler(cfg *SheetHandlerConfig) *SheetHandler {
	if cfg == nil || cfg.Service == nil {
		panic("vault service is required")
	}
	return &SheetHandler{service: cfg.Service}
}

// Command describes /sheet for registration
func (h *SheetHandler) Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        SheetCommandName,
		Description: "Show a character sheet from the vault",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        QueryOption,
				Description: "Character name or snapshot ID",
				Required:    true,
			},
		},
	}
}

// Handle looks the character up and renders the sheet
func (h *SheetHandler) Handle(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	query := ctx.GetStringParam(QueryOption)
	if query == "" {
		return nil, core.NewValidationError("Give me a character name or ID.")
	}

	sheet, err := h.service.Find(ctx.Context, query)
	if err != nil {
		return nil, err
	}

	return core.Result(core.NewEmbedResponse(builders.SheetEmbed(sheet))), nil
}
