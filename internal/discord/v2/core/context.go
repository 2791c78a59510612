package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// InteractionContext wraps a Discord interaction with useful helpers and context
type InteractionContext struct {
	Interaction *discordgo.InteractionCreate

	// Extracted common fields for convenience
	UserID    string
	GuildID   string
	ChannelID string

	// Context for cancellation and values
	Context context.Context

	command string
	params  map[string]any
}

// NewInteractionContext creates a new InteractionContext from a Discord interaction
func NewInteractionContext(ctx context.Context, i *discordgo.InteractionCreate) *InteractionContext {
	ic := &InteractionContext{
		Interaction: i,
		Context:     ctx,
		params:      make(map[string]any),
	}

	if i == nil || i.Interaction == nil {
		return ic
	}

	if i.Member != nil && i.Member.User != nil {
		ic.UserID = i.Member.User.ID
	} else if i.User != nil {
		ic.UserID = i.User.ID
	}
	ic.GuildID = i.GuildID
	ic.ChannelID = i.ChannelID

	if i.Type == discordgo.InteractionApplicationCommand {
		data := i.ApplicationCommandData()
		ic.command = data.Name
		ic.parseOptions(data.Options)
	}

	return ic
}

func (ic *InteractionContext) parseOptions(options []*discordgo.ApplicationCommandInteractionDataOption) {
	for _, opt := range options {
		if len(opt.Options) > 0 {
			ic.parseOptions(opt.Options)
			continue
		}
		ic.params[opt.Name] = opt.Value
	}
}

// IsCommand reports whether the interaction is a slash command
func (ic *InteractionContext) IsCommand() bool {
	return ic.command != ""
}

// GetCommandName returns the slash command name
func (ic *InteractionContext) GetCommandName() string {
	return ic.command
}

// GetStringParam returns a trimmed string option, empty when absent
func (ic *InteractionContext) GetStringParam(name string) string {
	v, ok := ic.params[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
