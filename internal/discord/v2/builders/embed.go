package builders

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Anomanderiz/wdh-character-vault/internal/domain/rulebook/dnd5e/calculators"
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/shared"
	"github.com/Anomanderiz/wdh-character-vault/internal/services/vault"
)

// Discord limits
const (
	maxFields     = 25
	maxFieldValue = 1024
)

// TopSkillCount is how many skills the sheet embed lists
const TopSkillCount = 6

// EmbedBuilder provides a fluent API for building Discord embeds
type EmbedBuilder struct {
	embed *discordgo.MessageEmbed
}

// NewEmbed creates a new embed builder
func NewEmbed() *EmbedBuilder {
	return &EmbedBuilder{
		embed: &discordgo.MessageEmbed{
			Type:   discordgo.EmbedTypeRich,
			Fields: make([]*discordgo.MessageEmbedField, 0),
		},
	}
}

// Title sets the embed title
func (b *EmbedBuilder) Title(title string) *EmbedBuilder {
	b.embed.Title = title
	return b
}

// Description sets the embed description
func (b *EmbedBuilder) Description(description string) *EmbedBuilder {
	b.embed.Description = description
	return b
}

// Color sets the embed color
func (b *EmbedBuilder) Color(color int) *EmbedBuilder {
	b.embed.Color = color
	return b
}

// Timestamp sets the embed timestamp
func (b *EmbedBuilder) Timestamp(timestamp time.Time) *EmbedBuilder {
	b.embed.Timestamp = timestamp.Format(time.RFC3339)
	return b
}

// Footer sets the embed footer
func (b *EmbedBuilder) Footer(text string) *EmbedBuilder {
	b.embed.Footer = &discordgo.MessageEmbedFooter{Text: text}
	return b
}

// Thumbnail sets the embed thumbnail. Relative paths are ignored since
// Discord only renders absolute URLs.
func (b *EmbedBuilder) Thumbnail(url string) *EmbedBuilder {
	if !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
		return b
	}
	b.embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: url}
	return b
}

// Field adds a field to the embed. Fields past Discord's limit are dropped and
// long values are cut.
func (b *EmbedBuilder) Field(name, value string, inline bool) *EmbedBuilder {
	if len(b.embed.Fields) >= maxFields {
		return b
	}
	if value == "" {
		value = "\u200b"
	}
	if len(value) > maxFieldValue {
		value = value[:maxFieldValue-len("…")] + "…"
	}
	b.embed.Fields = append(b.embed.Fields, &discordgo.MessageEmbedField{
		Name:   name,
		Value:  value,
		Inline: inline,
	})
	return b
}

// Build returns the constructed embed
func (b *EmbedBuilder) Build() *discordgo.MessageEmbed {
	return b.embed
}

// Common embed colors
const (
	ColorError   = 0xff0000 // Red
	ColorWarning = 0xffaa00 // Orange
	ColorInfo    = 0x0099ff // Blue
	ColorPrimary = 0x7289da // Discord Blurple
)

// ErrorEmbed creates a pre-styled error embed
func ErrorEmbed(title, description string) *EmbedBuilder {
	return NewEmbed().
		Title("❌ " + title).
		Description(description).
		Color(ColorError)
}

// SheetEmbed renders a computed sheet
func SheetEmbed(sheet *calculators.Sheet) *discordgo.MessageEmbed {
	s := sheet.Snapshot
	stats := sheet.Stats

	description := fmt.Sprintf("Level %d", stats.Level)
	if classes := s.ClassSummary(); classes != "" {
		description = classes + " · " + description
	}

	b := NewEmbed().
		Title(displayName(s.Name)).
		Description(description).
		Color(ColorPrimary).
		Thumbnail(s.Image).
		Field("Armor Class", armorClass(sheet.ArmorClass), true).
		Field("Proficiency", signed(stats.ProficiencyBonus), true).
		Field("Initiative", signed(stats.Initiative), true).
		Field("Abilities", abilityBlock(sheet), false).
		Field("Saving Throws", savesLine(stats.SavingThrows), false).
		Field("Top Skills", skillsLine(stats.Skills, TopSkillCount), false).
		Field("Passive Perception", fmt.Sprintf("%d", stats.PassivePerception), true)

	if s.ID != "" {
		b.Footer("Snapshot " + s.ID)
	}

	return b.Build()
}

// RosterEmbed lists stored snapshots
func RosterEmbed(title string, summaries []*vault.Summary) *discordgo.MessageEmbed {
	b := NewEmbed().Title(title).Color(ColorInfo)

	if len(summaries) == 0 {
		return b.Description("No characters found.").Build()
	}

	for _, summary := range summaries {
		classes := summary.Classes
		if classes == "" {
			classes = "No class"
		}
		b.Field(displayName(summary.Name),
			fmt.Sprintf("%s · AC %d\n`%s`", classes, summary.ArmorClass, summary.ID),
			true)
	}

	if len(summaries) > maxFields {
		b.Footer(fmt.Sprintf("Showing %d of %d", maxFields, len(summaries)))
	} else {
		b.Footer(fmt.Sprintf("Total: %d", len(summaries)))
	}

	return b.Build()
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return vault.UnnamedCharacter
	}
	return name
}

func armorClass(ac calculators.ACResult) string {
	switch ac.Source {
	case calculators.ACSourceExplicit:
		return fmt.Sprintf("%d (set)", ac.Value)
	case calculators.ACSourceEffectOverride:
		return fmt.Sprintf("%d (effect)", ac.Value)
	case calculators.ACSourceFormula:
		return fmt.Sprintf("%d (formula)", ac.Value)
	default:
		return fmt.Sprintf("%d", ac.Value)
	}
}

func abilityBlock(sheet *calculators.Sheet) string {
	lines := make([]string, 0, len(shared.Abilities))
	for _, a := range shared.Abilities {
		score := "—"
		if v, ok := sheet.Snapshot.Abilities[a]; ok {
			score = fmt.Sprintf("%d", int(v))
		}
		lines = append(lines, fmt.Sprintf("**%s** %s (%s)", a.Short(), score, signed(sheet.Stats.Modifiers[a])))
	}
	return strings.Join(lines[:3], " · ") + "\n" + strings.Join(lines[3:], " · ")
}

func savesLine(saves map[shared.Ability]int) string {
	parts := make([]string, 0, len(shared.Abilities))
	for _, a := range shared.Abilities {
		parts = append(parts, fmt.Sprintf("%s %s", a.Short(), signed(saves[a])))
	}
	return strings.Join(parts, " · ")
}

// skillsLine lists the n best skills, ties broken by name
func skillsLine(skills map[string]int, n int) string {
	codes := make([]string, 0, len(skills))
	for code := range skills {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if skills[codes[i]] != skills[codes[j]] {
			return skills[codes[i]] > skills[codes[j]]
		}
		return SkillName(codes[i]) < SkillName(codes[j])
	})
	if len(codes) > n {
		codes = codes[:n]
	}

	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		parts = append(parts, fmt.Sprintf("%s %s", SkillName(code), signed(skills[code])))
	}
	return strings.Join(parts, " · ")
}

func signed(v int) string {
	return fmt.Sprintf("%+d", v)
}
