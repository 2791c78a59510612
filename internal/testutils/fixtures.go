package testutils

import (
	"encoding/json"
	"strings"

	"github.com/Anomanderiz/wdh-character-vault/internal/domain/character"
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/shared"
)

// ActorBuilder builds exported actor documents for tests
type ActorBuilder struct {
	actor map[string]any
}

// NewActor starts a character document with the given id and name
func NewActor(id, name string) *ActorBuilder {
	return &ActorBuilder{
		actor: map[string]any{
			"_id":     id,
			"name":    name,
			"type":    "character",
			"system":  map[string]any{},
			"items":   []any{},
			"effects": []any{},
		},
	}
}

// WithAbility sets an ability score
func (b *ActorBuilder) WithAbility(a shared.Ability, score float64) *ActorBuilder {
	return b.Set("abilities."+string(a)+".value", score)
}

// WithAbilities sets all six scores in str, dex, con, int, wis, cha order
func (b *ActorBuilder) WithAbilities(str, dex, con, intl, wis, cha float64) *ActorBuilder {
	scores := []float64{str, dex, con, intl, wis, cha}
	for i, a := range shared.Abilities {
		b.WithAbility(a, scores[i])
	}
	return b
}

// WithSkill adds a skill entry
func (b *ActorBuilder) WithSkill(code string, ability shared.Ability, rank float64) *ActorBuilder {
	return b.Set("skills."+code, map[string]any{
		"ability": string(ability),
		"value":   rank,
		"bonuses": map[string]any{},
	})
}

// WithClass adds a class item
func (b *ActorBuilder) WithClass(name string, levels int) *ActorBuilder {
	return b.WithItem(map[string]any{
		"_id":  "class-" + strings.ToLower(name),
		"name": name,
		"type": "class",
		"system": map[string]any{
			"levels": levels,
		},
	})
}

// WithItem appends a raw item
func (b *ActorBuilder) WithItem(item map[string]any) *ActorBuilder {
	b.actor["items"] = append(b.actor["items"].([]any), item)
	return b
}

// WithEffect appends an actor-level effect
func (b *ActorBuilder) WithEffect(effect map[string]any) *ActorBuilder {
	b.actor["effects"] = append(b.actor["effects"].([]any), effect)
	return b
}

// Set writes a value under system at a dotted path
func (b *ActorBuilder) Set(path string, value any) *ActorBuilder {
	setPath(b.actor["system"].(map[string]any), path, value)
	return b
}

// Build returns the raw actor document
func (b *ActorBuilder) Build() map[string]any {
	return b.actor
}

// JSON returns the actor document encoded as JSON
func (b *ActorBuilder) JSON() []byte {
	raw, err := json.Marshal(b.actor)
	if err != nil {
		panic(err)
	}
	return raw
}

// Snapshot normalizes the built document
func (b *ActorBuilder) Snapshot() *character.Snapshot {
	return character.Normalize(b.actor)
}

// Armor builds an equipment item with an armor block. dexCap may be nil.
func Armor(name string, category character.ArmorCategory, value float64, dexCap any, equipped bool) map[string]any {
	return map[string]any{
		"_id":  "armor-" + strings.ReplaceAll(strings.ToLower(name), " ", "-"),
		"name": name,
		"type": "equipment",
		"system": map[string]any{
			"equipped": equipped,
			"type":     map[string]any{"value": string(category)},
			"armor": map[string]any{
				"value":        value,
				"dex":          dexCap,
				"magicalBonus": 0,
			},
		},
		"effects": []any{},
	}
}

// Trinket builds a non-armor equipment item carrying effects
func Trinket(name string, equipped bool, attunement int, effects ...map[string]any) map[string]any {
	list := make([]any, 0, len(effects))
	for _, e := range effects {
		list = append(list, e)
	}
	return map[string]any{
		"_id":  "item-" + strings.ReplaceAll(strings.ToLower(name), " ", "-"),
		"name": name,
		"type": "equipment",
		"system": map[string]any{
			"equipped":   equipped,
			"attunement": attunement,
			"type":       map[string]any{"value": "trinket"},
		},
		"effects": list,
	}
}

// Effect builds an active effect
func Effect(name string, transfer bool, changes ...map[string]any) map[string]any {
	list := make([]any, 0, len(changes))
	for _, c := range changes {
		list = append(list, c)
	}
	return map[string]any{
		"_id":      "effect-" + strings.ReplaceAll(strings.ToLower(name), " ", "-"),
		"name":     name,
		"disabled": false,
		"transfer": transfer,
		"changes":  list,
	}
}

// Change builds an effect change
func Change(key string, mode shared.EffectMode, value any) map[string]any {
	return map[string]any{
		"key":   key,
		"mode":  int(mode),
		"value": value,
	}
}

func setPath(root map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	node := root
	for _, part := range parts[:len(parts)-1] {
		next, ok := node[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			node[part] = next
		}
		node = next
	}
	node[parts[len(parts)-1]] = value
}
