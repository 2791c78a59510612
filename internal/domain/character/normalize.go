package character

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	dnderr "github.com/Anomanderiz/wdh-character-vault/internal/errors"
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/shared"
)

// envelopePaths are tried in order before falling back to the whole payload
var envelopePaths = []string{"actor", "data.actor", "document"}

// Parse normalizes raw JSON bytes. It only fails when the bytes are not JSON.
func Parse(raw []byte) (*Snapshot, error) {
	if !gjson.ValidBytes(raw) {
		return nil, dnderr.InvalidArgument("snapshot is not valid JSON")
	}
	return fromResult(gjson.ParseBytes(raw)), nil
}

// Normalize builds a Snapshot from an already decoded JSON value. It never
// fails: anything it cannot read resolves to an empty snapshot.
func Normalize(v any) *Snapshot {
	switch t := v.(type) {
	case nil:
		return fromResult(gjson.Result{})
	case []byte:
		return fromResult(gjson.ParseBytes(t))
	case json.RawMessage:
		return fromResult(gjson.ParseBytes(t))
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fromResult(gjson.Result{})
	}
	return fromResult(gjson.ParseBytes(raw))
}

// Envelope returns the part of the payload that holds the character document
func Envelope(root gjson.Result) gjson.Result {
	for _, path := range envelopePaths {
		if candidate := root.Get(path); candidate.IsObject() {
			return candidate
		}
	}
	return root
}

func fromResult(root gjson.Result) *Snapshot {
	doc := Envelope(root)
	sys := systemRoot(doc)

	s := &Snapshot{
		ID:        firstString(doc.Get("_id"), doc.Get("id")),
		Name:      stringOf(doc.Get("name")),
		Image:     stringOf(doc.Get("img")),
		Type:      stringOf(doc.Get("type")),
		Abilities: make(map[shared.Ability]float64),
		Saves:     make(map[shared.Ability]SaveData),
		Skills:    make(map[string]Skill),
	}

	abilities := sys.Get("abilities")
	for _, a := range shared.Abilities {
		block := abilities.Get(string(a))
		if score, ok := numberOf(block.Get("value")); ok {
			s.Abilities[a] = score
		}
		if !block.IsObject() {
			continue
		}
		s.Saves[a] = SaveData{
			Rank:  numberOr(block.Get("proficient")),
			Bonus: scalarOf(block.Get("bonuses.save")),
		}
	}

	if skills := sys.Get("skills"); skills.IsObject() {
		skills.ForEach(func(key, value gjson.Result) bool {
			if !value.IsObject() {
				return true
			}
			s.Skills[key.String()] = Skill{
				Ability:      shared.ParseAbility(stringOf(value.Get("ability"))),
				Rank:         numberOr(value.Get("value")),
				CheckBonus:   scalarOf(value.Get("bonuses.check")),
				PassiveBonus: scalarOf(value.Get("bonuses.passive")),
			}
			return true
		})
	}

	ac := sys.Get("attributes.ac")
	s.AC = ArmorClassData{
		Value:   numberPtr(ac.Get("value")),
		Flat:    numberPtr(ac.Get("flat")),
		Bonus:   scalarOf(ac.Get("bonus")),
		Formula: stringOf(ac.Get("formula")),
		Calc:    stringOf(ac.Get("calc")),
	}

	bonuses := sys.Get("bonuses")
	s.Bonuses = GlobalBonuses{
		AbilityCheck: scalarOf(bonuses.Get("abilities.check")),
		AbilitySave:  scalarOf(bonuses.Get("abilities.save")),
		AbilitySkill: scalarOf(bonuses.Get("abilities.skill")),
		SkillPassive: scalarOf(bonuses.Get("skill.passive")),
		ACValue:      scalarOf(bonuses.Get("ac.value")),
		ACBonus:      scalarOf(bonuses.Get("ac.bonus")),
		ACAll:        scalarOf(bonuses.Get("ac.all")),
	}

	s.InitiativeBonus = scalarOf(sys.Get("attributes.init.bonus"))
	s.DetailsLevel = numberOr(sys.Get("details.level"))

	for _, raw := range arrayOf(doc.Get("items")) {
		if raw.IsObject() {
			s.Items = append(s.Items, itemFromResult(raw))
		}
	}
	s.Effects = effectsFromResult(doc.Get("effects"))

	return s
}

// systemRoot returns the data block, preferring the modern "system" key over
// the legacy "data" key
func systemRoot(doc gjson.Result) gjson.Result {
	if sys := doc.Get("system"); sys.IsObject() {
		return sys
	}
	if legacy := doc.Get("data"); legacy.IsObject() {
		return legacy
	}
	return gjson.Result{}
}

func itemFromResult(raw gjson.Result) *Item {
	sys := systemRoot(raw)
	armor := sys.Get("armor")

	category := stringOf(sys.Get("type.value"))
	if category == "" {
		category = stringOf(armor.Get("type"))
	}

	return &Item{
		ID:         firstString(raw.Get("_id"), raw.Get("id")),
		Name:       stringOf(raw.Get("name")),
		Type:       stringOf(raw.Get("type")),
		Equipped:   sys.Get("equipped").Type == gjson.True,
		Attunement: int(numberOr(sys.Get("attunement"))),
		Levels:     int(numberOr(sys.Get("levels"))),
		Armor: ArmorData{
			Category:     ArmorCategory(strings.ToLower(category)),
			Value:        numberOr(armor.Get("value")),
			MagicalBonus: numberOr(armor.Get("magicalBonus")),
			DexCap:       capOf(armor.Get("dex")),
		},
		Effects: effectsFromResult(raw.Get("effects")),
	}
}

func effectsFromResult(list gjson.Result) []*shared.ActiveEffect {
	var effects []*shared.ActiveEffect
	for _, raw := range arrayOf(list) {
		if !raw.IsObject() {
			continue
		}
		effect := &shared.ActiveEffect{
			ID:       firstString(raw.Get("_id"), raw.Get("id")),
			Name:     firstString(raw.Get("name"), raw.Get("label")),
			Disabled: raw.Get("disabled").Type == gjson.True,
			Transfer: raw.Get("transfer").Type == gjson.True,
		}
		for _, change := range arrayOf(raw.Get("changes")) {
			if !change.IsObject() {
				continue
			}
			effect.Changes = append(effect.Changes, shared.EffectChange{
				Key:   stringOf(change.Get("key")),
				Mode:  modeOf(change.Get("mode")),
				Value: scalarOf(change.Get("value")),
			})
		}
		effects = append(effects, effect)
	}
	return effects
}

func arrayOf(r gjson.Result) []gjson.Result {
	if !r.IsArray() {
		return nil
	}
	return r.Array()
}

func stringOf(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

func firstString(results ...gjson.Result) string {
	for _, r := range results {
		if s := stringOf(r); s != "" {
			return s
		}
	}
	return ""
}

func numberOf(r gjson.Result) (float64, bool) {
	if r.Type != gjson.Number || math.IsNaN(r.Num) || math.IsInf(r.Num, 0) {
		return 0, false
	}
	return r.Num, true
}

func numberOr(r gjson.Result) float64 {
	n, _ := numberOf(r)
	return n
}

func numberPtr(r gjson.Result) *float64 {
	n, ok := numberOf(r)
	if !ok {
		return nil
	}
	return &n
}

// capOf reads a Dex cap that may be a number, a numeric string, empty or null
func capOf(r gjson.Result) *float64 {
	switch r.Type {
	case gjson.Number:
		return numberPtr(r)
	case gjson.String:
		text := strings.TrimSpace(r.Str)
		if text == "" {
			return nil
		}
		n, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil
		}
		return &n
	default:
		return nil
	}
}

// scalarOf keeps numbers and strings, dropping everything else
func scalarOf(r gjson.Result) any {
	switch r.Type {
	case gjson.Number:
		return r.Num
	case gjson.String:
		return r.Str
	default:
		return nil
	}
}

func modeOf(r gjson.Result) shared.EffectMode {
	switch r.Type {
	case gjson.Number:
		return shared.EffectMode(int(r.Num))
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(r.Str))
		if err != nil {
			return shared.EffectMode(-1)
		}
		return shared.EffectMode(n)
	default:
		return shared.EffectMode(-1)
	}
}
