package calculators

import (
	"math"

	"github.com/Anomanderiz/wdh-character-vault/internal/domain/character"
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/rulebook/dnd5e/formula"
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/shared"
)

// BaseArmorClass is the unarmored base and the value of @attributes.ac.base
const BaseArmorClass = 10

// CalcModeCustom marks a snapshot whose AC comes from its own formula
const CalcModeCustom = "custom"

// ACSource names the tier that produced the armor class
type ACSource string

const (
	ACSourceExplicit       ACSource = "explicit"
	ACSourceEffectOverride ACSource = "effect-override"
	ACSourceFormula        ACSource = "formula"
	ACSourceDefault        ACSource = "default"
)

// ACResult is the resolved armor class and the parts it was built from
type ACResult struct {
	Value  int
	Source ACSource

	// Armor is the best equipped armor total, or the unarmored base
	Armor  float64
	Shield float64
	Dex    int
	Bonus  float64

	// Formula is set when the value came from a formula
	Formula string
}

// DnD5eACCalculator resolves armor class from exported snapshots
type DnD5eACCalculator struct{}

// NewDnD5eACCalculator creates a new D&D 5e AC calculator
func NewDnD5eACCalculator() *DnD5eACCalculator {
	return &DnD5eACCalculator{}
}

// Calculate derives the character's stats and returns the resolved AC
func (c *DnD5eACCalculator) Calculate(s *character.Snapshot) int {
	if s == nil {
		s = &character.Snapshot{}
	}
	stats := ComputeStats(s)
	return c.Resolve(s, &stats).Value
}

// Resolve runs the armor class tiers: an explicit exported value wins
// outright; otherwise equipment, Dex, flat bonuses and active effects are
// combined, an effect override or a formula may replace the base, and the
// heuristic armor + shield + Dex + bonus is the fallback.
func (c *DnD5eACCalculator) Resolve(s *character.Snapshot, stats *DerivedStats) ACResult {
	if s == nil {
		s = &character.Snapshot{}
	}
	if stats == nil {
		computed := ComputeStats(s)
		stats = &computed
	}

	if s.AC.Value != nil {
		return ACResult{Value: floorInt(*s.AC.Value), Source: ACSourceExplicit}
	}
	if s.AC.Flat != nil {
		return ACResult{Value: floorInt(*s.AC.Flat), Source: ACSourceExplicit}
	}

	best, shield := equippedArmor(s)

	result := ACResult{
		Armor:  BaseArmorClass,
		Shield: shield,
		Dex:    stats.Modifiers[shared.AbilityDexterity],
	}
	if best != nil {
		result.Armor = best.ArmorTotal()
		if dexCap := best.Armor.DexCap; dexCap != nil && float64(result.Dex) > *dexCap {
			result.Dex = int(math.Floor(*dexCap))
		}
	}

	effects := ExtractACEffects(QualifyingEffects(s))
	result.Bonus = ParseFlatBonus(s.AC.Bonus) +
		ParseFlatBonus(s.Bonuses.ACValue) +
		ParseFlatBonus(s.Bonuses.ACBonus) +
		ParseFlatBonus(s.Bonuses.ACAll) +
		effects.Bonus

	if effects.Override != nil {
		result.Source = ACSourceEffectOverride
		result.Value = floorInt(*effects.Override + result.Bonus)
		return result
	}

	if expr := acFormula(s.AC); expr != "" {
		value, err := formula.Evaluate(expr, tokenContext(&result, stats))
		if err == nil {
			if !formula.References(expr, formula.TokenBonus) {
				value += result.Bonus
			}
			result.Source = ACSourceFormula
			result.Formula = expr
			result.Value = floorInt(value)
			return result
		}
	}

	result.Source = ACSourceDefault
	result.Value = floorInt(result.Armor + result.Shield + float64(result.Dex) + result.Bonus)
	return result
}

// ResolveArmorClass is a shorthand for the default calculator
func ResolveArmorClass(s *character.Snapshot, stats *DerivedStats) ACResult {
	return NewDnD5eACCalculator().Resolve(s, stats)
}

// equippedArmor picks the equipped armor with the highest total and sums
// every equipped shield
func equippedArmor(s *character.Snapshot) (*character.Item, float64) {
	var best *character.Item
	shield := 0.0
	for _, item := range s.Items {
		if !item.Equipped {
			continue
		}
		switch {
		case item.IsShield():
			shield += item.ArmorTotal()
		case item.IsArmor():
			if best == nil || item.ArmorTotal() > best.ArmorTotal() {
				best = item
			}
		}
	}
	return best, shield
}

func acFormula(ac character.ArmorClassData) string {
	if ac.Calc != CalcModeCustom {
		return ""
	}
	return ac.Formula
}

func tokenContext(r *ACResult, stats *DerivedStats) map[string]float64 {
	tokens := map[string]float64{
		formula.TokenArmor:      r.Armor,
		formula.TokenShield:     r.Shield,
		formula.TokenBase:       BaseArmorClass,
		formula.TokenDex:        float64(r.Dex),
		formula.TokenBonus:      r.Bonus,
		formula.TokenProf:       float64(stats.ProficiencyBonus),
		formula.TokenAttribProf: float64(stats.ProficiencyBonus),
	}
	for _, a := range shared.Abilities {
		tokens[formula.AbilityModToken(a)] = float64(stats.Modifiers[a])
	}
	return tokens
}
