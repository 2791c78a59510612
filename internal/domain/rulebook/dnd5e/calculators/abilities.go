package calculators

import (
	"math"

	"github.com/Anomanderiz/wdh-character-vault/internal/domain/character"
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/shared"
)

// AbilityModifier returns floor((score-10)/2), or 0 for a non-finite score
func AbilityModifier(score float64) int {
	if !finite(score) {
		return 0
	}
	return int(math.Floor((score - 10) / 2))
}

// Modifiers returns the modifier of all six abilities. Abilities missing from
// the snapshot get 0.
func Modifiers(s *character.Snapshot) map[shared.Ability]int {
	mods := make(map[shared.Ability]int, len(shared.Abilities))
	for _, a := range shared.Abilities {
		score, ok := s.Abilities[a]
		if !ok {
			mods[a] = 0
			continue
		}
		mods[a] = AbilityModifier(score)
	}
	return mods
}

// TotalLevel sums the levels of all class items, falling back to the
// explicit details level when no class levels are exported
func TotalLevel(s *character.Snapshot) int {
	total := 0
	for _, item := range s.ClassItems() {
		total += item.Levels
	}
	if total > 0 {
		return total
	}

	if !finite(s.DetailsLevel) || s.DetailsLevel <= 0 {
		return 0
	}
	return int(math.Floor(s.DetailsLevel))
}

// ProficiencyBonus returns 2 + floor((level-1)/4), or 0 below level 1
func ProficiencyBonus(level int) int {
	if level <= 0 {
		return 0
	}
	return 2 + (level-1)/4
}

// ProfComponent scales the proficiency bonus by a proficiency rank:
// 0.5 is half (floored), 1 is full, 2 is double, other positive ranks scale
// linearly and floor.
func ProfComponent(rank float64, prof int) int {
	if !finite(rank) || rank <= 0 {
		return 0
	}
	switch rank {
	case 0.5:
		return int(math.Floor(float64(prof) / 2))
	case 1:
		return prof
	case 2:
		return 2 * prof
	default:
		return int(math.Floor(rank * float64(prof)))
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func floorInt(v float64) int {
	if !finite(v) {
		return 0
	}
	return int(math.Floor(v))
}
