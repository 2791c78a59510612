package calculators

import (
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/character"
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/shared"
)

// DerivedStats are the values reconstructed from a snapshot. They are
// recomputed on every call and never cached.
type DerivedStats struct {
	Level             int
	ProficiencyBonus  int
	Modifiers         map[shared.Ability]int
	Skills            map[string]int
	PassivePerception int
	SavingThrows      map[shared.Ability]int
	Initiative        int
}

// Sheet is everything a renderer needs for one character
type Sheet struct {
	Snapshot   *character.Snapshot
	Stats      DerivedStats
	ArmorClass ACResult
}

// ComputeStats derives levels, modifiers, skills and saves from a snapshot
func ComputeStats(s *character.Snapshot) DerivedStats {
	level := TotalLevel(s)
	prof := ProficiencyBonus(level)
	mods := Modifiers(s)
	skills := SkillTotals(s, mods, prof)

	return DerivedStats{
		Level:             level,
		ProficiencyBonus:  prof,
		Modifiers:         mods,
		Skills:            skills,
		PassivePerception: PassivePerception(s, skills),
		SavingThrows:      SavingThrows(s, mods, prof),
		Initiative:        Initiative(s, mods),
	}
}

// Compute runs the whole pipeline for one snapshot
func Compute(s *character.Snapshot) *Sheet {
	if s == nil {
		s = &character.Snapshot{}
	}
	stats := ComputeStats(s)
	return &Sheet{
		Snapshot:   s,
		Stats:      stats,
		ArmorClass: ResolveArmorClass(s, &stats),
	}
}
