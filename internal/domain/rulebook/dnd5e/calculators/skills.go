package calculators

import (
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/character"
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/shared"
)

// SkillPerception is the skill code passive perception is derived from
const SkillPerception = "prc"

// SkillTotals computes the total of every skill in the snapshot: ability
// modifier + proficiency component + per-skill and global flat bonuses.
// Skills with a missing or unknown ability get no ability contribution.
func SkillTotals(s *character.Snapshot, mods map[shared.Ability]int, prof int) map[string]int {
	global := ParseFlatBonus(s.Bonuses.AbilitySkill) + ParseFlatBonus(s.Bonuses.AbilityCheck)

	totals := make(map[string]int, len(s.Skills))
	for code, skill := range s.Skills {
		total := float64(ProfComponent(skill.Rank, prof)) + ParseFlatBonus(skill.CheckBonus) + global
		if skill.Ability.Valid() {
			total += float64(mods[skill.Ability])
		}
		totals[code] = floorInt(total)
	}
	return totals
}

// PassivePerception is 10 + the perception total + the per-skill passive
// bonus + the global passive bonus
func PassivePerception(s *character.Snapshot, skills map[string]int) int {
	passive := 10 + float64(skills[SkillPerception]) + ParseFlatBonus(s.Bonuses.SkillPassive)
	if prc, ok := s.Skills[SkillPerception]; ok {
		passive += ParseFlatBonus(prc.PassiveBonus)
	}
	return floorInt(passive)
}

// SavingThrows computes a save total for each ability
func SavingThrows(s *character.Snapshot, mods map[shared.Ability]int, prof int) map[shared.Ability]int {
	global := ParseFlatBonus(s.Bonuses.AbilitySave)

	saves := make(map[shared.Ability]int, len(shared.Abilities))
	for _, a := range shared.Abilities {
		save := s.Saves[a]
		total := float64(mods[a]) + float64(ProfComponent(save.Rank, prof)) + ParseFlatBonus(save.Bonus) + global
		saves[a] = floorInt(total)
	}
	return saves
}

// Initiative is the Dexterity modifier plus the initiative and global check bonuses
func Initiative(s *character.Snapshot, mods map[shared.Ability]int) int {
	total := float64(mods[shared.AbilityDexterity]) +
		ParseFlatBonus(s.InitiativeBonus) +
		ParseFlatBonus(s.Bonuses.AbilityCheck)
	return floorInt(total)
}
