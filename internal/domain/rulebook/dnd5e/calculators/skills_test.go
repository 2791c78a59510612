package calculators_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anomanderiz/wdh-character-vault/internal/domain/rulebook/dnd5e/calculators"
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/shared"
	"github.com/Anomanderiz/wdh-character-vault/internal/testutils"
)

func skillActor() *testutils.ActorBuilder {
	return testutils.NewActor("s1", "Scout").
		WithClass("Rogue", 5). // proficiency +3
		WithAbilities(10, 16, 12, 14, 13, 8).
		WithSkill("ste", shared.AbilityDexterity, 2).
		WithSkill("prc", shared.AbilityWisdom, 1).
		WithSkill("ath", shared.AbilityStrength, 0.5).
		WithSkill("arc", shared.AbilityIntelligence, 0)
}

func TestSkillTotals(t *testing.T) {
	t.Run("ability plus proficiency rank", func(t *testing.T) {
		snapshot := skillActor().Snapshot()
		stats := calculators.ComputeStats(snapshot)

		require.Equal(t, 3, stats.ProficiencyBonus)
		assert.Equal(t, 9, stats.Skills["ste"]) // 3 DEX + 6 expertise
		assert.Equal(t, 4, stats.Skills["prc"]) // 1 WIS + 3
		assert.Equal(t, 1, stats.Skills["ath"]) // 0 STR + floor(3/2)
		assert.Equal(t, 2, stats.Skills["arc"]) // 2 INT
	})

	t.Run("flat bonuses from three sources", func(t *testing.T) {
		snapshot := skillActor().
			Set("skills.ste.bonuses.check", "+1").
			Set("bonuses.abilities.skill", "+2").
			Set("bonuses.abilities.check", "-1 +2").
			Snapshot()
		stats := calculators.ComputeStats(snapshot)

		assert.Equal(t, 13, stats.Skills["ste"]) // 9 + 1 + 2 + 1
		assert.Equal(t, 7, stats.Skills["prc"])  // 4 + 2 + 1
	})

	t.Run("dice bonuses are ignored", func(t *testing.T) {
		snapshot := skillActor().
			Set("bonuses.abilities.skill", "1d4").
			Snapshot()
		stats := calculators.ComputeStats(snapshot)

		assert.Equal(t, 9, stats.Skills["ste"])
	})

	t.Run("unknown ability contributes nothing", func(t *testing.T) {
		snapshot := skillActor().
			WithSkill("odd", shared.Ability("luck"), 1).
			Set("skills.none", map[string]any{"value": 1}).
			Snapshot()
		stats := calculators.ComputeStats(snapshot)

		assert.Equal(t, 3, stats.Skills["odd"])
		assert.Equal(t, 3, stats.Skills["none"])
	})
}

func TestPassivePerception(t *testing.T) {
	t.Run("ten plus perception", func(t *testing.T) {
		stats := calculators.ComputeStats(skillActor().Snapshot())
		assert.Equal(t, 14, stats.PassivePerception)
	})

	t.Run("passive bonuses", func(t *testing.T) {
		snapshot := skillActor().
			Set("skills.prc.bonuses.passive", "+5").
			Set("bonuses.skill.passive", 1).
			Snapshot()
		stats := calculators.ComputeStats(snapshot)
		assert.Equal(t, 20, stats.PassivePerception)
	})

	t.Run("no perception skill", func(t *testing.T) {
		stats := calculators.ComputeStats(testutils.NewActor("p1", "Blind").Snapshot())
		assert.Equal(t, 10, stats.PassivePerception)
	})
}

func TestSavingThrows(t *testing.T) {
	snapshot := skillActor().
		Set("abilities.dex.proficient", 1).
		Set("abilities.int.proficient", 1).
		Set("abilities.int.bonuses.save", "+1").
		Set("bonuses.abilities.save", "+1").
		Snapshot()
	stats := calculators.ComputeStats(snapshot)

	assert.Equal(t, 7, stats.SavingThrows[shared.AbilityDexterity]) // 3 + 3 + 1
	assert.Equal(t, 7, stats.SavingThrows[shared.AbilityIntelligence])
	assert.Equal(t, 1, stats.SavingThrows[shared.AbilityStrength])
	assert.Equal(t, 0, stats.SavingThrows[shared.AbilityCharisma]) // -1 + 1
}

func TestInitiative(t *testing.T) {
	snapshot := skillActor().
		Set("attributes.init.bonus", "+2").
		Snapshot()
	stats := calculators.ComputeStats(snapshot)

	assert.Equal(t, 5, stats.Initiative)
}
