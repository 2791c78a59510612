package character

import (
	"strconv"
	"strings"

	"github.com/Anomanderiz/wdh-character-vault/internal/domain/shared"
)

// Snapshot is the canonical, read-only view of an exported character document.
// Fields holding flat bonuses keep the raw JSON scalar (float64 or string) so
// the calculators can apply flat-bonus parsing to them.
type Snapshot struct {
	ID    string
	Name  string
	Image string
	Type  string

	// Abilities holds only the scores that were exported as numbers
	Abilities map[shared.Ability]float64
	Saves     map[shared.Ability]SaveData
	Skills    map[string]Skill

	Items   []*Item
	Effects []*shared.ActiveEffect

	AC      ArmorClassData
	Bonuses GlobalBonuses

	InitiativeBonus any
	DetailsLevel    float64
}

// SaveData is the per-ability saving throw block
type SaveData struct {
	Rank  float64
	Bonus any
}

// Skill is one entry of the skills mapping
type Skill struct {
	Ability      shared.Ability
	Rank         float64
	CheckBonus   any
	PassiveBonus any
}

// ArmorClassData is the attributes.ac block. Value and Flat are nil unless the
// export carried a finite number.
type ArmorClassData struct {
	Value   *float64
	Flat    *float64
	Bonus   any
	Formula string
	Calc    string
}

// GlobalBonuses are the actor-wide flat bonus strings
type GlobalBonuses struct {
	AbilityCheck any
	AbilitySave  any
	AbilitySkill any
	SkillPassive any
	ACValue      any
	ACBonus      any
	ACAll        any
}

// ClassItems returns the class entries in export order
func (s *Snapshot) ClassItems() []*Item {
	var classes []*Item
	for _, item := range s.Items {
		if item.IsClass() {
			classes = append(classes, item)
		}
	}
	return classes
}

// ClassSummary renders the classes as "Fighter 3 / Wizard 2"
func (s *Snapshot) ClassSummary() string {
	classes := s.ClassItems()
	parts := make([]string, 0, len(classes))
	for _, c := range classes {
		parts = append(parts, strings.TrimSpace(c.Name+" "+formatLevel(c.Levels)))
	}
	return strings.Join(parts, " / ")
}

func formatLevel(level int) string {
	if level <= 0 {
		return ""
	}
	return strconv.Itoa(level)
}
