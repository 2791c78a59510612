package shared

import "strings"

// Ability is the short key an exported snapshot uses for an ability score
type Ability string

// Abilities lists the six ability scores in sheet order
var Abilities = []Ability{AbilityStrength, AbilityDexterity, AbilityConstitution, AbilityIntelligence, AbilityWisdom, AbilityCharisma}

const (
	AbilityNone         Ability = ""
	AbilityStrength     Ability = "str"
	AbilityDexterity    Ability = "dex"
	AbilityConstitution Ability = "con"
	AbilityIntelligence Ability = "int"
	AbilityWisdom       Ability = "wis"
	AbilityCharisma     Ability = "cha"
)

// ParseAbility maps a raw key to a known ability. Unknown keys return AbilityNone.
func ParseAbility(raw string) Ability {
	a := Ability(strings.ToLower(strings.TrimSpace(raw)))
	if a.Valid() {
		return a
	}
	return AbilityNone
}

// Valid reports whether the ability is one of the six known keys
func (a Ability) Valid() bool {
	for _, known := range Abilities {
		if a == known {
			return true
		}
	}
	return false
}

// Short returns the display abbreviation, e.g. "DEX"
func (a Ability) Short() string {
	return strings.ToUpper(string(a))
}

// Name returns the full ability name
func (a Ability) Name() string {
	switch a {
	case AbilityStrength:
		return "Strength"
	case AbilityDexterity:
		return "Dexterity"
	case AbilityConstitution:
		return "Constitution"
	case AbilityIntelligence:
		return "Intelligence"
	case AbilityWisdom:
		return "Wisdom"
	case AbilityCharisma:
		return "Charisma"
	default:
		return ""
	}
}
