package builders

var skillNames = map[string]string{
	"acr": "Acrobatics",
	"ani": "Animal Handling",
	"arc": "Arcana",
	"ath": "Athletics",
	"dec": "Deception",
	"his": "History",
	"ins": "Insight",
	"itm": "Intimidation",
	"inv": "Investigation",
	"med": "Medicine",
	"nat": "Nature",
	"prc": "Perception",
	"prf": "Performance",
	"per": "Persuasion",
	"rel": "Religion",
	"slt": "Sleight of Hand",
	"ste": "Stealth",
	"sur": "Survival",
}

// SkillName returns the display name of a skill code, or the code itself for
// homebrew skills
func SkillName(code string) string {
	if name, ok := skillNames[code]; ok {
		return name
	}
	return code
}
