package shared

// EffectMode is the numeric application mode carried by an effect change
type EffectMode int

// Mode values as exported by the character sheet application
const (
	EffectModeCustom    EffectMode = 0
	EffectModeMultiply  EffectMode = 1
	EffectModeAdd       EffectMode = 2
	EffectModeDowngrade EffectMode = 3
	EffectModeUpgrade   EffectMode = 4
	EffectModeOverride  EffectMode = 5
)

func (m EffectMode) String() string {
	switch m {
	case EffectModeCustom:
		return "custom"
	case EffectModeMultiply:
		return "multiply"
	case EffectModeAdd:
		return "add"
	case EffectModeDowngrade:
		return "downgrade"
	case EffectModeUpgrade:
		return "upgrade"
	case EffectModeOverride:
		return "override"
	default:
		return "unknown"
	}
}

// EffectChange is a single {key, mode, value} entry of an active effect.
// Value keeps the raw JSON scalar (float64 or string, nil otherwise).
type EffectChange struct {
	Key   string     `json:"key"`
	Mode  EffectMode `json:"mode"`
	Value any        `json:"value"`
}

// ActiveEffect is a rule modifier attached to a character or an item
type ActiveEffect struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Disabled bool           `json:"disabled"`
	Transfer bool           `json:"transfer"`
	Changes  []EffectChange `json:"changes"`
}
