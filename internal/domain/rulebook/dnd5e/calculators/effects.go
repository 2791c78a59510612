package calculators

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Anomanderiz/wdh-character-vault/internal/domain/character"
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/shared"
)

const (
	legacyKeyPrefix = "data."
	modernKeyPrefix = "system."
)

var (
	acValueKey = regexp.MustCompile(`^system\.attributes\.ac\.(value|flat)$`)
	acBonusKey = regexp.MustCompile(`^system\.attributes\.ac\.bonus$`)
)

// ACEffects is what qualifying active effects contribute to armor class.
// Override is nil unless an override-mode change targeted the AC value.
type ACEffects struct {
	Override *float64
	Bonus    float64
}

// QualifyingEffects returns the effects that apply to the character: enabled
// character effects, plus enabled transferring effects of items that are
// equipped or attuned
func QualifyingEffects(s *character.Snapshot) []*shared.ActiveEffect {
	var effects []*shared.ActiveEffect
	for _, effect := range s.Effects {
		if effect != nil && !effect.Disabled {
			effects = append(effects, effect)
		}
	}

	for _, item := range s.Items {
		if !item.Equipped && !item.IsAttuned() {
			continue
		}
		for _, effect := range item.Effects {
			if effect != nil && !effect.Disabled && effect.Transfer {
				effects = append(effects, effect)
			}
		}
	}
	return effects
}

// ExtractACEffects walks the changes of the given effects in order.
//
// On the value/flat key, override sets the running override and add
// accumulates into the bonus. On the bonus key, add accumulates and override
// replaces the accumulated bonus. Other modes and keys are ignored.
func ExtractACEffects(effects []*shared.ActiveEffect) ACEffects {
	var result ACEffects
	for _, effect := range effects {
		for _, change := range effect.Changes {
			key := normalizeChangeKey(change.Key)

			switch {
			case acValueKey.MatchString(key):
				switch change.Mode {
				case shared.EffectModeOverride:
					if v, ok := numericValue(change.Value); ok {
						result.Override = &v
					}
				case shared.EffectModeAdd:
					result.Bonus += ParseFlatBonus(change.Value)
				}
			case acBonusKey.MatchString(key):
				switch change.Mode {
				case shared.EffectModeAdd:
					result.Bonus += ParseFlatBonus(change.Value)
				case shared.EffectModeOverride:
					result.Bonus = ParseFlatBonus(change.Value)
				}
			}
		}
	}
	return result
}

func normalizeChangeKey(key string) string {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, legacyKeyPrefix) {
		return modernKeyPrefix + strings.TrimPrefix(key, legacyKeyPrefix)
	}
	return key
}

// numericValue accepts finite numbers and numeric strings
func numericValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, finite(t)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
