package calculators

import (
	"regexp"
	"strconv"
)

var (
	diceNotation  = regexp.MustCompile(`(?i)\d+d\d`)
	signedInteger = regexp.MustCompile(`[+-]?\d+`)
)

// ParseFlatBonus reads a flat bonus. Numbers are returned as is (0 when not
// finite). Strings containing dice notation such as "1d4" are rejected with
// 0; otherwise every signed integer in the string is summed, so "-1 +3" is 2.
// Anything else is 0.
func ParseFlatBonus(v any) float64 {
	switch t := v.(type) {
	case float64:
		if !finite(t) {
			return 0
		}
		return t
	case float32:
		return ParseFlatBonus(float64(t))
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		return parseFlatBonusString(t)
	default:
		return 0
	}
}

func parseFlatBonusString(s string) float64 {
	if s == "" || diceNotation.MatchString(s) {
		return 0
	}

	total := 0.0
	for _, match := range signedInteger.FindAllString(s, -1) {
		n, err := strconv.ParseInt(match, 10, 64)
		if err != nil {
			continue
		}
		total += float64(n)
	}
	return total
}
