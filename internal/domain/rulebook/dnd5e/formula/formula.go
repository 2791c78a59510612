// Package formula evaluates armor class formulas: named "@" tokens are
// substituted with numbers and the result is evaluated only if nothing but
// arithmetic remains.
package formula

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Anomanderiz/wdh-character-vault/internal/domain/shared"
)

// Token spellings accepted in formulas. Exported formulas reference these
// names, so they must not change.
const (
	TokenArmor      = "@attributes.ac.armor"
	TokenShield     = "@attributes.ac.shield"
	TokenBase       = "@attributes.ac.base"
	TokenDex        = "@attributes.ac.dex"
	TokenBonus      = "@attributes.ac.bonus"
	TokenProf       = "@prof"
	TokenAttribProf = "@attributes.prof"
)

// AbilityModToken returns the token for an ability's full modifier, e.g. "@abilities.dex.mod"
func AbilityModToken(a shared.Ability) string {
	return "@abilities." + string(a) + ".mod"
}

var (
	// ErrEmpty is returned for blank formulas
	ErrEmpty = errors.New("formula is empty")

	// ErrUnsafeExpression is returned when anything other than arithmetic
	// survives token substitution
	ErrUnsafeExpression = errors.New("formula contains non-arithmetic text")

	// ErrNonFinite is returned when the result is infinite or NaN
	ErrNonFinite = errors.New("formula result is not finite")
)

// SyntaxError reports a malformed arithmetic expression
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("formula syntax error at %d: %s", e.Pos, e.Msg)
}

var arithmeticOnly = regexp.MustCompile(`^[0-9+\-*/().\s]*$`)

// Substitute replaces every occurrence of each token with its value.
// Longer tokens are replaced first so a token never clips another one.
func Substitute(expr string, tokens map[string]float64) string {
	names := make([]string, 0, len(tokens))
	for name := range tokens {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		if name == "" {
			continue
		}
		expr = strings.ReplaceAll(expr, name, formatNumber(tokens[name]))
	}
	return expr
}

// IsArithmetic reports whether s consists solely of digits, the four
// operators, parentheses, dots and whitespace
func IsArithmetic(s string) bool {
	return arithmeticOnly.MatchString(s)
}

// Evaluate substitutes tokens into expr and evaluates the result
func Evaluate(expr string, tokens map[string]float64) (float64, error) {
	substituted := Substitute(expr, tokens)
	if strings.TrimSpace(substituted) == "" {
		return 0, ErrEmpty
	}
	if !IsArithmetic(substituted) {
		return 0, ErrUnsafeExpression
	}

	value, err := Eval(substituted)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrNonFinite
	}
	return value, nil
}

// References reports whether expr mentions token
func References(expr, token string) bool {
	return strings.Contains(expr, token)
}

func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
