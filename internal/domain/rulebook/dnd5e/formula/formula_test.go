package formula_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anomanderiz/wdh-character-vault/internal/domain/rulebook/dnd5e/formula"
	"github.com/Anomanderiz/wdh-character-vault/internal/domain/shared"
)

func TestEval(t *testing.T) {
	tests := []struct {
		expr     string
		expected float64
	}{
		{"1", 1},
		{"  42  ", 42},
		{"1 + 2", 3},
		{"10 - 4 - 3", 3},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"18 / 4", 4.5},
		{"8 / 2 / 2", 2},
		{"-3 + 5", 2},
		{"10 + -1", 9},
		{"10--1", 11},
		{"+4", 4},
		{"-(2 + 3)", -5},
		{"((1))", 1},
		{"1.5 * 2", 3},
		{".5 + .5", 1},
		{"10\n+\t3", 13},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := formula.Eval(tt.expr)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestEval_SyntaxErrors(t *testing.T) {
	for _, expr := range []string{
		"1 +",
		"* 2",
		"(1 + 2",
		"1 + 2)",
		"()",
		"1 2",
		"1..2",
		"1.2.3",
		".",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := formula.Eval(expr)
			var syntaxErr *formula.SyntaxError
			assert.ErrorAs(t, err, &syntaxErr)
		})
	}

	_, err := formula.Eval("   ")
	assert.ErrorIs(t, err, formula.ErrEmpty)
}

func TestSubstitute(t *testing.T) {
	tokens := map[string]float64{
		formula.TokenArmor: 18,
		formula.TokenDex:   -1,
		formula.TokenBonus: 1.5,
		formula.TokenProf:  3,
	}

	assert.Equal(t, "18 + -1", formula.Substitute("@attributes.ac.armor + @attributes.ac.dex", tokens))
	assert.Equal(t, "18 + 18", formula.Substitute("@attributes.ac.armor + @attributes.ac.armor", tokens))
	assert.Equal(t, "1.5*3", formula.Substitute("@attributes.ac.bonus*@prof", tokens))
	assert.Equal(t, "3iciency", formula.Substitute("@proficiency", tokens))
}

func TestSubstitute_LongerTokensFirst(t *testing.T) {
	tokens := map[string]float64{
		formula.TokenProf:       2,
		formula.TokenAttribProf: 5,
		"@attributes":           99,
	}

	assert.Equal(t, "5 + 2", formula.Substitute("@attributes.prof + @prof", tokens))
}

func TestEvaluate(t *testing.T) {
	tokens := map[string]float64{
		formula.TokenArmor:  16,
		formula.TokenShield: 2,
		formula.TokenBase:   10,
		formula.TokenDex:    2,
		formula.TokenBonus:  1,
		formula.TokenProf:   3,
	}
	for _, a := range shared.Abilities {
		tokens[formula.AbilityModToken(a)] = 1
	}

	t.Run("arithmetic after substitution", func(t *testing.T) {
		got, err := formula.Evaluate("@attributes.ac.armor + @attributes.ac.shield + @attributes.ac.dex", tokens)
		require.NoError(t, err)
		assert.Equal(t, 20.0, got)
	})

	t.Run("ability modifier tokens", func(t *testing.T) {
		got, err := formula.Evaluate("@attributes.ac.base + @abilities.dex.mod + @abilities.wis.mod", tokens)
		require.NoError(t, err)
		assert.Equal(t, 12.0, got)
	})

	t.Run("leftover tokens are rejected", func(t *testing.T) {
		_, err := formula.Evaluate("@attributes.ac.armor + @classes.monk.levels", tokens)
		assert.ErrorIs(t, err, formula.ErrUnsafeExpression)
	})

	t.Run("code is rejected", func(t *testing.T) {
		for _, expr := range []string{
			"Math.max(1, 2)",
			"alert(1)",
			"1; 2",
			"2 ** 3",
			"1 % 2",
			"10 > 2",
			"[1]",
		} {
			_, err := formula.Evaluate(expr, tokens)
			assert.Error(t, err, expr)
		}
	})

	t.Run("division by zero is not finite", func(t *testing.T) {
		_, err := formula.Evaluate("@attributes.ac.armor / 0", tokens)
		assert.ErrorIs(t, err, formula.ErrNonFinite)
	})

	t.Run("empty formula", func(t *testing.T) {
		_, err := formula.Evaluate("", tokens)
		assert.ErrorIs(t, err, formula.ErrEmpty)
	})

	t.Run("whitelist", func(t *testing.T) {
		assert.True(t, formula.IsArithmetic("(1 + 2) * 3 / 4 - 5.5"))
		assert.False(t, formula.IsArithmetic("1 + x"))
		assert.False(t, formula.IsArithmetic("1,2"))
	})

	t.Run("references", func(t *testing.T) {
		assert.True(t, formula.References("10 + @attributes.ac.bonus", formula.TokenBonus))
		assert.False(t, formula.References("10 + @attributes.ac.dex", formula.TokenBonus))
	})
}
