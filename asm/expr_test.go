package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalArith(t *testing.T, text string) int64 {
	t.Helper()
	v, err := Arithmetic{Text: text}.Eval(0, NewEnvironment())
	require.NoError(t, err)
	return v
}

func TestArithmetic_charLiteral(t *testing.T) {
	assert.Equal(t, int64(63), evalArith(t, "'?'"))
	assert.Equal(t, int64('A'), evalArith(t, "'A'"))
}

func TestArithmetic_charLiteralEscapes(t *testing.T) {
	assert.Equal(t, int64('\n'), evalArith(t, "'\\n'"))
	assert.Equal(t, int64('\t'), evalArith(t, "'\\t'"))
	assert.Equal(t, int64(0), evalArith(t, "'\\0'"))
}

func TestArithmetic_charLiteralInExpression(t *testing.T) {
	assert.Equal(t, int64(66), evalArith(t, "'A' + 1"))
}

func TestArithmetic_precedence(t *testing.T) {
	assert.Equal(t, int64(14), evalArith(t, "2 + 3 * 4"))
	assert.Equal(t, int64(20), evalArith(t, "(2 + 3) * 4"))
	assert.Equal(t, int64(1), evalArith(t, "1 | 2 & 3 ^ 2"))
	assert.Equal(t, int64(8), evalArith(t, "1 << 3"))
}

func TestArithmetic_undefinedSymbolErrors(t *testing.T) {
	_, err := Arithmetic{Text: "UNDEFINED_THING"}.Eval(0, NewEnvironment())
	require.Error(t, err)
}
