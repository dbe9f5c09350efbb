package asm_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibiru-systems/rvasm/asm"
)

func TestAssemble_simpleProgram(t *testing.T) {
	img, err := asm.Assemble(`
_start:
    li a0, 42
    ecall
`)
	require.NoError(t, err)
	require.Len(t, img, 8)

	addi := binary.LittleEndian.Uint32(img[0:4])
	assert.Equal(t, uint32(0x02a00513), addi) // addi a0, x0, 42
}

func TestAssemble_labelsAndBranches(t *testing.T) {
	img, err := asm.Assemble(`
loop:
    addi a0, a0, -1
    bnez a0, loop
`)
	require.NoError(t, err)
	require.Len(t, img, 8)

	bnez := binary.LittleEndian.Uint32(img[4:8])
	assert.Equal(t, uint32(0x63), bnez&0x7f, "branch instructions use opcode 0x63")
	assert.Equal(t, uint32(1), (bnez>>12)&0x7, "bne uses funct3 1")
}

func TestAssemble_undefinedLabelIsFatal(t *testing.T) {
	_, err := asm.Assemble(`j nowhere`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nowhere")
}

func TestAssemble_duplicateLabel(t *testing.T) {
	_, err := asm.Assemble(`
foo:
    nop
foo:
    nop
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate label")
}

func TestAssemble_errorDirectiveIsFatal(t *testing.T) {
	_, err := asm.Assemble(`error "not implemented on this target"`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not implemented on this target")
}

func TestAssemble_constantShadowsRegisterRejected(t *testing.T) {
	_, err := asm.Assemble("a0 = 5\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shadows register")
}

func TestAssemble_firstErrorWins(t *testing.T) {
	_, err := asm.Assemble(`
    addi a0, a0, bogus_const
    addi a1, a1, also_bogus
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus_const")
	assert.NotContains(t, err.Error(), "also_bogus")
}

func TestAssemble_alignPadsWithZeros(t *testing.T) {
	img, err := asm.Assemble(`
    db 1
    align 4
    db 2
`)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 0, 2}, img)
}

func TestAssemble_hiLoPairLui(t *testing.T) {
	img, err := asm.Assemble(`
TARGET = 0x12345678
    lui a0, %hi(TARGET)
    addi a0, a0, %lo(TARGET)
`)
	require.NoError(t, err)
	require.Len(t, img, 8)
}

func TestAssemble_withConstantsOption(t *testing.T) {
	img, err := asm.Assemble(`
    li a0, UART_BASE
`, asm.WithConstants(map[string]int64{"UART_BASE": 0x10000000}))
	require.NoError(t, err)
	assert.NotEmpty(t, img)
}

func TestAssemble_compressedOptionShrinksImage(t *testing.T) {
	uncompressed, err := asm.Assemble("addi a0, x0, 1\n")
	require.NoError(t, err)
	compressed, err := asm.Assemble("addi a0, x0, 1\n", asm.WithCompress(true))
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(uncompressed))
}

func TestAssemble_stringDirective(t *testing.T) {
	img, err := asm.Assemble(`string "hi"`)
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), img)
}

func TestAssemble_sequenceDirectives(t *testing.T) {
	img, err := asm.Assemble(`ints 1 2 3`)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0}, img)
}

func TestAssemble_packBigEndian(t *testing.T) {
	img, err := asm.Assemble(`pack >I 0x01020304`)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, img)
}

func TestAssemble_packLittleEndianDefault(t *testing.T) {
	img, err := asm.Assemble(`pack <I 0x01020304`)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, img)
}

func TestAssemble_charLiteral(t *testing.T) {
	img, err := asm.Assemble(`li a0, '?'`)
	require.NoError(t, err)
	addi := binary.LittleEndian.Uint32(img[0:4])
	assert.Equal(t, uint32(0x03f00513), addi) // addi a0, x0, 63
}

func TestAssemble_withConstantsOutAndLabelsOut(t *testing.T) {
	var constants map[string]int64
	var labels map[string]int64

	_, err := asm.Assemble(`
BASE = 0x1000
start:
    li a0, BASE
    j start
`, asm.WithConstantsOut(&constants), asm.WithLabelsOut(&labels))
	require.NoError(t, err)

	assert.Equal(t, int64(0x1000), constants["BASE"])
	assert.Equal(t, int64(0), labels["start"])
}
