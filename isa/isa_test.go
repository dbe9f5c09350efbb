package isa

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupRegister(t *testing.T) {
	cases := []struct {
		tok  string
		want Register
	}{
		{"x0", 0}, {"zero", 0}, {"0", 0},
		{"sp", 2}, {"x2", 2},
		{"t0", 5}, {"fp", 8}, {"s0", 8},
		{"a0", 10}, {"x31", 31}, {"31", 31},
	}
	for _, c := range cases {
		got, ok := LookupRegister(c.tok)
		require.True(t, ok, c.tok)
		assert.Equal(t, c.want, got, c.tok)
	}

	_, ok := LookupRegister("x32")
	assert.False(t, ok)
	_, ok = LookupRegister("notareg")
	assert.False(t, ok)
}

func TestHiLoRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		v := int64(int32(r.Uint32()))
		hi := RelocateHi(v)
		lo := RelocateLo(v)
		got := int32((hi << 12) + lo)
		assert.Equal(t, int32(v), got, "v=%d hi=%d lo=%d", v, hi, lo)
	}
}

func TestIType(t *testing.T) {
	// addi a0, a0, 1
	code, err := IType(10, 10, 1, Instructions["addi"].Opcode, Instructions["addi"].Funct3)
	require.NoError(t, err)
	assert.Equal(t, uint32(0b000000000001_01010_000_01010_0010011), code)

	_, err = IType(0, 0, 2048, 0, 0)
	assert.Error(t, err)
}

func TestBTypeRejectsOdd(t *testing.T) {
	_, err := BType(1, 2, 3, 0, 0)
	assert.Error(t, err)
}

func TestUTypeWrap(t *testing.T) {
	// 0x80000 must reinterpret as the negative 20-bit equivalent, not error
	code, err := UType(5, 0x80000, Instructions["lui"].Opcode)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x80000)<<12|uint32(5)<<7|Instructions["lui"].Opcode, code)
}

func TestJTypeEncodesJAL(t *testing.T) {
	code, err := JType(1, 4, Instructions["jal"].Opcode)
	require.NoError(t, err)
	assert.NotZero(t, code)
	assert.Equal(t, uint32(Instructions["jal"].Opcode), code&0x7f)
}

func TestCompressedRegisterRange(t *testing.T) {
	_, err := CompressedReg(3)
	assert.Error(t, err)
	r, err := CompressedReg(9)
	require.NoError(t, err)
	assert.Equal(t, Register(1), r)
}

func TestCIType(t *testing.T) {
	_, err := CIType(5, 32, 0b01, 0b000)
	assert.Error(t, err, "imm 32 is out of the 6-bit signed range")

	code, err := CIType(5, -1, 0b01, 0b000)
	require.NoError(t, err)
	assert.NotZero(t, code)
}

func TestTransformCompressibleOrdering(t *testing.T) {
	// addi sp, sp, 16 must prefer c.addi16sp over c.addi even though
	// both predicates would otherwise match a 6-bit-signed immediate.
	to, ok := TransformCompressible("addi", Operands{Rd: 2, Rs1: 2, Imm: 16})
	require.True(t, ok)
	assert.Equal(t, "c.addi16sp", to)

	to, ok = TransformCompressible("addi", Operands{Rd: 9, Rs1: 9, Imm: 3})
	require.True(t, ok)
	assert.Equal(t, "c.addi", to)

	_, ok = TransformCompressible("addi", Operands{Rd: 9, Rs1: 9, Imm: 0})
	assert.False(t, ok, "zero immediate is not a valid C.ADDI")
}

func TestTransformCompressibleNoMatch(t *testing.T) {
	_, ok := TransformCompressible("addi", Operands{Rd: 9, Rs1: 10, Imm: 1})
	assert.False(t, ok)
}

func TestFenceBareEncoding(t *testing.T) {
	code, err := Fence(0b1111, 0b1111, 0, Instructions["fence"].Opcode, Instructions["fence"].Funct3)
	require.NoError(t, err)
	assert.Equal(t, uint32(0b000011111111_00000_000_00000_0001111), code)
}

func TestAtomicLRWImplicitRS2(t *testing.T) {
	def := Instructions["lr.w"]
	code, err := def.Encode(Operands{Rd: 10, Rs1: 11, Rs2: 12})
	require.NoError(t, err)
	// rs2 field (bits 20-24) must be zero regardless of caller-set operands
	assert.Zero(t, (code>>20)&0x1f)
}
