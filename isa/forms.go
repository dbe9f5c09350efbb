package isa

import "fmt"

// RType encodes an R-type instruction: register-register ALU ops.
func RType(rd, rs1, rs2 Register, opcode, funct3, funct7 uint32) (uint32, error) {
	code := opcode
	code |= uint32(rd) << 7
	code |= funct3 << 12
	code |= uint32(rs1) << 15
	code |= uint32(rs2) << 20
	code |= funct7 << 25
	return code, nil
}

// IType encodes an I-type instruction: 12-bit signed immediate, range
// [-2048, 2047].
func IType(rd, rs1 Register, imm int64, opcode, funct3 uint32) (uint32, error) {
	if imm < -0x800 || imm > 0x7ff {
		return 0, fmt.Errorf("value out of range: 12-bit immediate must be between -2048 and 2047: %d", imm)
	}
	u := uint32(imm) & 0xfff
	code := opcode
	code |= uint32(rd) << 7
	code |= funct3 << 12
	code |= uint32(rs1) << 15
	code |= u << 20
	return code, nil
}

// IJType is the JALR variant of I-type: same range, additionally
// requires an even immediate.
func IJType(rd, rs1 Register, imm int64, opcode, funct3 uint32) (uint32, error) {
	if imm < -0x800 || imm > 0x7ff {
		return 0, fmt.Errorf("value out of range: 12-bit immediate must be between -2048 and 2047: %d", imm)
	}
	if imm%2 != 0 {
		return 0, fmt.Errorf("value not a multiple of 2: %d", imm)
	}
	u := uint32(imm) & 0xfff
	code := opcode
	code |= uint32(rd) << 7
	code |= funct3 << 12
	code |= uint32(rs1) << 15
	code |= u << 20
	return code, nil
}

// SType encodes an S-type instruction: store, immediate split across
// two fields.
func SType(rs1, rs2 Register, imm int64, opcode, funct3 uint32) (uint32, error) {
	if imm < -0x800 || imm > 0x7ff {
		return 0, fmt.Errorf("value out of range: 12-bit immediate must be between -2048 and 2047: %d", imm)
	}
	u := uint32(imm) & 0xfff
	imm115 := (u >> 5) & 0x7f
	imm40 := u & 0x1f

	code := opcode
	code |= imm40 << 7
	code |= funct3 << 12
	code |= uint32(rs1) << 15
	code |= uint32(rs2) << 20
	code |= imm115 << 25
	return code, nil
}

// BType encodes a B-type instruction: conditional branch, even
// multiple-of-2 immediate in [-4096, 4095], halved then scattered.
func BType(rs1, rs2 Register, imm int64, opcode, funct3 uint32) (uint32, error) {
	if imm < -0x1000 || imm > 0x0fff {
		return 0, fmt.Errorf("value out of range: 12-bit MO2 immediate must be between -4096 and 4095: %d", imm)
	}
	if imm%2 != 0 {
		return 0, fmt.Errorf("value not a multiple of 2: %d", imm)
	}
	u := uint32(imm>>1) & 0xfff

	imm12 := (u >> 11) & 0b1
	imm11 := (u >> 10) & 0b1
	imm105 := (u >> 4) & 0b111111
	imm41 := u & 0b1111

	code := opcode
	code |= imm11 << 7
	code |= imm41 << 8
	code |= funct3 << 12
	code |= uint32(rs1) << 15
	code |= uint32(rs2) << 20
	code |= imm105 << 25
	code |= imm12 << 31
	return code, nil
}

// UType encodes a U-type instruction: 20-bit upper immediate. Values
// in 0x80000..0xfffff are accepted and reinterpreted as their signed
// 20-bit counterpart (the assembler-level U-immediate wrap).
func UType(rd Register, imm int64, opcode uint32) (uint32, error) {
	if imm >= 0x80000 && imm <= 0xfffff {
		imm = int64(SignExtend(imm, 20))
	}
	if imm < -0x80000 || imm > 0x7ffff {
		return 0, fmt.Errorf("value out of range: 20-bit immediate must be between -524288 and 524287: %d", imm)
	}
	u := uint32(imm) & 0xfffff
	code := opcode
	code |= uint32(rd) << 7
	code |= u << 12
	return code, nil
}

// JType encodes a J-type instruction: JAL, even multiple-of-2
// immediate in [-0x100000, 0xfffff], halved then scattered.
func JType(rd Register, imm int64, opcode uint32) (uint32, error) {
	if imm < -0x100000 || imm > 0x0fffff {
		return 0, fmt.Errorf("value out of range: 20-bit MO2 immediate must be between -1048576 and 1048575: %d", imm)
	}
	if imm%2 != 0 {
		return 0, fmt.Errorf("value not a multiple of 2: %d", imm)
	}
	u := uint32(imm>>1) & 0xfffff

	imm20 := (u >> 19) & 0b1
	imm1912 := (u >> 11) & 0xff
	imm11 := (u >> 10) & 0b1
	imm101 := u & 0x3ff

	code := opcode
	code |= uint32(rd) << 7
	code |= imm1912 << 12
	code |= imm11 << 20
	code |= imm101 << 21
	code |= imm20 << 31
	return code, nil
}

// Fence encodes the FENCE instruction: pred/succ are 4-bit nibbles,
// fm is the (always-zero in the base spec) fence mode, reuses the
// I-type layout with rd=rs1=0.
func Fence(succ, pred, fm uint32, opcode, funct3 uint32) (uint32, error) {
	if succ > 0b1111 {
		return 0, fmt.Errorf("invalid successor value for FENCE instruction: %d", succ)
	}
	if pred > 0b1111 {
		return 0, fmt.Errorf("invalid predecessor value for FENCE instruction: %d", pred)
	}
	imm := int64((fm << 8) | (pred << 4) | succ)
	return IType(0, 0, imm, opcode, funct3)
}

// AType encodes an atomic (RV32A) instruction: R-type with aq/rl
// folded into funct7 alongside funct5.
func AType(rd, rs1, rs2 Register, opcode, funct3, funct5, aq, rl uint32) (uint32, error) {
	if aq > 1 {
		return 0, fmt.Errorf("aq must be either 0 or 1")
	}
	if rl > 1 {
		return 0, fmt.Errorf("rl must be either 0 or 1")
	}
	funct7 := funct5<<2 | aq<<1 | rl
	return RType(rd, rs1, rs2, opcode, funct3, funct7)
}
