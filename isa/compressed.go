package isa

import "fmt"

// CRType encodes a CR-format compressed instruction (C.JR, C.MV, C.JALR,
// C.ADD): full 5-bit register fields, no immediate.
func CRType(rdRs1, rs2 Register, opcode, funct4 uint32) (uint32, error) {
	code := opcode
	code |= uint32(rs2) << 2
	code |= uint32(rdRs1) << 7
	code |= funct4 << 12
	return code, nil
}

// CIType encodes a CI-format compressed instruction (C.NOP, C.ADDI,
// C.LI, C.LUI, C.SLLI): 6-bit signed immediate in [-32, 31].
func CIType(rdRs1 Register, imm int64, opcode, funct3 uint32) (uint32, error) {
	if imm < -32 || imm > 31 {
		return 0, fmt.Errorf("value out of range: 6-bit immediate must be between -32 and 31: %d", imm)
	}
	u := uint32(imm) & 0b111111
	imm5 := (u >> 5) & 0b1
	imm40 := u & 0b11111

	code := opcode
	code |= imm40 << 2
	code |= uint32(rdRs1) << 7
	code |= imm5 << 12
	code |= funct3 << 13
	return code, nil
}

// CISType encodes the CI variant used by C.ADDI16SP: a 6-bit,
// multiple-of-16 signed immediate in [-512, 511].
func CISType(rdRs1 Register, imm int64, opcode, funct3 uint32) (uint32, error) {
	if imm < -512 || imm > 511 {
		return 0, fmt.Errorf("value out of range: 6-bit MO16 immediate must be between -512 and 511: %d", imm)
	}
	if imm%16 != 0 {
		return 0, fmt.Errorf("value not a multiple of 16: %d", imm)
	}
	u := uint32(imm>>4) & 0b111111
	imm9 := (u >> 5) & 0b1
	imm84 := u & 0b11111

	code := opcode
	code |= imm84 << 2
	code |= uint32(rdRs1) << 7
	code |= imm9 << 12
	code |= funct3 << 13
	return code, nil
}

// CLSType encodes the CI variant used by C.LWSP: an 8-bit, multiple-of-4
// unsigned immediate in [0, 255].
func CLSType(rd Register, imm int64, opcode, funct3 uint32) (uint32, error) {
	if imm < 0 || imm > 255 {
		return 0, fmt.Errorf("value out of range: 6-bit MO4 unsigned immediate must be between 0 and 255: %d", imm)
	}
	if imm%4 != 0 {
		return 0, fmt.Errorf("value not a multiple of 4: %d", imm)
	}
	u := uint32(imm>>2) & 0b111111
	imm7 := (u >> 5) & 0b1
	imm62 := u & 0b11111

	code := opcode
	code |= imm62 << 2
	code |= uint32(rd) << 7
	code |= imm7 << 12
	code |= funct3 << 13
	return code, nil
}

// CSSType encodes C.SWSP: an 8-bit, multiple-of-4 unsigned immediate.
func CSSType(rs2 Register, imm int64, opcode, funct3 uint32) (uint32, error) {
	if imm < 0 || imm > 255 {
		return 0, fmt.Errorf("value out of range: 6-bit MO4 unsigned immediate must be between 0 and 255: %d", imm)
	}
	if imm%4 != 0 {
		return 0, fmt.Errorf("value not a multiple of 4: %d", imm)
	}
	u := uint32(imm>>2) & 0b111111
	imm76 := (u >> 4) & 0b11
	imm52 := u & 0b1111

	code := opcode
	code |= uint32(rs2) << 2
	code |= imm76 << 7
	code |= imm52 << 9
	code |= funct3 << 13
	return code, nil
}

// CIWType encodes C.ADDI4SPN: a compressed rd and a 10-bit,
// multiple-of-4 unsigned immediate in [0, 1023].
func CIWType(rd Register, imm int64, opcode, funct3 uint32) (uint32, error) {
	rd, err := CompressedReg(rd)
	if err != nil {
		return 0, err
	}
	if imm < 0 || imm > 1023 {
		return 0, fmt.Errorf("value out of range: 8-bit MO4 unsigned immediate must be between 0 and 1023: %d", imm)
	}
	if imm%4 != 0 {
		return 0, fmt.Errorf("value not a multiple of 4: %d", imm)
	}
	u := uint32(imm>>2) & 0xff
	imm96 := (u >> 4) & 0b1111
	imm54 := (u >> 2) & 0b11
	imm3 := (u >> 1) & 0b1
	imm2 := u & 0b1

	code := opcode
	code |= uint32(rd) << 2
	code |= imm3 << 5
	code |= imm2 << 6
	code |= imm96 << 7
	code |= imm54 << 11
	code |= funct3 << 13
	return code, nil
}

// CLType encodes C.LW: compressed rd/rs1, 7-bit multiple-of-4 unsigned
// immediate in [0, 127].
func CLType(rd, rs1 Register, imm int64, opcode, funct3 uint32) (uint32, error) {
	rd, err := CompressedReg(rd)
	if err != nil {
		return 0, err
	}
	rs1, err = CompressedReg(rs1)
	if err != nil {
		return 0, err
	}
	if imm < 0 || imm > 127 {
		return 0, fmt.Errorf("value out of range: 5-bit MO4 unsigned immediate must be between 0 and 127: %d", imm)
	}
	if imm%4 != 0 {
		return 0, fmt.Errorf("value not a multiple of 4: %d", imm)
	}
	u := uint32(imm>>2) & 0b11111
	imm6 := (u >> 4) & 0b1
	imm53 := (u >> 1) & 0b111
	imm2 := u & 0b1

	code := opcode
	code |= uint32(rd) << 2
	code |= imm6 << 5
	code |= imm2 << 6
	code |= uint32(rs1) << 7
	code |= imm53 << 10
	code |= funct3 << 13
	return code, nil
}

// CSType encodes C.SW: compressed rs1/rs2, same immediate shape as CL.
func CSType(rs1, rs2 Register, imm int64, opcode, funct3 uint32) (uint32, error) {
	rs1, err := CompressedReg(rs1)
	if err != nil {
		return 0, err
	}
	rs2, err = CompressedReg(rs2)
	if err != nil {
		return 0, err
	}
	if imm < 0 || imm > 127 {
		return 0, fmt.Errorf("value out of range: 5-bit MO4 unsigned immediate must be between 0 and 127: %d", imm)
	}
	if imm%4 != 0 {
		return 0, fmt.Errorf("value not a multiple of 4: %d", imm)
	}
	u := uint32(imm>>2) & 0b11111
	imm6 := (u >> 4) & 0b1
	imm53 := (u >> 1) & 0b111
	imm2 := u & 0b1

	code := opcode
	code |= uint32(rs2) << 2
	code |= imm6 << 5
	code |= imm2 << 6
	code |= uint32(rs1) << 7
	code |= imm53 << 10
	code |= funct3 << 13
	return code, nil
}

// CAType encodes CA-format compressed instructions (C.SUB, C.XOR, C.OR,
// C.AND): compressed rd/rs1 and rs2, no immediate.
func CAType(rdRs1, rs2 Register, opcode, funct2, funct6 uint32) (uint32, error) {
	rdRs1, err := CompressedReg(rdRs1)
	if err != nil {
		return 0, err
	}
	rs2, err = CompressedReg(rs2)
	if err != nil {
		return 0, err
	}
	code := opcode
	code |= uint32(rs2) << 2
	code |= funct2 << 5
	code |= uint32(rdRs1) << 7
	code |= funct6 << 10
	return code, nil
}

// CBType encodes CB-format compressed branches (C.BEQZ, C.BNEZ): a
// compressed rs1 and a 9-bit MO2 signed byte offset, halved here before
// its bits are scattered.
func CBType(rs1 Register, imm int64, opcode, funct3 uint32) (uint32, error) {
	rs1, err := CompressedReg(rs1)
	if err != nil {
		return 0, err
	}
	u := uint32(imm>>1) & 0xff

	imm8 := (u >> 7) & 0b1
	imm76 := (u >> 5) & 0b11
	imm5 := (u >> 4) & 0b1
	imm43 := (u >> 2) & 0b11
	imm21 := u & 0b11

	code := opcode
	code |= imm5 << 2
	code |= imm21 << 3
	code |= imm76 << 5
	code |= uint32(rs1) << 7
	code |= imm43 << 10
	code |= imm8 << 12
	code |= funct3 << 13
	return code, nil
}

// CBIType encodes the CB variant used by C.SRLI, C.SRAI, C.ANDI: a
// 6-bit shift/immediate amount, no MO2 structure.
func CBIType(rdRs1 Register, imm int64, opcode, funct2, funct3 uint32) (uint32, error) {
	rdRs1, err := CompressedReg(rdRs1)
	if err != nil {
		return 0, err
	}
	u := uint32(imm) & 0b111111
	imm5 := (u >> 5) & 0b1
	imm40 := u & 0b11111

	code := opcode
	code |= imm40 << 2
	code |= uint32(rdRs1) << 7
	code |= funct2 << 10
	code |= imm5 << 12
	code |= funct3 << 13
	return code, nil
}

// CJType encodes CJ-format compressed jumps (C.JAL, C.J): an 11-bit MO2
// signed immediate in [-2048, 2047].
func CJType(imm int64, opcode, funct3 uint32) (uint32, error) {
	if imm < -2048 || imm > 2047 {
		return 0, fmt.Errorf("value out of range: 11-bit MO2 immediate must be between -2048 and 2047: %d", imm)
	}
	if imm%2 != 0 {
		return 0, fmt.Errorf("value not a multiple of 2: %d", imm)
	}
	u := uint32(imm>>1) & 0x7ff

	imm11 := (u >> 10) & 0b1
	imm10 := (u >> 9) & 0b1
	imm98 := (u >> 7) & 0b11
	imm7 := (u >> 6) & 0b1
	imm6 := (u >> 5) & 0b1
	imm5 := (u >> 4) & 0b1
	imm4 := (u >> 3) & 0b1
	imm31 := u & 0b111

	code := opcode
	code |= imm5 << 2
	code |= imm31 << 3
	code |= imm7 << 6
	code |= imm6 << 7
	code |= imm10 << 8
	code |= imm98 << 9
	code |= imm4 << 11
	code |= imm11 << 12
	code |= funct3 << 13
	return code, nil
}
