// Package isa is the bit-exact RV32IMAC encoder library: pure functions
// that turn operands and format parameters into 16- or 32-bit machine
// words. Nothing in this package knows about source positions, lines,
// or files — callers attach that context when they wrap an error.
package isa

import (
	"fmt"
	"strconv"
)

// Register is an architectural RISC-V integer register, 0-31.
type Register uint8

// registerNames maps every accepted spelling (numeric, architectural,
// and ABI alias) to its register number.
var registerNames = map[string]Register{
	"x0": 0, "zero": 0,
	"x1": 1, "ra": 1,
	"x2": 2, "sp": 2,
	"x3": 3, "gp": 3,
	"x4": 4, "tp": 4,
	"x5": 5, "t0": 5,
	"x6": 6, "t1": 6,
	"x7": 7, "t2": 7,
	"x8": 8, "s0": 8, "fp": 8,
	"x9": 9, "s1": 9,
	"x10": 10, "a0": 10,
	"x11": 11, "a1": 11,
	"x12": 12, "a2": 12,
	"x13": 13, "a3": 13,
	"x14": 14, "a4": 14,
	"x15": 15, "a5": 15,
	"x16": 16, "a6": 16,
	"x17": 17, "a7": 17,
	"x18": 18, "s2": 18,
	"x19": 19, "s3": 19,
	"x20": 20, "s4": 20,
	"x21": 21, "s5": 21,
	"x22": 22, "s6": 22,
	"x23": 23, "s7": 23,
	"x24": 24, "s8": 24,
	"x25": 25, "s9": 25,
	"x26": 26, "s10": 26,
	"x27": 27, "s11": 27,
	"x28": 28, "t3": 28,
	"x29": 29, "t4": 29,
	"x30": 30, "t5": 30,
	"x31": 31, "t6": 31,
}

// LookupRegister resolves a register token — numeric literal ("5"),
// architectural name ("x5"), or ABI alias ("t0") — to its register
// number. It is the single namespace all three spellings share.
func LookupRegister(tok string) (Register, bool) {
	if r, ok := registerNames[tok]; ok {
		return r, true
	}
	if n, err := strconv.Atoi(tok); err == nil && n >= 0 && n <= 31 {
		return Register(n), true
	}
	return 0, false
}

// IsRegisterName reports whether tok names a register under any of its
// accepted spellings (numeric, architectural, or ABI alias). Constant
// names must not shadow this namespace.
func IsRegisterName(tok string) bool {
	_, ok := LookupRegister(tok)
	return ok
}

// Reg validates a register number and returns it, or an error if it is
// out of the 0-31 range.
func Reg(r Register) (Register, error) {
	if r > 31 {
		return 0, fmt.Errorf("invalid register: %d", r)
	}
	return r, nil
}

// CompressedReg validates and folds a register into the 3-bit field used
// by the "common" compressed-instruction register set (x8-x15), stored
// as value-8.
func CompressedReg(r Register) (Register, error) {
	if r < 8 || r > 15 {
		return 0, fmt.Errorf("compressed register must be between 8 and 15: %d", r)
	}
	return r - 8, nil
}
