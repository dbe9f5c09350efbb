package isa

// CompressRule pairs a base instruction with the compressed form it may
// shrink to, and the predicate that decides a match. Rules for the same
// base mnemonic are tried in slice order; the first match wins, which
// is why e.g. C.ADDI16SP is listed ahead of C.ADDI (ADDI16SP's
// preconditions — operand is sp, immediate a multiple of 16 — are
// strictly tighter, and must be tried first or they'd never fire).
type CompressRule struct {
	From  string
	To    string
	Match func(ops Operands) bool
}

func isCommonReg(r Register) bool { return r >= 8 && r <= 15 }

func sixBitSigned(imm int64) bool { return imm >= -32 && imm <= 31 }

// CompressRules is the ordered predicate table driving
// transform_compressible.
var CompressRules = []CompressRule{
	{
		From: "addi", To: "c.addi4spn",
		Match: func(o Operands) bool {
			return o.Rs1 == 2 && isCommonReg(o.Rd) && o.Imm > 0 && o.Imm <= 1020 && o.Imm%4 == 0
		},
	},
	{
		From: "addi", To: "c.addi16sp",
		Match: func(o Operands) bool {
			return o.Rd == 2 && o.Rs1 == 2 && o.Imm != 0 && o.Imm >= -512 && o.Imm <= 511 && o.Imm%16 == 0
		},
	},
	{
		From: "addi", To: "c.li",
		Match: func(o Operands) bool {
			return o.Rd != 0 && o.Rs1 == 0 && sixBitSigned(o.Imm)
		},
	},
	{
		From: "addi", To: "c.addi",
		Match: func(o Operands) bool {
			return o.Rd != 0 && o.Rd == o.Rs1 && o.Imm != 0 && sixBitSigned(o.Imm)
		},
	},
	{
		From: "andi", To: "c.andi",
		Match: func(o Operands) bool {
			return o.Rd == o.Rs1 && isCommonReg(o.Rd) && sixBitSigned(o.Imm)
		},
	},
	{
		From: "slli", To: "c.slli",
		Match: func(o Operands) bool {
			return o.Rd != 0 && o.Rd == o.Rs1 && o.Imm >= 0 && o.Imm <= 31
		},
	},
	{
		From: "srli", To: "c.srli",
		Match: func(o Operands) bool {
			return o.Rd == o.Rs1 && isCommonReg(o.Rd) && o.Imm >= 0 && o.Imm <= 31
		},
	},
	{
		From: "srai", To: "c.srai",
		Match: func(o Operands) bool {
			return o.Rd == o.Rs1 && isCommonReg(o.Rd) && o.Imm >= 0 && o.Imm <= 31
		},
	},
	{
		From: "lui", To: "c.lui",
		Match: func(o Operands) bool {
			return o.Rd != 0 && o.Rd != 2 && o.Imm != 0 && sixBitSigned(o.Imm)
		},
	},
	{
		From: "add", To: "c.mv",
		Match: func(o Operands) bool {
			return o.Rd != 0 && o.Rs1 == 0 && o.Rs2 != 0
		},
	},
	{
		From: "add", To: "c.add",
		Match: func(o Operands) bool {
			return o.Rd != 0 && o.Rd == o.Rs1 && o.Rs2 != 0
		},
	},
	{
		From: "sub", To: "c.sub",
		Match: func(o Operands) bool {
			return o.Rd == o.Rs1 && isCommonReg(o.Rd) && isCommonReg(o.Rs2)
		},
	},
	{
		From: "xor", To: "c.xor",
		Match: func(o Operands) bool {
			return o.Rd == o.Rs1 && isCommonReg(o.Rd) && isCommonReg(o.Rs2)
		},
	},
	{
		From: "or", To: "c.or",
		Match: func(o Operands) bool {
			return o.Rd == o.Rs1 && isCommonReg(o.Rd) && isCommonReg(o.Rs2)
		},
	},
	{
		From: "and", To: "c.and",
		Match: func(o Operands) bool {
			return o.Rd == o.Rs1 && isCommonReg(o.Rd) && isCommonReg(o.Rs2)
		},
	},
	{
		From: "jalr", To: "c.jr",
		Match: func(o Operands) bool {
			return o.Rd == 0 && o.Rs1 != 0 && o.Imm == 0
		},
	},
	{
		From: "jalr", To: "c.jalr",
		Match: func(o Operands) bool {
			return o.Rd == 1 && o.Rs1 != 0 && o.Imm == 0
		},
	},
	{
		From: "jal", To: "c.j",
		Match: func(o Operands) bool {
			return o.Rd == 0 && o.Imm >= -2048 && o.Imm <= 2047
		},
	},
	{
		From: "jal", To: "c.jal",
		Match: func(o Operands) bool {
			return o.Rd == 1 && o.Imm >= -2048 && o.Imm <= 2047
		},
	},
	{
		From: "beq", To: "c.beqz",
		Match: func(o Operands) bool {
			return o.Rs2 == 0 && isCommonReg(o.Rs1) && o.Imm >= -256 && o.Imm <= 255
		},
	},
	{
		From: "bne", To: "c.bnez",
		Match: func(o Operands) bool {
			return o.Rs2 == 0 && isCommonReg(o.Rs1) && o.Imm >= -256 && o.Imm <= 255
		},
	},
	{
		From: "lw", To: "c.lwsp",
		Match: func(o Operands) bool {
			return o.Rd != 0 && o.Rs1 == 2 && o.Imm >= 0 && o.Imm <= 255 && o.Imm%4 == 0
		},
	},
	{
		From: "lw", To: "c.lw",
		Match: func(o Operands) bool {
			return isCommonReg(o.Rd) && isCommonReg(o.Rs1) && o.Imm >= 0 && o.Imm <= 127 && o.Imm%4 == 0
		},
	},
	{
		From: "sw", To: "c.swsp",
		Match: func(o Operands) bool {
			return o.Rs1 == 2 && o.Imm >= 0 && o.Imm <= 255 && o.Imm%4 == 0
		},
	},
	{
		From: "sw", To: "c.sw",
		Match: func(o Operands) bool {
			return isCommonReg(o.Rs1) && isCommonReg(o.Rs2) && o.Imm >= 0 && o.Imm <= 127 && o.Imm%4 == 0
		},
	},
}

// TransformCompressible tests a resolved base instruction (mnemonic
// plus its already-evaluated operands) against CompressRules in order
// and returns the compressed mnemonic it shrinks to, if any. The
// operands themselves are not rewritten: compressed encoders perform
// their own register-set narrowing and immediate rescaling.
func TransformCompressible(mnemonic string, ops Operands) (string, bool) {
	for _, rule := range CompressRules {
		if rule.From != mnemonic {
			continue
		}
		if rule.Match(ops) {
			return rule.To, true
		}
	}
	return "", false
}
