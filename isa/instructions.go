package isa

import "fmt"

// Kind identifies which encoder form a mnemonic dispatches to.
type Kind int

const (
	FormR Kind = iota
	FormI
	FormIJ // JALR: I-type plus an even-immediate constraint
	FormIE // ECALL/EBREAK: fixed-arity I-type
	FormS
	FormB
	FormU
	FormJ
	FormFence
	FormA
	FormAL // LR.W: A-type with an implicit rs2 = 0
	FormCR
	FormCI
	FormCNop // C.NOP: fixed-arity CI-type
	FormCIS
	FormCLS
	FormCSS
	FormCIW
	FormCL
	FormCS
	FormCA
	FormCB
	FormCBI
	FormCJ
)

// Size reports the encoded width in bytes for instructions dispatching
// through this form: 2 for every compressed form, 4 otherwise.
func (k Kind) Size() int {
	if k >= FormCR {
		return 2
	}
	return 4
}

// Def binds a mnemonic to its encoder form and the opcode/funct
// constants the form needs, mirroring bronzebeard's table of partial
// functions pre-bound with those same constants.
type Def struct {
	Kind                                   Kind
	Opcode                                 uint32
	Funct2, Funct3, Funct4, Funct5, Funct6, Funct7 uint32
}

// Operands is the full operand surface across every instruction form;
// a given Def.Kind reads only the fields its form needs.
type Operands struct {
	Rd, Rs1, Rs2   Register
	Imm            int64
	Succ, Pred, Fm uint32
	Aq, Rl         uint32
}

// Encode dispatches ops through d's form and constants to produce a raw
// machine word (not yet packed to bytes).
func (d Def) Encode(ops Operands) (uint32, error) {
	switch d.Kind {
	case FormR:
		return RType(ops.Rd, ops.Rs1, ops.Rs2, d.Opcode, d.Funct3, d.Funct7)
	case FormI:
		return IType(ops.Rd, ops.Rs1, ops.Imm, d.Opcode, d.Funct3)
	case FormIJ:
		return IJType(ops.Rd, ops.Rs1, ops.Imm, d.Opcode, d.Funct3)
	case FormIE:
		return IType(0, 0, ops.Imm, d.Opcode, d.Funct3)
	case FormS:
		return SType(ops.Rs1, ops.Rs2, ops.Imm, d.Opcode, d.Funct3)
	case FormB:
		return BType(ops.Rs1, ops.Rs2, ops.Imm, d.Opcode, d.Funct3)
	case FormU:
		return UType(ops.Rd, ops.Imm, d.Opcode)
	case FormJ:
		return JType(ops.Rd, ops.Imm, d.Opcode)
	case FormFence:
		return Fence(ops.Succ, ops.Pred, ops.Fm, d.Opcode, d.Funct3)
	case FormA:
		return AType(ops.Rd, ops.Rs1, ops.Rs2, d.Opcode, d.Funct3, d.Funct5, ops.Aq, ops.Rl)
	case FormAL:
		return AType(ops.Rd, ops.Rs1, 0, d.Opcode, d.Funct3, d.Funct5, ops.Aq, ops.Rl)
	case FormCR:
		return CRType(ops.Rd, ops.Rs2, d.Opcode, d.Funct4)
	case FormCI:
		return CIType(ops.Rd, ops.Imm, d.Opcode, d.Funct3)
	case FormCNop:
		return CIType(0, 0, d.Opcode, d.Funct3)
	case FormCIS:
		return CISType(ops.Rd, ops.Imm, d.Opcode, d.Funct3)
	case FormCLS:
		return CLSType(ops.Rd, ops.Imm, d.Opcode, d.Funct3)
	case FormCSS:
		return CSSType(ops.Rs2, ops.Imm, d.Opcode, d.Funct3)
	case FormCIW:
		return CIWType(ops.Rd, ops.Imm, d.Opcode, d.Funct3)
	case FormCL:
		return CLType(ops.Rd, ops.Rs1, ops.Imm, d.Opcode, d.Funct3)
	case FormCS:
		return CSType(ops.Rs1, ops.Rs2, ops.Imm, d.Opcode, d.Funct3)
	case FormCA:
		return CAType(ops.Rd, ops.Rs2, d.Opcode, d.Funct2, d.Funct6)
	case FormCB:
		return CBType(ops.Rs1, ops.Imm, d.Opcode, d.Funct3)
	case FormCBI:
		return CBIType(ops.Rd, ops.Imm, d.Opcode, d.Funct2, d.Funct3)
	case FormCJ:
		return CJType(ops.Imm, d.Opcode, d.Funct3)
	default:
		return 0, fmt.Errorf("unhandled instruction form: %v", d.Kind)
	}
}

// Instructions is the mnemonic table for every RV32IMAC base and
// compressed instruction this assembler knows how to encode.
var Instructions = map[string]Def{
	// RV32I
	"lui":   {Kind: FormU, Opcode: 0b0110111},
	"auipc": {Kind: FormU, Opcode: 0b0010111},
	"jal":   {Kind: FormJ, Opcode: 0b1101111},
	"jalr":  {Kind: FormIJ, Opcode: 0b1100111, Funct3: 0b000},
	"beq":   {Kind: FormB, Opcode: 0b1100011, Funct3: 0b000},
	"bne":   {Kind: FormB, Opcode: 0b1100011, Funct3: 0b001},
	"blt":   {Kind: FormB, Opcode: 0b1100011, Funct3: 0b100},
	"bge":   {Kind: FormB, Opcode: 0b1100011, Funct3: 0b101},
	"bltu":  {Kind: FormB, Opcode: 0b1100011, Funct3: 0b110},
	"bgeu":  {Kind: FormB, Opcode: 0b1100011, Funct3: 0b111},
	"lb":    {Kind: FormI, Opcode: 0b0000011, Funct3: 0b000},
	"lh":    {Kind: FormI, Opcode: 0b0000011, Funct3: 0b001},
	"lw":    {Kind: FormI, Opcode: 0b0000011, Funct3: 0b010},
	"lbu":   {Kind: FormI, Opcode: 0b0000011, Funct3: 0b100},
	"lhu":   {Kind: FormI, Opcode: 0b0000011, Funct3: 0b101},
	"sb":    {Kind: FormS, Opcode: 0b0100011, Funct3: 0b000},
	"sh":    {Kind: FormS, Opcode: 0b0100011, Funct3: 0b001},
	"sw":    {Kind: FormS, Opcode: 0b0100011, Funct3: 0b010},
	"addi":  {Kind: FormI, Opcode: 0b0010011, Funct3: 0b000},
	"slti":  {Kind: FormI, Opcode: 0b0010011, Funct3: 0b010},
	"sltiu": {Kind: FormI, Opcode: 0b0010011, Funct3: 0b011},
	"xori":  {Kind: FormI, Opcode: 0b0010011, Funct3: 0b100},
	"ori":   {Kind: FormI, Opcode: 0b0010011, Funct3: 0b110},
	"andi":  {Kind: FormI, Opcode: 0b0010011, Funct3: 0b111},
	"slli":  {Kind: FormR, Opcode: 0b0010011, Funct3: 0b001, Funct7: 0b0000000},
	"srli":  {Kind: FormR, Opcode: 0b0010011, Funct3: 0b101, Funct7: 0b0000000},
	"srai":  {Kind: FormR, Opcode: 0b0010011, Funct3: 0b101, Funct7: 0b0100000},
	"add":   {Kind: FormR, Opcode: 0b0110011, Funct3: 0b000, Funct7: 0b0000000},
	"sub":   {Kind: FormR, Opcode: 0b0110011, Funct3: 0b000, Funct7: 0b0100000},
	"sll":   {Kind: FormR, Opcode: 0b0110011, Funct3: 0b001, Funct7: 0b0000000},
	"slt":   {Kind: FormR, Opcode: 0b0110011, Funct3: 0b010, Funct7: 0b0000000},
	"sltu":  {Kind: FormR, Opcode: 0b0110011, Funct3: 0b011, Funct7: 0b0000000},
	"xor":   {Kind: FormR, Opcode: 0b0110011, Funct3: 0b100, Funct7: 0b0000000},
	"srl":   {Kind: FormR, Opcode: 0b0110011, Funct3: 0b101, Funct7: 0b0000000},
	"sra":   {Kind: FormR, Opcode: 0b0110011, Funct3: 0b101, Funct7: 0b0100000},
	"or":    {Kind: FormR, Opcode: 0b0110011, Funct3: 0b110, Funct7: 0b0000000},
	"and":   {Kind: FormR, Opcode: 0b0110011, Funct3: 0b111, Funct7: 0b0000000},
	"fence": {Kind: FormFence, Opcode: 0b0001111, Funct3: 0b000},
	"ecall":  {Kind: FormIE, Opcode: 0b1110011, Funct3: 0b000},
	"ebreak": {Kind: FormIE, Opcode: 0b1110011, Funct3: 0b000},

	// RV32M
	"mul":    {Kind: FormR, Opcode: 0b0110011, Funct3: 0b000, Funct7: 0b0000001},
	"mulh":   {Kind: FormR, Opcode: 0b0110011, Funct3: 0b001, Funct7: 0b0000001},
	"mulhsu": {Kind: FormR, Opcode: 0b0110011, Funct3: 0b010, Funct7: 0b0000001},
	"mulhu":  {Kind: FormR, Opcode: 0b0110011, Funct3: 0b011, Funct7: 0b0000001},
	"div":    {Kind: FormR, Opcode: 0b0110011, Funct3: 0b100, Funct7: 0b0000001},
	"divu":   {Kind: FormR, Opcode: 0b0110011, Funct3: 0b101, Funct7: 0b0000001},
	"rem":    {Kind: FormR, Opcode: 0b0110011, Funct3: 0b110, Funct7: 0b0000001},
	"remu":   {Kind: FormR, Opcode: 0b0110011, Funct3: 0b111, Funct7: 0b0000001},

	// RV32A
	"lr.w":      {Kind: FormAL, Opcode: 0b0101111, Funct3: 0b010, Funct5: 0b00010},
	"sc.w":      {Kind: FormA, Opcode: 0b0101111, Funct3: 0b010, Funct5: 0b00011},
	"amoswap.w": {Kind: FormA, Opcode: 0b0101111, Funct3: 0b010, Funct5: 0b00001},
	"amoadd.w":  {Kind: FormA, Opcode: 0b0101111, Funct3: 0b010, Funct5: 0b00000},
	"amoxor.w":  {Kind: FormA, Opcode: 0b0101111, Funct3: 0b010, Funct5: 0b00100},
	"amoand.w":  {Kind: FormA, Opcode: 0b0101111, Funct3: 0b010, Funct5: 0b01100},
	"amoor.w":   {Kind: FormA, Opcode: 0b0101111, Funct3: 0b010, Funct5: 0b01000},
	"amomin.w":  {Kind: FormA, Opcode: 0b0101111, Funct3: 0b010, Funct5: 0b10000},
	"amomax.w":  {Kind: FormA, Opcode: 0b0101111, Funct3: 0b010, Funct5: 0b10100},
	"amominu.w": {Kind: FormA, Opcode: 0b0101111, Funct3: 0b010, Funct5: 0b11000},
	"amomaxu.w": {Kind: FormA, Opcode: 0b0101111, Funct3: 0b010, Funct5: 0b11100},

	// RV32C
	"c.addi4spn": {Kind: FormCIW, Opcode: 0b00, Funct3: 0b000},
	"c.lw":       {Kind: FormCL, Opcode: 0b00, Funct3: 0b010},
	"c.sw":       {Kind: FormCS, Opcode: 0b00, Funct3: 0b110},
	"c.nop":      {Kind: FormCNop, Opcode: 0b01, Funct3: 0b000},
	"c.addi":     {Kind: FormCI, Opcode: 0b01, Funct3: 0b000},
	"c.jal":      {Kind: FormCJ, Opcode: 0b01, Funct3: 0b001},
	"c.li":       {Kind: FormCI, Opcode: 0b01, Funct3: 0b010},
	"c.addi16sp": {Kind: FormCIS, Opcode: 0b01, Funct3: 0b011},
	"c.lui":      {Kind: FormCI, Opcode: 0b01, Funct3: 0b011},
	"c.srli":     {Kind: FormCBI, Opcode: 0b01, Funct2: 0b00, Funct3: 0b100},
	"c.srai":     {Kind: FormCBI, Opcode: 0b01, Funct2: 0b01, Funct3: 0b100},
	"c.andi":     {Kind: FormCBI, Opcode: 0b01, Funct2: 0b10, Funct3: 0b100},
	"c.sub":      {Kind: FormCA, Opcode: 0b01, Funct2: 0b00, Funct6: 0b100011},
	"c.xor":      {Kind: FormCA, Opcode: 0b01, Funct2: 0b01, Funct6: 0b100011},
	"c.or":       {Kind: FormCA, Opcode: 0b01, Funct2: 0b10, Funct6: 0b100011},
	"c.and":      {Kind: FormCA, Opcode: 0b01, Funct2: 0b11, Funct6: 0b100011},
	"c.j":        {Kind: FormCJ, Opcode: 0b01, Funct3: 0b101},
	"c.beqz":     {Kind: FormCB, Opcode: 0b01, Funct3: 0b110},
	"c.bnez":     {Kind: FormCB, Opcode: 0b01, Funct3: 0b111},
	"c.slli":     {Kind: FormCI, Opcode: 0b10, Funct3: 0b000},
	"c.lwsp":     {Kind: FormCLS, Opcode: 0b10, Funct3: 0b010},
	"c.jr":       {Kind: FormCR, Opcode: 0b10, Funct4: 0b1000},
	"c.mv":       {Kind: FormCR, Opcode: 0b10, Funct4: 0b1000},
	"c.jalr":     {Kind: FormCR, Opcode: 0b10, Funct4: 0b1001},
	"c.add":      {Kind: FormCR, Opcode: 0b10, Funct4: 0b1001},
	"c.swsp":     {Kind: FormCSS, Opcode: 0b10, Funct3: 0b110},
}

// BaseOffsetInstructions take an alternate `op rd, imm(rs1)` memory
// operand spelling in addition to `op rd, rs1, imm`.
var BaseOffsetInstructions = map[string]bool{
	"jalr": true,
	"lb":   true,
	"lh":   true,
	"lw":   true,
	"lbu":  true,
	"lhu":  true,
	"sb":   true,
	"sh":   true,
	"sw":   true,
}

// ShorthandPackNames are the scalar shorthand-pack directive mnemonics;
// each implies a pack format (db -> <b, dh -> <h, dw -> <i, dd -> <q).
var ShorthandPackNames = map[string]string{
	"db": "<b",
	"dh": "<h",
	"dw": "<i",
	"dd": "<q",
}
