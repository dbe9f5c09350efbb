// Package asm assembles RV32IMAC assembly source into a flat,
// little-endian binary image suitable for loading directly onto a
// bare-metal target: no ELF, no linking, no relocations left in the
// output. It implements the pipeline split across this package's
// files: source reading and include expansion (source.go), lexing
// (lexer.go), parsing (parser.go), expression evaluation (expr.go),
// pseudo-instruction expansion (pseudo.go), and the resolver passes
// that turn a parsed item list into bytes (resolve.go). Instruction
// encoding itself lives in the isa package.
//
// # Source syntax
//
// One instruction, directive, label, or constant definition per line.
// Comments run from a '#' to end of line. Labels are defined with a
// trailing colon and referenced without it:
//
//	loop:
//	    addi a0, a0, -1
//	    bnez a0, loop
//
// Constants bind a name to an expression with '=':
//
//	STACK_TOP = 0x80010000
//	li sp, STACK_TOP
//
// # Expressions and relocations
//
// A bare immediate is evaluated by an explicit arithmetic grammar
// (|, ^, &, shifts, +/-, */%/, unary -/~, parentheses) over integer
// literals and previously defined constants — never a label, since
// a label's value depends on layout decisions constants must not
// see. Four relocation forms wrap an expression or label reference:
//
//	%position(label, expr)   label's address plus expr
//	%offset(label)           label's address minus the current position
//	%hi(expr)                upper 20 bits of expr, rounded for %lo's sign
//	%lo(expr)                lower 12 bits of expr, sign-extended
//
// %hi and %lo always satisfy (%hi(v)<<12) + %lo(v) == v for any
// 32-bit signed v, which is what makes the usual lui+addi /
// auipc+jalr pairing work.
//
// # Pseudo-instructions
//
// The full RISC-V pseudo-instruction catalogue (li, mv, not, neg,
// seqz, j, call, ret, and friends) is accepted and expanded during
// assembly. li, call, and tail normally need two real instructions
// to cover their full range, but assemble to a single instruction
// whenever the target is already known and small enough — a
// constant-only li, or a call/tail whose target offset fits a bare
// jal.
//
// # Data directives
//
//	string "hello\n"        raw UTF-8 bytes, no terminator
//	bytes 1 2 3              a sequence of 1-byte values
//	shorts 1 2 3              2-byte values
//	ints 1 2 3                4-byte values
//	longs 1 2 3               8-byte values
//	db 65 / dh 1 / dw 1 / dd 1   single-value shorthand for the above
//	pack <I 0xdeadbeef        an explicit struct-style pack format
//	align 4                   pad to the next multiple of 4 bytes
//	include other.s           splice in another file's lines
//	include_bytes blob.bin    splice in a file's raw bytes
//	error "message"           fail assembly unconditionally
//
// # Errors
//
// Assembly is first-error-wins: the first lexical, syntactic,
// semantic, range, include, or user-triggered error stops the whole
// run and no partial image is returned.
package asm
