package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nibiru-systems/rvasm/isa"
)

// pseudoMnemonics is the pseudo-instruction catalogue from spec.md
// §4.5 step 5. A mnemonic here is parsed into a PseudoInstruction and
// left for transform_pseudo_instructions to expand, even when the same
// spelling also names a real instruction (jalr, jal) — those names are
// ambiguous only at a reduced arity, handled case by case below.
var pseudoMnemonics = map[string]bool{
	"nop": true, "li": true, "mv": true, "not": true, "neg": true,
	"seqz": true, "snez": true, "sltz": true, "sgtz": true,
	"beqz": true, "bnez": true, "blez": true, "bgez": true, "bltz": true, "bgtz": true,
	"bgt": true, "ble": true, "bgtu": true, "bleu": true,
	"j": true, "jal": true, "jr": true, "jalr": true, "ret": true,
	"call": true, "tail": true,
	"fence": true,
}

var sequenceKinds = map[string]bool{
	"bytes": true, "shorts": true, "ints": true, "longs": true, "longlongs": true,
}

// ParseItem dispatches lexed tokens to their Item per spec.md §4.3.
func ParseItem(lt LineTokens) (Item, error) {
	line := lt.Line
	tokens := lt.Tokens
	pos := line.Pos()
	base := baseItem{LinePos: pos}

	if len(tokens) == 0 {
		return nil, NewError(pos, ErrorSyntactic, "empty line reached the parser")
	}
	head := strings.ToLower(tokens[0])

	switch {
	case len(tokens) == 1 && strings.HasSuffix(tokens[0], ":"):
		return LabelItem{baseItem: base, Name: strings.TrimSuffix(tokens[0], ":")}, nil

	case len(tokens) >= 3 && tokens[1] == "=":
		expr, err := ParseImmediate(tokens[2:])
		if err != nil {
			return nil, NewError(pos, ErrorSyntactic, "%s", err)
		}
		return ConstantItem{baseItem: base, Name: tokens[0], Expr: expr}, nil

	case head == "error":
		if len(tokens) < 2 {
			return nil, NewError(pos, ErrorUser, "error directive with no message")
		}
		return nil, NewError(pos, ErrorUser, "%s", tokens[1])

	case head == "include_bytes":
		// ReadSource's expand() stamps the resolved path and on-disk size
		// onto the original "include_bytes <path>" line, so by the time
		// this reaches the parser it always carries four tokens.
		if len(tokens) != 4 {
			return nil, NewError(pos, ErrorSyntactic, "include_bytes requires a path")
		}
		size, err := strconv.ParseInt(tokens[3], 0, 64)
		if err != nil {
			return nil, NewError(pos, ErrorSyntactic, "include_bytes size must be an integer")
		}
		return IncludeBytesItem{baseItem: base, Path: tokens[2], FileSize: size}, nil

	case head == "string":
		if len(tokens) != 2 {
			return nil, NewError(pos, ErrorSyntactic, "string directive requires exactly one value")
		}
		return StringItem{baseItem: base, Value: tokens[1]}, nil

	case head == "align":
		if len(tokens) != 2 {
			return nil, NewError(pos, ErrorSyntactic, "align requires exactly one value")
		}
		n, err := strconv.ParseInt(tokens[1], 0, 64)
		if err != nil {
			return nil, NewError(pos, ErrorSyntactic, "alignment must be an integer")
		}
		return AlignItem{baseItem: base, Alignment: n}, nil

	case head == "pack":
		if len(tokens) < 3 {
			return nil, NewError(pos, ErrorSyntactic, "pack requires a format and an expression")
		}
		expr, err := ParseImmediate(tokens[2:])
		if err != nil {
			return nil, NewError(pos, ErrorSyntactic, "%s", err)
		}
		return PackItem{baseItem: base, Format: tokens[1], Imm: expr}, nil

	case isa.ShorthandPackNames[head] != "":
		expr, err := ParseImmediate(tokens[1:])
		if err != nil {
			return nil, NewError(pos, ErrorSyntactic, "%s", err)
		}
		return ShorthandPackItem{baseItem: base, Name: head, Imm: expr}, nil

	case sequenceKinds[head]:
		values := make([]Expression, 0, len(tokens)-1)
		for _, tok := range tokens[1:] {
			expr, err := ParseImmediate([]string{tok})
			if err != nil {
				return nil, NewError(pos, ErrorSyntactic, "%s", err)
			}
			values = append(values, expr)
		}
		return SequenceItem{baseItem: base, Kind: head, Values: values}, nil
	}

	if def, ok := isa.Instructions[head]; ok {
		return parseInstruction(base, pos, head, def, tokens)
	}
	if pseudoMnemonics[head] {
		return PseudoInstruction{baseItem: base, Mnemonic: head, Args: tokens[1:]}, nil
	}
	return nil, NewError(pos, ErrorSyntactic, "invalid syntax")
}

func isIntLiteral(s string) bool {
	_, err := strconv.ParseInt(s, 0, 64)
	return err == nil
}

// referenceImmediate wraps a branch/jump target: bare numeric literals
// pass through as Arithmetic, everything else (a label) is wrapped in
// Offset for PC-relative semantics, per spec.md §4.3.
func referenceImmediate(tok string) (Expression, error) {
	if isIntLiteral(tok) {
		return ParseImmediate([]string{tok})
	}
	return Offset{Reference: tok}, nil
}

func parseInstruction(base baseItem, pos Position, name string, def isa.Def, tokens []string) (Item, error) {
	inst := Instruction{baseItem: base, Mnemonic: name}

	switch def.Kind {
	case isa.FormR, isa.FormCA:
		if len(tokens) != 4 {
			return nil, NewError(pos, ErrorSyntactic, "%s requires exactly 3 operands", name)
		}
		inst.RdTok, inst.Rs1Tok, inst.Rs2Tok = tokens[1], tokens[2], tokens[3]
		return inst, nil

	case isa.FormI, isa.FormIJ:
		if len(tokens) == 2 {
			// e.g. bare "jalr ra" -- the pseudo-instruction spelling
			return PseudoInstruction{baseItem: base, Mnemonic: name, Args: tokens[1:]}, nil
		}
		if isa.BaseOffsetInstructions[name] && len(tokens) >= 4 && tokens[3] == "(" {
			// rd, offset(rs1)
			if len(tokens) != 6 || tokens[5] != ")" {
				return nil, NewError(pos, ErrorSyntactic, "invalid base+offset syntax for %s", name)
			}
			inst.RdTok, inst.Rs1Tok = tokens[1], tokens[4]
			expr, err := ParseImmediate(tokens[2:3])
			if err != nil {
				return nil, NewError(pos, ErrorSyntactic, "%s", err)
			}
			inst.Imm = expr
			return inst, nil
		}
		if len(tokens) < 4 {
			return nil, NewError(pos, ErrorSyntactic, "%s requires rd, rs1, and an immediate", name)
		}
		inst.RdTok, inst.Rs1Tok = tokens[1], tokens[2]
		expr, err := ParseImmediate(tokens[3:])
		if err != nil {
			return nil, NewError(pos, ErrorSyntactic, "%s", err)
		}
		inst.Imm = expr
		return inst, nil

	case isa.FormIE:
		if len(tokens) != 1 {
			return nil, NewError(pos, ErrorSyntactic, "%s takes no operands", name)
		}
		inst.Imm = Arithmetic{Text: "0"}
		if name == "ebreak" {
			inst.Imm = Arithmetic{Text: "1"}
		}
		return inst, nil

	case isa.FormS, isa.FormCS:
		if len(tokens) >= 4 && tokens[3] == "(" {
			if len(tokens) != 6 || tokens[5] != ")" {
				return nil, NewError(pos, ErrorSyntactic, "invalid base+offset syntax for %s", name)
			}
			inst.Rs2Tok, inst.Rs1Tok = tokens[1], tokens[4]
			expr, err := ParseImmediate(tokens[2:3])
			if err != nil {
				return nil, NewError(pos, ErrorSyntactic, "%s", err)
			}
			inst.Imm = expr
			return inst, nil
		}
		if len(tokens) < 4 {
			return nil, NewError(pos, ErrorSyntactic, "%s requires rs1, rs2, and an immediate", name)
		}
		inst.Rs1Tok, inst.Rs2Tok = tokens[1], tokens[2]
		expr, err := ParseImmediate(tokens[3:])
		if err != nil {
			return nil, NewError(pos, ErrorSyntactic, "%s", err)
		}
		inst.Imm = expr
		return inst, nil

	case isa.FormB, isa.FormCB:
		if len(tokens) != 4 {
			return nil, NewError(pos, ErrorSyntactic, "%s requires exactly 3 operands", name)
		}
		inst.Rs1Tok, inst.Rs2Tok = tokens[1], tokens[2]
		expr, err := referenceImmediate(tokens[3])
		if err != nil {
			return nil, NewError(pos, ErrorSyntactic, "%s", err)
		}
		inst.Imm = expr
		return inst, nil

	case isa.FormU:
		if len(tokens) < 3 {
			return nil, NewError(pos, ErrorSyntactic, "%s requires rd and an immediate", name)
		}
		inst.RdTok = tokens[1]
		expr, err := ParseImmediate(tokens[2:])
		if err != nil {
			return nil, NewError(pos, ErrorSyntactic, "%s", err)
		}
		inst.Imm = expr
		return inst, nil

	case isa.FormJ:
		if len(tokens) == 2 {
			return PseudoInstruction{baseItem: base, Mnemonic: name, Args: tokens[1:]}, nil
		}
		if len(tokens) != 3 {
			return nil, NewError(pos, ErrorSyntactic, "%s requires 1 or 2 operands", name)
		}
		inst.RdTok = tokens[1]
		expr, err := referenceImmediate(tokens[2])
		if err != nil {
			return nil, NewError(pos, ErrorSyntactic, "%s", err)
		}
		inst.Imm = expr
		return inst, nil

	case isa.FormFence:
		if len(tokens) == 1 {
			return PseudoInstruction{baseItem: base, Mnemonic: name, Args: nil}, nil
		}
		if len(tokens) != 3 {
			return nil, NewError(pos, ErrorSyntactic, "fence requires 0 or 2 operands")
		}
		succ, err := strconv.ParseUint(tokens[1], 0, 32)
		if err != nil {
			return nil, NewError(pos, ErrorSyntactic, "invalid successor value for fence")
		}
		pred, err := strconv.ParseUint(tokens[2], 0, 32)
		if err != nil {
			return nil, NewError(pos, ErrorSyntactic, "invalid predecessor value for fence")
		}
		inst.Succ, inst.Pred = uint32(succ), uint32(pred)
		return inst, nil

	case isa.FormA:
		if len(tokens) != 4 && len(tokens) != 6 {
			return nil, NewError(pos, ErrorSyntactic, "invalid syntax for atomic instruction")
		}
		inst.RdTok, inst.Rs1Tok, inst.Rs2Tok = tokens[1], tokens[2], tokens[3]
		if len(tokens) == 6 {
			aq, err1 := strconv.ParseUint(tokens[4], 0, 32)
			rl, err2 := strconv.ParseUint(tokens[5], 0, 32)
			if err1 != nil || err2 != nil {
				return nil, NewError(pos, ErrorSyntactic, "invalid syntax for atomic instruction")
			}
			inst.Aq, inst.Rl = uint32(aq), uint32(rl)
		}
		return inst, nil

	case isa.FormAL:
		if len(tokens) != 3 && len(tokens) != 5 {
			return nil, NewError(pos, ErrorSyntactic, "invalid syntax for atomic instruction")
		}
		inst.RdTok, inst.Rs1Tok = tokens[1], tokens[2]
		if len(tokens) == 5 {
			aq, err1 := strconv.ParseUint(tokens[3], 0, 32)
			rl, err2 := strconv.ParseUint(tokens[4], 0, 32)
			if err1 != nil || err2 != nil {
				return nil, NewError(pos, ErrorSyntactic, "invalid syntax for atomic instruction")
			}
			inst.Aq, inst.Rl = uint32(aq), uint32(rl)
		}
		return inst, nil

	default:
		return nil, fmt.Errorf("parser: unhandled instruction form for %q", name)
	}
}
