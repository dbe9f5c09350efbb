package asm

// transformPseudoInstructions expands every PseudoInstruction into its
// real-instruction form, per spec.md §4.5 step 5's mnemonic table
// (ported from bronzebeard's transform_pseudo_instructions). Unlike
// the original, li/call/tail attempt a single-instruction encoding
// first, shrinking the pseudo-instruction from its worst-case 8 bytes
// to 4: li becomes a lone addi when its value is a pure constant
// expression that fits the 12-bit immediate window, and call/tail
// become a lone jal when the target's offset (label targets included)
// fits jal's 21-bit reach.
func (p *pipeline) transformPseudoInstructions(items []Item) ([]Item, error) {
	out := make([]Item, 0, len(items))
	var pos int64
	var errOut error
	for _, it := range items {
		if errOut != nil {
			break
		}
		pi, ok := it.(PseudoInstruction)
		if !ok {
			out = append(out, it)
			pos += it.Size(pos)
			continue
		}
		expanded, err := expandPseudo(pi, pos, p.env)
		if err != nil {
			errOut = err
			continue
		}
		out = append(out, expanded...)
		pos += it.Size(pos)
	}
	if errOut != nil {
		return nil, errOut
	}
	return out, nil
}

func imm(text string) Expression { return Arithmetic{Text: text} }

func fitsSigned12(v int64) bool { return v >= -2048 && v <= 2047 }

func expandPseudo(pi PseudoInstruction, pos int64, env *Environment) ([]Item, error) {
	base := pi.baseItem
	linePos := pi.Pos()
	inst := func(mnemonic string) Instruction {
		return Instruction{baseItem: base, Mnemonic: mnemonic}
	}

	switch pi.Mnemonic {
	case "nop":
		i := inst("addi")
		i.RdTok, i.Rs1Tok, i.Imm = "x0", "x0", imm("0")
		return []Item{i}, nil

	case "li":
		if len(pi.Args) < 2 {
			return nil, NewError(linePos, ErrorSyntactic, "li requires a destination register and a value")
		}
		rd := pi.Args[0]
		expr, err := ParseImmediate(pi.Args[1:])
		if err != nil {
			return nil, NewError(linePos, ErrorSyntactic, "%s", err)
		}
		if v, err := expr.Eval(pos, env); err == nil && fitsSigned12(v) {
			single := inst("addi")
			single.RdTok, single.Rs1Tok, single.Imm = rd, "x0", expr
			return []Item{single}, nil
		}
		lui := inst("lui")
		lui.RdTok, lui.Imm = rd, Hi{Expr: expr}
		addi := inst("addi")
		addi.RdTok, addi.Rs1Tok, addi.Imm = rd, rd, Lo{Expr: expr}
		return []Item{lui, addi}, nil

	case "mv":
		if len(pi.Args) != 2 {
			return nil, NewError(linePos, ErrorSyntactic, "mv requires rd and rs")
		}
		i := inst("addi")
		i.RdTok, i.Rs1Tok, i.Imm = pi.Args[0], pi.Args[1], imm("0")
		return []Item{i}, nil

	case "not":
		if len(pi.Args) != 2 {
			return nil, NewError(linePos, ErrorSyntactic, "not requires rd and rs")
		}
		i := inst("xori")
		i.RdTok, i.Rs1Tok, i.Imm = pi.Args[0], pi.Args[1], imm("-1")
		return []Item{i}, nil

	case "neg":
		if len(pi.Args) != 2 {
			return nil, NewError(linePos, ErrorSyntactic, "neg requires rd and rs")
		}
		i := inst("sub")
		i.RdTok, i.Rs1Tok, i.Rs2Tok = pi.Args[0], "x0", pi.Args[1]
		return []Item{i}, nil

	case "seqz":
		if len(pi.Args) != 2 {
			return nil, NewError(linePos, ErrorSyntactic, "seqz requires rd and rs")
		}
		i := inst("sltiu")
		i.RdTok, i.Rs1Tok, i.Imm = pi.Args[0], pi.Args[1], imm("1")
		return []Item{i}, nil

	case "snez":
		if len(pi.Args) != 2 {
			return nil, NewError(linePos, ErrorSyntactic, "snez requires rd and rs")
		}
		i := inst("sltu")
		i.RdTok, i.Rs1Tok, i.Rs2Tok = pi.Args[0], "x0", pi.Args[1]
		return []Item{i}, nil

	case "sltz":
		if len(pi.Args) != 2 {
			return nil, NewError(linePos, ErrorSyntactic, "sltz requires rd and rs")
		}
		i := inst("slt")
		i.RdTok, i.Rs1Tok, i.Rs2Tok = pi.Args[0], pi.Args[1], "x0"
		return []Item{i}, nil

	case "sgtz":
		if len(pi.Args) != 2 {
			return nil, NewError(linePos, ErrorSyntactic, "sgtz requires rd and rs")
		}
		i := inst("slt")
		i.RdTok, i.Rs1Tok, i.Rs2Tok = pi.Args[0], "x0", pi.Args[1]
		return []Item{i}, nil

	case "beqz", "bnez", "blez", "bgez", "bltz", "bgtz":
		if len(pi.Args) != 2 {
			return nil, NewError(linePos, ErrorSyntactic, "%s requires a register and a target", pi.Mnemonic)
		}
		rs, ref := pi.Args[0], pi.Args[1]
		expr, err := referenceImmediate(ref)
		if err != nil {
			return nil, NewError(linePos, ErrorSyntactic, "%s", err)
		}
		var name, rs1, rs2 string
		switch pi.Mnemonic {
		case "beqz":
			name, rs1, rs2 = "beq", rs, "x0"
		case "bnez":
			name, rs1, rs2 = "bne", rs, "x0"
		case "blez":
			name, rs1, rs2 = "bge", "x0", rs
		case "bgez":
			name, rs1, rs2 = "bge", rs, "x0"
		case "bltz":
			name, rs1, rs2 = "blt", rs, "x0"
		case "bgtz":
			name, rs1, rs2 = "blt", "x0", rs
		}
		i := inst(name)
		i.Rs1Tok, i.Rs2Tok, i.Imm = rs1, rs2, expr
		return []Item{i}, nil

	case "bgt", "ble", "bgtu", "bleu":
		if len(pi.Args) != 3 {
			return nil, NewError(linePos, ErrorSyntactic, "%s requires two registers and a target", pi.Mnemonic)
		}
		rs, rt, ref := pi.Args[0], pi.Args[1], pi.Args[2]
		expr, err := referenceImmediate(ref)
		if err != nil {
			return nil, NewError(linePos, ErrorSyntactic, "%s", err)
		}
		var name string
		switch pi.Mnemonic {
		case "bgt":
			name = "blt"
		case "ble":
			name = "bge"
		case "bgtu":
			name = "bltu"
		case "bleu":
			name = "bgeu"
		}
		i := inst(name)
		i.Rs1Tok, i.Rs2Tok, i.Imm = rt, rs, expr
		return []Item{i}, nil

	case "j", "jal":
		if len(pi.Args) != 1 {
			return nil, NewError(linePos, ErrorSyntactic, "%s requires a target", pi.Mnemonic)
		}
		expr, err := referenceImmediate(pi.Args[0])
		if err != nil {
			return nil, NewError(linePos, ErrorSyntactic, "%s", err)
		}
		i := inst("jal")
		if pi.Mnemonic == "j" {
			i.RdTok = "x0"
		} else {
			i.RdTok = "x1"
		}
		i.Imm = expr
		return []Item{i}, nil

	case "jr", "jalr":
		if len(pi.Args) != 1 {
			return nil, NewError(linePos, ErrorSyntactic, "%s requires a register", pi.Mnemonic)
		}
		i := inst("jalr")
		if pi.Mnemonic == "jr" {
			i.RdTok = "x0"
		} else {
			i.RdTok = "x1"
		}
		i.Rs1Tok, i.Imm = pi.Args[0], imm("0")
		return []Item{i}, nil

	case "ret":
		i := inst("jalr")
		i.RdTok, i.Rs1Tok, i.Imm = "x0", "x1", imm("0")
		return []Item{i}, nil

	case "call", "tail":
		if len(pi.Args) != 1 {
			return nil, NewError(linePos, ErrorSyntactic, "%s requires a target", pi.Mnemonic)
		}
		expr, err := referenceImmediate(pi.Args[0])
		if err != nil {
			return nil, NewError(linePos, ErrorSyntactic, "%s", err)
		}
		link, jumpRd := "x1", "x1"
		if pi.Mnemonic == "tail" {
			link, jumpRd = "x6", "x0"
		}
		// Labels are already positioned by resolve_labels by the time
		// pseudo-instructions expand, so a target that fits jal's own
		// 21-bit PC-relative reach needs no auipc at all: a single jal
		// does the whole jump. The eligibility check evaluates expr at
		// this instruction's actual (worst-case, pre-align-shrink)
		// position -- never at 0 -- since a PC-relative Offset's value
		// depends on where the jump itself sits. The expression is kept
		// lazy (not baked into a constant) so resolve_immediates
		// re-evaluates it later against the final, post-align position.
		if v, err := expr.Eval(pos, env); err == nil && v%2 == 0 && v >= -(1<<20) && v < (1<<20) {
			single := inst("jal")
			single.RdTok, single.Imm = jumpRd, expr
			return []Item{single}, nil
		}
		auipc := inst("auipc")
		auipc.RdTok, auipc.Imm = link, Hi{Expr: expr}
		jalr := inst("jalr")
		jalr.RdTok, jalr.Rs1Tok, jalr.Imm = jumpRd, link, Lo{Expr: expr}
		jalr.AuipcPaired = true
		return []Item{auipc, jalr}, nil

	case "fence":
		i := inst("fence")
		i.Succ, i.Pred = 0b1111, 0b1111
		return []Item{i}, nil

	default:
		return nil, NewError(linePos, ErrorSemantic, "no translation for pseudo-instruction: %s", pi.Mnemonic)
	}
}
