package asm

import (
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/nibiru-systems/rvasm/isa"
)

// pipeline runs the twelve resolver passes over items in the order fixed
// by spec.md §4.5, threading a single Environment and the (shrinking)
// set of label positions through each. Every pass returns a new []Item;
// by the time resolveBlobs runs, every item must be a Blob.
type pipeline struct {
	env      *Environment
	compress bool
}

func newPipeline(compress bool) *pipeline {
	return &pipeline{env: NewEnvironment(), compress: compress}
}

func (p *pipeline) run(items []Item) ([]byte, error) {
	var err error

	items, err = p.resolveConstants(items)
	if err != nil {
		return nil, err
	}
	items, err = p.resolveLabels(items, false)
	if err != nil {
		return nil, err
	}
	items, err = p.resolveRegisterAliases(items)
	if err != nil {
		return nil, err
	}
	if p.compress {
		items, err = p.transformCompressible(items)
		if err != nil {
			return nil, err
		}
	}
	items, err = p.transformPseudoInstructions(items)
	if err != nil {
		return nil, err
	}
	// Pseudo-instruction expansion can introduce new register-alias
	// tokens and newly compressible real instructions (e.g. an expanded
	// `li` becomes an `addi` that itself may compress), so both passes
	// run a second time over the expanded stream.
	items, err = p.resolveRegisterAliases(items)
	if err != nil {
		return nil, err
	}
	if p.compress {
		items, err = p.transformCompressible(items)
		if err != nil {
			return nil, err
		}
	}
	items, err = p.resolveLabels(items, true)
	if err != nil {
		return nil, err
	}
	items, err = p.resolveAligns(items)
	if err != nil {
		return nil, err
	}
	items, err = p.resolveImmediates(items)
	if err != nil {
		return nil, err
	}
	items, err = p.resolveInstructions(items)
	if err != nil {
		return nil, err
	}
	items, err = p.resolveStrings(items)
	if err != nil {
		return nil, err
	}
	items, err = p.resolveSequences(items)
	if err != nil {
		return nil, err
	}
	items, err = p.transformShorthandPacks(items)
	if err != nil {
		return nil, err
	}
	items, err = p.resolvePacks(items)
	if err != nil {
		return nil, err
	}
	items, err = p.resolveIncludeBytes(items)
	if err != nil {
		return nil, err
	}
	return p.resolveBlobs(items)
}

// positions walks items in order, calling visit with each item's byte
// offset from the start of the image. resolve_labels and resolve_aligns
// share this single accumulator so they never disagree on layout.
func positions(items []Item, visit func(pos int64, it Item)) {
	var pos int64
	for _, it := range items {
		visit(pos, it)
		pos += it.Size(pos)
	}
}

func (p *pipeline) resolveConstants(items []Item) ([]Item, error) {
	out := items[:0:0]
	for _, it := range items {
		c, ok := it.(ConstantItem)
		if !ok {
			out = append(out, it)
			continue
		}
		v, err := c.Expr.Eval(0, p.env)
		if err != nil {
			return nil, NewError(c.Pos(), ErrorSemantic, "%s", err)
		}
		if err := p.env.DefineConstant(c.Name, v); err != nil {
			return nil, NewError(c.Pos(), ErrorSemantic, "%s", err)
		}
	}
	return out, nil
}

// resolveLabels binds every label to its current position. The first
// call keeps the LabelItems in the stream; the second (consume=true),
// run once pseudo-expansion and compression have settled every
// instruction's size, recomputes each label's final position and drops
// the LabelItems.
func (p *pipeline) resolveLabels(items []Item, consume bool) ([]Item, error) {
	out := items[:0:0]
	seen := map[string]bool{}
	var errOut error
	positions(items, func(pos int64, it Item) {
		if errOut != nil {
			return
		}
		if lbl, ok := it.(LabelItem); ok {
			if seen[lbl.Name] {
				errOut = NewError(lbl.Pos(), ErrorSemantic, "duplicate label: %q", lbl.Name)
				return
			}
			seen[lbl.Name] = true
			p.env.Labels[lbl.Name] = pos
			if consume {
				return
			}
		}
		out = append(out, it)
	})
	if errOut != nil {
		return nil, errOut
	}
	return out, nil
}

// resolveRegisterAliases substitutes any register-operand token that
// names a constant (rather than a literal register spelling) with the
// register number it was bound to, per spec.md §4.5 step 3. A token
// that already names a register, or names neither a register nor a
// constant, passes through untouched — the latter case is left for a
// later pass to report as an error against the concrete operand slot.
func (p *pipeline) resolveRegisterAliases(items []Item) ([]Item, error) {
	lookup := func(tok string) (string, error) {
		if tok == "" || isa.IsRegisterName(tok) {
			return tok, nil
		}
		v, ok := p.env.Lookup(tok)
		if !ok {
			return tok, nil
		}
		if _, err := isa.Reg(isa.Register(v)); err != nil {
			return tok, errors.Wrapf(err, "constant %q cannot alias a register", tok)
		}
		return strconv.FormatInt(v, 10), nil
	}

	out := make([]Item, len(items))
	for i, it := range items {
		inst, ok := it.(Instruction)
		if !ok {
			out[i] = it
			continue
		}
		var err error
		if inst.RdTok, err = lookup(inst.RdTok); err != nil {
			return nil, err
		}
		if inst.Rs1Tok, err = lookup(inst.Rs1Tok); err != nil {
			return nil, err
		}
		if inst.Rs2Tok, err = lookup(inst.Rs2Tok); err != nil {
			return nil, err
		}
		out[i] = inst
	}
	return out, nil
}

// transformCompressible rewrites a base instruction to its compressed
// form wherever isa.TransformCompressible finds a match. The rules see
// each instruction's registers and, where it can already be evaluated,
// its immediate (see instructionOperandsBestEffort). Label positions at
// this point are the ones the first resolve_labels call computed; the
// second call recomputes them after the last compress pass.
func (p *pipeline) transformCompressible(items []Item) ([]Item, error) {
	out := make([]Item, len(items))
	var pos int64
	for i, it := range items {
		inst, ok := it.(Instruction)
		if !ok {
			out[i] = it
			pos += it.Size(pos)
			continue
		}
		ops := instructionOperandsBestEffort(inst, pos, p.env)
		if newName, matched := isa.TransformCompressible(inst.Mnemonic, ops); matched {
			inst.Mnemonic = newName
		}
		out[i] = inst
		pos += it.Size(pos)
	}
	return out, nil
}

// instructionOperandsBestEffort builds an isa.Operands from an
// Instruction's register tokens and, where the immediate can already be
// evaluated, its value. Offset immediates are PC-relative, so they must
// be evaluated at this instruction's actual accumulated position (the
// same worst-case, pre-align-shrink position resolve_labels used), never
// at 0 -- otherwise a branch or jump target would evaluate to a label's
// absolute position instead of its relative displacement, corrupting
// every compression rule that inspects Imm. An immediate that cannot be
// evaluated yet is left at 0, and the rules are matched against that 0.
func instructionOperandsBestEffort(inst Instruction, pos int64, env *Environment) isa.Operands {
	var ops isa.Operands
	if r, ok := isa.LookupRegister(inst.RdTok); ok {
		ops.Rd = r
	}
	if r, ok := isa.LookupRegister(inst.Rs1Tok); ok {
		ops.Rs1 = r
	}
	if r, ok := isa.LookupRegister(inst.Rs2Tok); ok {
		ops.Rs2 = r
	}
	if inst.Imm != nil {
		if v, err := inst.Imm.Eval(pos, env); err == nil {
			ops.Imm = v
		}
	}
	return ops
}

func (p *pipeline) resolveAligns(items []Item) ([]Item, error) {
	out := make([]Item, 0, len(items))
	positions(items, func(pos int64, it Item) {
		a, ok := it.(AlignItem)
		if !ok {
			out = append(out, it)
			return
		}
		n := a.Size(pos)
		out = append(out, Blob{baseItem: baseItem{LinePos: a.Pos()}, Data: make([]byte, n)})
	})
	return out, nil
}

// resolveImmediates evaluates every Instruction immediate against the
// now-final environment and position; PackItem immediates are left to
// resolvePacks. The jalr half of a
// call/tail two-instruction expansion computes its displacement from
// the preceding auipc's PC, not its own, per spec.md's AUIPC-paired
// jump handling.
func (p *pipeline) resolveImmediates(items []Item) ([]Item, error) {
	out := make([]Item, len(items))
	var errOut error
	var pos int64
	for i, it := range items {
		if errOut != nil {
			break
		}
		switch v := it.(type) {
		case Instruction:
			if v.Imm == nil {
				out[i] = v
				break
			}
			evalPos := pos
			if v.AuipcPaired {
				evalPos = pos - 4
			}
			val, err := v.Imm.Eval(evalPos, p.env)
			if err != nil {
				errOut = NewError(v.Pos(), ErrorSemantic, "%s", err)
				break
			}
			v.ImmValue = val
			out[i] = v
		default:
			out[i] = it
		}
		pos += it.Size(pos)
	}
	if errOut != nil {
		return nil, errOut
	}
	return out, nil
}

func (p *pipeline) resolveInstructions(items []Item) ([]Item, error) {
	out := make([]Item, len(items))
	for i, it := range items {
		inst, ok := it.(Instruction)
		if !ok {
			out[i] = it
			continue
		}
		def, ok := isa.Instructions[inst.Mnemonic]
		if !ok {
			return nil, NewError(inst.Pos(), ErrorSemantic, "unknown instruction: %q", inst.Mnemonic)
		}
		ops, err := instructionOperands(inst)
		if err != nil {
			return nil, NewError(inst.Pos(), ErrorSemantic, "%s", err)
		}
		word, err := def.Encode(ops)
		if err != nil {
			return nil, NewError(inst.Pos(), ErrorRange, "%s", err)
		}
		buf := make([]byte, def.Kind.Size())
		if len(buf) == 2 {
			buf[0] = byte(word)
			buf[1] = byte(word >> 8)
		} else {
			buf[0] = byte(word)
			buf[1] = byte(word >> 8)
			buf[2] = byte(word >> 16)
			buf[3] = byte(word >> 24)
		}
		out[i] = Blob{baseItem: baseItem{LinePos: inst.Pos()}, Data: buf}
	}
	return out, nil
}

func instructionOperands(inst Instruction) (isa.Operands, error) {
	var ops isa.Operands
	var err error
	if inst.RdTok != "" {
		if ops.Rd, err = regOf(inst.RdTok); err != nil {
			return ops, err
		}
	}
	if inst.Rs1Tok != "" {
		if ops.Rs1, err = regOf(inst.Rs1Tok); err != nil {
			return ops, err
		}
	}
	if inst.Rs2Tok != "" {
		if ops.Rs2, err = regOf(inst.Rs2Tok); err != nil {
			return ops, err
		}
	}
	ops.Imm = inst.ImmValue
	ops.Succ, ops.Pred, ops.Fm = inst.Succ, inst.Pred, inst.Fm
	ops.Aq, ops.Rl = inst.Aq, inst.Rl
	return ops, nil
}

func regOf(tok string) (isa.Register, error) {
	r, ok := isa.LookupRegister(tok)
	if !ok {
		return 0, errors.Errorf("unknown register: %q", tok)
	}
	return r, nil
}

func (p *pipeline) resolveStrings(items []Item) ([]Item, error) {
	out := make([]Item, len(items))
	for i, it := range items {
		s, ok := it.(StringItem)
		if !ok {
			out[i] = it
			continue
		}
		out[i] = Blob{baseItem: baseItem{LinePos: s.Pos()}, Data: []byte(s.Value)}
	}
	return out, nil
}

func (p *pipeline) resolveSequences(items []Item) ([]Item, error) {
	out := make([]Item, len(items))
	for i, it := range items {
		seq, ok := it.(SequenceItem)
		if !ok {
			out[i] = it
			continue
		}
		var data []byte
		for _, expr := range seq.Values {
			v, err := expr.Eval(0, p.env)
			if err != nil {
				return nil, NewError(seq.Pos(), ErrorSemantic, "%s", err)
			}
			b, err := encodePack(sequenceFormat(seq.Kind, v), v)
			if err != nil {
				return nil, NewError(seq.Pos(), ErrorSemantic, "%s", err)
			}
			data = append(data, b...)
		}
		out[i] = Blob{baseItem: baseItem{LinePos: seq.Pos()}, Data: data}
	}
	return out, nil
}

func (p *pipeline) transformShorthandPacks(items []Item) ([]Item, error) {
	out := make([]Item, len(items))
	for i, it := range items {
		s, ok := it.(ShorthandPackItem)
		if !ok {
			out[i] = it
			continue
		}
		format, ok := isa.ShorthandPackNames[s.Name]
		if !ok {
			return nil, NewError(s.Pos(), ErrorSemantic, "unknown shorthand pack: %q", s.Name)
		}
		out[i] = PackItem{baseItem: baseItem{LinePos: s.Pos()}, Format: format, Imm: s.Imm}
	}
	return out, nil
}

// resolvePacks turns a PackItem into its packed Blob. It evaluates Imm
// itself: resolve_immediates does not touch PackItems, and
// transform_shorthand_packs introduces fresh PackItems after that pass
// has already run.
func (p *pipeline) resolvePacks(items []Item) ([]Item, error) {
	out := make([]Item, len(items))
	var errOut error
	var pos int64
	for i, it := range items {
		pk, ok := it.(PackItem)
		if !ok {
			out[i] = it
			pos += it.Size(pos)
			continue
		}
		if errOut != nil {
			continue
		}
		val, err := pk.Imm.Eval(pos, p.env)
		if err != nil {
			errOut = NewError(pk.Pos(), ErrorSemantic, "%s", err)
			continue
		}
		data, err := encodePack(pk.Format, val)
		if err != nil {
			errOut = NewError(pk.Pos(), ErrorSemantic, "%s", err)
			continue
		}
		out[i] = Blob{baseItem: baseItem{LinePos: pk.Pos()}, Data: data}
		pos += int64(len(data))
	}
	if errOut != nil {
		return nil, errOut
	}
	return out, nil
}

func (p *pipeline) resolveIncludeBytes(items []Item) ([]Item, error) {
	out := make([]Item, len(items))
	for i, it := range items {
		ib, ok := it.(IncludeBytesItem)
		if !ok {
			out[i] = it
			continue
		}
		// Path was already resolved against includeDirs when ReadSource
		// stamped this directive's line with it.
		data, err := os.ReadFile(ib.Path) // #nosec G304 -- path resolved from user-provided assembly source
		if err != nil {
			return nil, NewError(ib.Pos(), ErrorInclude, "%s", err)
		}
		if int64(len(data)) != ib.FileSize {
			return nil, NewError(ib.Pos(), ErrorRange, "include_bytes size mismatch: declared %d, file is %d bytes", ib.FileSize, len(data))
		}
		out[i] = Blob{baseItem: baseItem{LinePos: ib.Pos()}, Data: data}
	}
	return out, nil
}

func (p *pipeline) resolveBlobs(items []Item) ([]byte, error) {
	var out []byte
	for _, it := range items {
		b, ok := it.(Blob)
		if !ok {
			return nil, NewError(it.Pos(), ErrorSemantic, "unresolved item reached final assembly: %T", it)
		}
		out = append(out, b.Data...)
	}
	return out, nil
}
