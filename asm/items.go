package asm

import "github.com/nibiru-systems/rvasm/isa"

// Item is one parsed unit of assembly source. Every resolver pass walks
// a []Item, replacing items it understands and passing the rest
// through untouched; by the final pass every item must be a Blob.
type Item interface {
	// Size reports this item's footprint in bytes at the given
	// position. A PseudoInstruction reports its worst case until
	// transform_pseudo_instructions expands it; an AlignItem reports the
	// padding needed at the position it is given.
	Size(position int64) int64
	Pos() Position
}

type baseItem struct{ LinePos Position }

func (b baseItem) Pos() Position { return b.LinePos }

// LabelItem binds a name to the position it occupies; consumed by
// resolve_labels.
type LabelItem struct {
	baseItem
	Name string
}

func (LabelItem) Size(int64) int64 { return 0 }

// ConstantItem binds a name to an evaluated Arithmetic expression;
// consumed by resolve_constants.
type ConstantItem struct {
	baseItem
	Name string
	Expr Expression
}

func (ConstantItem) Size(int64) int64 { return 0 }

// AlignItem pads the output up to the next multiple of Alignment bytes;
// consumed by resolve_aligns, replaced with a Blob of zero bytes.
type AlignItem struct {
	baseItem
	Alignment int64
}

func (a AlignItem) Size(position int64) int64 {
	padding := a.Alignment - (position % a.Alignment)
	if padding == a.Alignment {
		return 0
	}
	return padding
}

// Instruction is every base or compressed RV32IMAC instruction, unified
// across R/I/S/B/U/J/Fence/Atomic/compressed forms: the field set a
// given Def.Kind needs is documented on isa.Operands. Register tokens
// are carried as strings until resolve_register_aliases substitutes any
// that name a constant; Imm is an Expression until resolve_immediates
// evaluates it into ImmValue.
type Instruction struct {
	baseItem
	Mnemonic               string
	RdTok, Rs1Tok, Rs2Tok  string
	Rd, Rs1, Rs2           isa.Register
	Imm                    Expression
	ImmValue               int64
	Succ, Pred, Fm         uint32
	Aq, Rl                 uint32
	AuipcPaired            bool // true on the jalr half of a call/tail two-instruction expansion
	Blob                   []byte
}

func (i Instruction) Size(int64) int64 {
	if i.Blob != nil {
		return int64(len(i.Blob))
	}
	def, ok := isa.Instructions[i.Mnemonic]
	if !ok {
		return 4
	}
	return int64(def.Kind.Size())
}

// PseudoInstruction is a not-yet-expanded pseudo-instruction; consumed
// by transform_pseudo_instructions. Its worst-case size is 8 bytes for
// li/call/tail (which may expand to one real instruction later,
// shrinking the surrounding labels by 4) and 4 for everything else.
type PseudoInstruction struct {
	baseItem
	Mnemonic string
	Args     []string
}

func (p PseudoInstruction) Size(int64) int64 {
	switch p.Mnemonic {
	case "li", "call", "tail":
		return 8
	default:
		return 4
	}
}

// StringItem is a UTF-8 encoded string literal; consumed by resolve_strings.
type StringItem struct {
	baseItem
	Value string
	Blob  []byte
}

func (s StringItem) Size(int64) int64 {
	if s.Blob != nil {
		return int64(len(s.Blob))
	}
	return int64(len(s.Value))
}

// SequenceItem is a `bytes`/`shorts`/`ints`/`longs`/`longlongs` list;
// consumed by resolve_sequences.
type SequenceItem struct {
	baseItem
	Kind   string // "bytes", "shorts", "ints", "longs", "longlongs"
	Values []Expression
	Blob   []byte
}

func sequenceElemSize(kind string) int64 {
	switch kind {
	case "bytes":
		return 1
	case "shorts":
		return 2
	case "ints":
		return 4
	case "longs", "longlongs":
		return 8
	default:
		return 1
	}
}

func (s SequenceItem) Size(int64) int64 {
	if s.Blob != nil {
		return int64(len(s.Blob))
	}
	return sequenceElemSize(s.Kind) * int64(len(s.Values))
}

// PackItem is an explicit struct-style pack (`pack <I 42`); consumed by
// resolve_packs.
type PackItem struct {
	baseItem
	Format   string
	Imm      Expression
	ImmValue int64
	Blob     []byte
}

func (p PackItem) Size(int64) int64 {
	if p.Blob != nil {
		return int64(len(p.Blob))
	}
	return int64(packFormatSize(p.Format))
}

// ShorthandPackItem is a `db`/`dh`/`dw`/`dd` scalar; rewritten to a
// PackItem by transform_shorthand_packs.
type ShorthandPackItem struct {
	baseItem
	Name string
	Imm  Expression
}

func (s ShorthandPackItem) Size(int64) int64 {
	switch s.Name {
	case "db":
		return 1
	case "dh":
		return 2
	case "dw":
		return 4
	case "dd":
		return 8
	default:
		return 1
	}
}

// IncludeBytesItem splices in the raw bytes of an external file,
// verified against the size recorded at parse time; consumed by
// resolve_include_bytes.
type IncludeBytesItem struct {
	baseItem
	Path     string
	FileSize int64
	Blob     []byte
}

func (i IncludeBytesItem) Size(int64) int64 {
	if i.Blob != nil {
		return int64(len(i.Blob))
	}
	return i.FileSize
}

// Blob is raw, already-encoded output bytes; the terminal item kind
// every pass converges to before resolve_blobs concatenates them.
type Blob struct {
	baseItem
	Data []byte
}

func (b Blob) Size(int64) int64 { return int64(len(b.Data)) }
