package asm

import (
	"fmt"

	"github.com/nibiru-systems/rvasm/isa"
)

// Environment is the two-namespace symbol table the resolver pipeline
// threads through its passes: named constants and label positions.
// They are deliberately kept separate (spec.md's resolve_constants runs
// before resolve_labels, so a constant expression can never see a
// label) — Lookup only consults Constants, by design; labels are
// resolved through Labels directly by the passes that need them.
type Environment struct {
	Constants map[string]int64
	Labels    map[string]int64
}

// NewEnvironment returns an empty environment ready for resolve_constants.
func NewEnvironment() *Environment {
	return &Environment{
		Constants: map[string]int64{},
		Labels:    map[string]int64{},
	}
}

// Lookup resolves a bare identifier against constants only, per
// spec.md's "constants cannot reference labels" rule.
func (e *Environment) Lookup(name string) (int64, bool) {
	v, ok := e.Constants[name]
	return v, ok
}

// DefineConstant records a named constant, rejecting names that shadow
// a register (in any of its spellings) or are themselves numeric
// literals — both per spec.md §4.5 step 1.
func (e *Environment) DefineConstant(name string, value int64) error {
	if isa.IsRegisterName(name) {
		return fmt.Errorf("constant name shadows register name %q", name)
	}
	if isNumericLiteral(name) {
		return fmt.Errorf("constant name cannot be a numeric literal: %q", name)
	}
	e.Constants[name] = value
	return nil
}
