package asm

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Option configures an Assemble call.
type Option func(*options) error

type options struct {
	includeDirs  []string
	compress     bool
	constants    map[string]int64
	constantsOut *map[string]int64
	labelsOut    *map[string]int64
}

// WithIncludeDirs sets the search path for `include` and
// `include_bytes` directives, tried in order before the including
// file's own directory.
func WithIncludeDirs(dirs ...string) Option {
	return func(o *options) error { o.includeDirs = dirs; return nil }
}

// WithCompress enables the RVC compressed-instruction substitution
// pass. Disabled by default: every instruction assembles to its base
// 4-byte encoding unless the caller opts in.
func WithCompress(compress bool) Option {
	return func(o *options) error { o.compress = compress; return nil }
}

// WithConstants seeds the environment with caller-supplied constants
// (e.g. board memory-map addresses) before any source-level `=`
// definition runs, so assembly source can reference them by name.
func WithConstants(constants map[string]int64) Option {
	return func(o *options) error {
		o.constants = constants
		return nil
	}
}

// WithConstantsOut has Assemble populate *out with the fully resolved
// constants environment (source-level `=` definitions plus whatever
// WithConstants seeded) once assembly succeeds, so a caller can
// introspect values it didn't itself supply.
func WithConstantsOut(out *map[string]int64) Option {
	return func(o *options) error { o.constantsOut = out; return nil }
}

// WithLabelsOut has Assemble populate *out with every label's final
// byte position once assembly succeeds.
func WithLabelsOut(out *map[string]int64) Option {
	return func(o *options) error { o.labelsOut = out; return nil }
}

// Assemble reads, lexes, parses, and resolves sourcePath (a filesystem
// path, or literal assembly text if no such file exists) into a flat
// binary image. Assembly is first-error-wins: on any lexical,
// syntactic, semantic, range, include, or user-triggered error,
// Assemble returns immediately with no partial output.
func Assemble(sourcePath string, opts ...Option) ([]byte, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	lines, err := ReadSource(sourcePath, o.includeDirs)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		tokens := Lex(line)
		if len(tokens.Tokens) == 0 {
			continue
		}
		item, err := ParseItem(tokens)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	pl := newPipeline(o.compress)
	for name, value := range o.constants {
		if err := pl.env.DefineConstant(name, value); err != nil {
			return nil, errors.Wrapf(err, "invalid constant %q", name)
		}
	}

	out, err := pl.run(items)
	if err != nil {
		return nil, err
	}
	if o.constantsOut != nil {
		*o.constantsOut = copyEnv(pl.env.Constants)
	}
	if o.labelsOut != nil {
		*o.labelsOut = copyEnv(pl.env.Labels)
	}
	return out, nil
}

// copyEnv returns an independent copy of m so a caller's WithConstantsOut
// / WithLabelsOut snapshot can't alias the pipeline's live environment.
func copyEnv(m map[string]int64) map[string]int64 {
	return lo.Assign(map[string]int64{}, m)
}
