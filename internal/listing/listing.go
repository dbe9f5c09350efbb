// Package listing renders a human-readable report of an assembled
// image -- its size and every resolved label's address -- grounded on
// ngaro's internal/ngi.ErrWriter: one write call per line, the first
// I/O error latched instead of checked at every call site.
package listing

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ErrWriter wraps an io.Writer and keeps returning the first error it
// saw instead of surfacing every subsequent Write call's own error.
type ErrWriter struct {
	w   io.Writer
	Err error
}

func (w *ErrWriter) Write(p []byte) (n int, err error) {
	if w.Err != nil {
		return 0, w.Err
	}
	n, err = w.w.Write(p)
	if err != nil {
		w.Err = errors.Wrap(err, "write failed")
	}
	return n, w.Err
}

// NewErrWriter returns a new ErrWriter wrapping w.
func NewErrWriter(w io.Writer) *ErrWriter {
	return &ErrWriter{w: w}
}

// Write renders img's size followed by every entry in labels, sorted
// by address, as "%08x  name" lines.
func Write(w io.Writer, img []byte, labels map[string]int64) error {
	ew := NewErrWriter(w)
	fmt.Fprintf(ew, "; %d bytes\n", len(img))

	names := lo.Keys(labels)
	sort.Slice(names, func(i, j int) bool { return labels[names[i]] < labels[names[j]] })
	for _, name := range names {
		fmt.Fprintf(ew, "%08x  %s\n", labels[name], name)
	}
	return ew.Err
}
