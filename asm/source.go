package asm

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// reader expands `include` and stamps `include_bytes` sizes while
// reading source into a flat line list. It tracks an include stack so
// a file can never (directly or transitively) include itself.
type reader struct {
	includeDirs []string
	stack       map[string]bool
}

// ReadSource reads pathOrSource (a filesystem path, or literal assembly
// text when no such path exists) and returns its fully include-expanded
// line list. includeDirs is searched, in order, before falling back to
// the directory of the file doing the including.
func ReadSource(pathOrSource string, includeDirs []string) ([]Line, error) {
	r := &reader{includeDirs: includeDirs, stack: map[string]bool{}}

	if _, err := os.Stat(pathOrSource); err == nil {
		return r.readFile(pathOrSource)
	}
	return r.expand(splitLines("<string>", pathOrSource))
}

func splitLines(file, source string) []Line {
	var lines []Line
	for i, text := range strings.Split(source, "\n") {
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, Line{File: file, Number: i + 1, Contents: text})
	}
	return lines
}

func (r *reader) readFile(path string) ([]Line, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving path %q", path)
	}
	if r.stack[abs] {
		return nil, fmt.Errorf("circular include detected: %s", path)
	}
	r.stack[abs] = true
	defer delete(r.stack, abs)

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided assembly source path
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", path)
	}
	return r.expand(splitLines(path, string(data)))
}

// expand walks lines, splicing in the contents of any `include` target
// and stamping the on-disk size onto any `include_bytes` directive.
func (r *reader) expand(lines []Line) ([]Line, error) {
	var out []Line
	for _, ln := range lines {
		fields := strings.Fields(ln.Contents)
		if len(fields) == 0 {
			continue
		}
		switch strings.ToLower(fields[0]) {
		case "include":
			if len(fields) != 2 {
				return nil, &AssemblerError{Pos: ln.Pos(), Kind: ErrorInclude, Message: "include requires exactly one path argument"}
			}
			path, err := r.resolveInclude(fields[1], ln.File)
			if err != nil {
				return nil, &AssemblerError{Pos: ln.Pos(), Kind: ErrorInclude, Message: err.Error()}
			}
			included, err := r.readFile(path)
			if err != nil {
				return nil, err
			}
			out = append(out, included...)
		case "include_bytes":
			if len(fields) != 2 {
				return nil, &AssemblerError{Pos: ln.Pos(), Kind: ErrorInclude, Message: "include_bytes requires exactly one path argument"}
			}
			path, err := r.resolveInclude(fields[1], ln.File)
			if err != nil {
				return nil, &AssemblerError{Pos: ln.Pos(), Kind: ErrorInclude, Message: err.Error()}
			}
			info, err := os.Stat(path)
			if err != nil {
				return nil, &AssemblerError{Pos: ln.Pos(), Kind: ErrorInclude, Message: "include not found: " + fields[1]}
			}
			stamped := fmt.Sprintf("%s %s %s", ln.Contents, path, strconv.FormatInt(info.Size(), 10))
			out = append(out, Line{File: ln.File, Number: ln.Number, Contents: stamped})
		default:
			out = append(out, ln)
		}
	}
	return out, nil
}

func (r *reader) resolveInclude(name, referrer string) (string, error) {
	candidates := append(append([]string{}, r.includeDirs...), filepath.Dir(referrer))
	for _, dir := range candidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("include not found: %s", name)
}
