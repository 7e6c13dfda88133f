// Package javasrc reads annotated Java source files into element classes so
// controllers can be documented without a compiler.
package javasrc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/moamenhredeen/oasgen/internal/element"
)

// ErrNoCGO is returned when source parsing is unavailable due to missing CGO.
var ErrNoCGO = errors.New("java source parsing requires CGO (tree-sitter)")

// Reader parses Java sources.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a Reader. A nil logger uses slog.Default.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// ReadFile parses one source file.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]*element.Class, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}
	classes, err := r.Parse(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return classes, nil
}

// ReadDirs parses every .java file below the given directories, in lexical
// path order. A path naming a file is read directly.
func (r *Reader) ReadDirs(ctx context.Context, dirs ...string) ([]*element.Class, error) {
	var classes []*element.Class
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".java") {
				return nil
			}
			found, err := r.ReadFile(ctx, path)
			if err != nil {
				return err
			}
			r.logger.Debug("parsed source file", "path", path, "classes", len(found))
			classes = append(classes, found...)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return classes, nil
}

// ClassElements converts parsed classes to the walker interface.
func ClassElements(classes []*element.Class) []element.ClassElement {
	out := make([]element.ClassElement, 0, len(classes))
	for _, c := range classes {
		out = append(out, c)
	}
	return out
}
