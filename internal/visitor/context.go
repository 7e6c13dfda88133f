package visitor

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/moamenhredeen/oasgen/internal/element"
)

// Context is what the walker needs from its host: a diagnostics sink and a
// place to write generated files.
type Context interface {
	Warn(msg string, el element.Element)
	CreateOutputFile(name string) (io.WriteCloser, error)
}

// FileContext is a Context writing outputs under a directory and logging
// warnings.
type FileContext struct {
	dir    string
	logger *slog.Logger

	warnings []string
	files    []string
}

// NewFileContext creates a context writing into dir. A nil logger uses
// slog.Default.
func NewFileContext(dir string, logger *slog.Logger) *FileContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileContext{dir: dir, logger: logger}
}

// Warn logs msg and records it.
func (c *FileContext) Warn(msg string, el element.Element) {
	c.warnings = append(c.warnings, msg)
	if el != nil {
		c.logger.Warn(msg, "element", el.Name())
		return
	}
	c.logger.Warn(msg)
}

// CreateOutputFile creates or truncates name under the output directory.
func (c *FileContext) CreateOutputFile(name string) (io.WriteCloser, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(c.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	c.files = append(c.files, path)
	c.logger.Debug("created output file", "path", path)
	return f, nil
}

// Warnings returns the warnings reported so far.
func (c *FileContext) Warnings() []string { return c.warnings }

// Files returns the paths of the files created so far.
func (c *FileContext) Files() []string { return c.files }
