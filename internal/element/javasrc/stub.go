//go:build !cgo

package javasrc

import (
	"context"

	"github.com/moamenhredeen/oasgen/internal/element"
)

// Parse parses Java source into classes.
// Stub implementation returns an error.
func (r *Reader) Parse(ctx context.Context, source []byte) ([]*element.Class, error) {
	return nil, ErrNoCGO
}
