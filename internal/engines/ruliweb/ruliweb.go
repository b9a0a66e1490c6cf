// Package ruliweb declares the Ruliweb engine's shape without
// implementing it; see internal/engines/youtube for the same pattern.
package ruliweb

import (
	"context"
	"errors"
)

// ErrNotImplemented is returned by every call; this engine is a
// placeholder for future site support.
var ErrNotImplemented = errors.New("ruliweb: engine not implemented")

// Engine satisfies engines.Engine with an unimplemented body.
type Engine struct{}

// New creates a stub Ruliweb engine.
func New() *Engine { return &Engine{} }

// StartCrawling always returns ErrNotImplemented.
func (e *Engine) StartCrawling(ctx context.Context) error {
	return ErrNotImplemented
}
