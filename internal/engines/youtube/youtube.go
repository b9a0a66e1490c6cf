// Package youtube declares the YouTube engine's shape without
// implementing it, per the crawler's scope: only DCInside is built
// out; sibling engines exist only as a dispatch target.
package youtube

import (
	"context"
	"errors"
)

// ErrNotImplemented is returned by every call; this engine is a
// placeholder for future site support.
var ErrNotImplemented = errors.New("youtube: engine not implemented")

// Engine satisfies engines.Engine with an unimplemented body.
type Engine struct{}

// New creates a stub YouTube engine.
func New() *Engine { return &Engine{} }

// StartCrawling always returns ErrNotImplemented.
func (e *Engine) StartCrawling(ctx context.Context) error {
	return ErrNotImplemented
}
