// Package engines declares the shared Engine contract every site
// crawler dispatches through, so cmd/crawl can route by crawler code
// without knowing which concrete site it is talking to.
package engines

import "context"

// Engine runs one scenario to completion or until cancellation.
type Engine interface {
	StartCrawling(ctx context.Context) error
}
