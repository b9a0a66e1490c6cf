// Package repository defines the abstract persistence contract the
// crawl engine depends on. It is deliberately narrow: the engine
// assumes each operation is logically atomic per call but makes no
// cross-call transactional assumption.
package repository

import (
	"context"
	"time"

	"github.com/hanaul/dc-harvester/internal/model"
)

// Repository is the storage port consumed by the DCInside (and future
// YouTube/Ruliweb) engines. A concrete adapter backs it with whatever
// database the deployment chooses; internal/storage/postgres ships one.
type Repository interface {
	// FindPostByPlatformID checks the incremental boundary: whether a
	// post with this platform ID has already been persisted for this
	// scenario. Returns (nil, nil) when absent.
	FindPostByPlatformID(ctx context.Context, scenarioID model.Scenario, platformPostID string) (*model.Post, error)

	// InsertPost creates a post row and returns it with its surrogate ID.
	InsertPost(ctx context.Context, input model.PostInput) (*model.Post, error)

	// UpdatePostCommentCount is used by the rehydrate phase to refresh
	// a previously-persisted post's comment count.
	UpdatePostCommentCount(ctx context.Context, postID int64, commentCnt int) error

	// ListRecentPosts returns lean rows for posts persisted since the
	// given instant, feeding the rehydrate phase.
	ListRecentPosts(ctx context.Context, scenarioID model.Scenario, since time.Time) ([]model.LeanPost, error)

	// InsertCommentsBulk appends one page's worth of comments. Safe to
	// call with an empty slice.
	InsertCommentsBulk(ctx context.Context, inputs []model.CommentInput) error

	// CommentExists checks dedup within persistence before writing.
	CommentExists(ctx context.Context, scenarioID model.Scenario, platformCommentID string) (bool, error)
}
