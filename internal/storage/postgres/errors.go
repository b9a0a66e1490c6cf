package postgres

import "errors"

// ErrDuplicatePost is returned when InsertPost targets a
// (scenario, platformPostID) pair already present.
var ErrDuplicatePost = errors.New("postgres: post already indexed")

// ErrDuplicateComment names a violation of a comment row's unique
// constraint. InsertCommentsBulk does not return it: conflicting rows
// are skipped by ON CONFLICT DO NOTHING.
var ErrDuplicateComment = errors.New("postgres: comment already indexed")
