// Package dcinside is the umbrella for the DCInside crawl engine: URL
// codec, HTML/JSON parsers, listing walker, post/comment collector, and
// the orchestrator that ties them together. This file carries the
// error taxonomy shared across those sub-packages.
package dcinside

import "errors"

var (
	// ErrInvalidURL is returned when a URL cannot be decoded into a
	// DCInside platform ID. Fatal to the offending call; never retried.
	ErrInvalidURL = errors.New("dcinside: invalid url")

	// ErrRateLimited is returned after the HTTP client exhausts its
	// retry budget against a 429 response.
	ErrRateLimited = errors.New("dcinside: rate limited")

	// ErrNotFound is returned for a 404 response; treated as deleted
	// content by the post collector and as a fatal condition by the
	// listing walker.
	ErrNotFound = errors.New("dcinside: not found")

	// ErrHTTP is returned for any other non-2xx/3xx response.
	ErrHTTP = errors.New("dcinside: http error")

	// ErrEndOfPage signals a normal end condition for the comment loop:
	// the upstream returned an empty comment list for a page.
	ErrEndOfPage = errors.New("dcinside: end of page")

	// ErrConfig is returned at engine construction when required input
	// for the selected mode is missing.
	ErrConfig = errors.New("dcinside: config error")

	// ErrParse is returned when a row or page could not be parsed. The
	// walker and collector treat it as a per-item skip, never fatal.
	ErrParse = errors.New("dcinside: parse error")
)
