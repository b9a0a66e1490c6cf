// Package model holds the domain types shared by every crawl engine:
// scenarios, crawler codes, gallery variants, platform identities, and
// the Post/Comment records that flow through the repository port.
package model

import "time"

// Scenario scopes every row persisted during one logical collection
// effort. It is supplied by the caller and never interpreted by the core.
type Scenario string

// CrawlerCode is an opaque string matched against environment
// configuration to select a DCInside mode; that mapping is never
// hard-coded. cmd/crawl routes the literal codes "youtube" and
// "ruliweb" to their stub engines.
type CrawlerCode string

// Mode is the tagged variant resolved once from CrawlerCode + environment,
// then threaded explicitly through construction instead of being
// re-derived from the crawler code on every call.
type Mode int

const (
	// ModeRaw treats the input URL (or a target-derived listing URL) as
	// a plain listing with no keyword/gallog semantics.
	ModeRaw Mode = iota
	// ModeKeyword searches within a target gallery for a keyword.
	ModeKeyword
	// ModeGallog traverses a specific user's posting page.
	ModeGallog
)

func (m Mode) String() string {
	switch m {
	case ModeKeyword:
		return "keyword"
	case ModeGallog:
		return "gallog"
	default:
		return "raw"
	}
}

// GalleryType is the gallery variant letter embedded in every platform ID.
type GalleryType string

const (
	GalleryMajor GalleryType = "M"  // /mgallery/
	GalleryMini  GalleryType = "MI" // /mini/
	GalleryGeneral GalleryType = "G" // /board/
)

// GalleryInfo is the structured decomposition of a gallery/post URL.
type GalleryInfo struct {
	GallType  GalleryType
	GalleryID string
	PostNo    string // empty when the URL is a listing URL with no post number
}

// Post is one DCInside post row, scoped to a scenario.
type Post struct {
	ID             int64
	ScenarioID     Scenario
	PlatformPostID string
	URL            string
	Title          string
	Contents       string
	Writer         *string
	WriterID       *string
	WriterIP       *string
	WrittenAt      time.Time
	LikeCnt        int
	DislikeCnt     *int
	CommentCnt     int
	Fingerprint    string // content-addressed CID string; empty if never computed
}

// PostInput is the payload accepted by Repository.InsertPost.
type PostInput struct {
	ScenarioID     Scenario
	PlatformPostID string
	URL            string
	Title          string
	Contents       string
	Writer         *string
	WriterID       *string
	WriterIP       *string
	WrittenAt      time.Time
	LikeCnt        int
	DislikeCnt     *int
	CommentCnt     int
	Fingerprint    string
}

// Comment is one DCInside comment row.
type Comment struct {
	ID                int64
	PlatformCommentID string
	PostID            int64
	ScenarioID        Scenario
	Writer            *string
	WriterID          *string
	WriterIP          *string
	Contents          string
	URL               string
	Gallery           string // "<gallType>&<galleryId>"
	WrittenAt         time.Time
}

// CommentInput is the payload accepted by Repository.InsertCommentsBulk.
type CommentInput struct {
	PlatformCommentID string
	PostID            int64
	ScenarioID        Scenario
	Writer            *string
	WriterID          *string
	WriterIP          *string
	Contents          string
	URL               string
	Gallery           string
	WrittenAt         time.Time
}

// LeanPost is the trimmed shape returned by Repository.ListRecentPosts,
// carrying only what the rehydrate phase needs.
type LeanPost struct {
	ID             int64
	PlatformPostID string
	URL            string
	CommentCnt     int
	Fingerprint    string
}
