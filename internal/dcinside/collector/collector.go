// Package collector fetches each queued post, parses and persists it,
// and drives the comment-thread paginator against the comments API.
package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/hanaul/dc-harvester/internal/dcinside"
	"github.com/hanaul/dc-harvester/internal/dcinside/parsing"
	"github.com/hanaul/dc-harvester/internal/dcinside/politeness"
	"github.com/hanaul/dc-harvester/internal/dcinside/urlcodec"
	"github.com/hanaul/dc-harvester/internal/fingerprint"
	"github.com/hanaul/dc-harvester/internal/model"
	"github.com/hanaul/dc-harvester/internal/repository"
)

// Fetcher is the subset of httpclient.Client the collector needs.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
	PostForm(ctx context.Context, url string, params url.Values) ([]byte, error)
}

// Stats accumulates per-run counters the orchestrator logs and exposes.
type Stats struct {
	PostsPersisted       int
	PostsSkippedDeleted  int
	CommentsPersisted    int
	CommentsSkippedDup   int
}

// Collector processes the queued post IDs produced by the walker.
type Collector struct {
	fetcher      Fetcher
	repo         repository.Repository
	delay        *politeness.Delay
	shouldCancel func() bool
	currentYear  func() int
	Stats        Stats
}

// New creates a Collector. shouldCancel is polled before every post
// fetch and between comment pages.
func New(fetcher Fetcher, repo repository.Repository, shouldCancel func() bool, currentYear func() int) *Collector {
	if shouldCancel == nil {
		shouldCancel = func() bool { return false }
	}
	return &Collector{
		fetcher:      fetcher,
		repo:         repo,
		delay:        politeness.New(),
		shouldCancel: shouldCancel,
		currentYear:  currentYear,
	}
}

// Run sorts ids chronologically ascending and processes each: fetch,
// parse, persist the post, then page through its comment thread.
func (c *Collector) Run(ctx context.Context, scenarioID model.Scenario, ids *model.IDSet) error {
	sorted, err := SortIDs(ids.Slice())
	if err != nil {
		return err
	}

	total := len(sorted)
	for i, platformID := range sorted {
		if c.shouldCancel() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		c.delay.Sleep(politeness.BetweenDetailFetches)
		log.Printf("collector: processing %d/%d (%d%%) %s", i+1, total, (i+1)*100/total, platformID)

		if err := c.processPost(ctx, scenarioID, platformID); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) processPost(ctx context.Context, scenarioID model.Scenario, platformID string) error {
	postURL, err := urlcodec.PlatformIDToURL(platformID)
	if err != nil {
		log.Printf("collector: skipping %s: %v", platformID, err)
		return nil
	}

	body, err := c.fetcher.Get(ctx, postURL)
	if err != nil {
		if errors.Is(err, dcinside.ErrNotFound) {
			c.Stats.PostsSkippedDeleted++
			return nil
		}
		return err
	}

	detail, err := parsing.ParsePostDetail(string(body))
	if err != nil {
		log.Printf("collector: parse error for %s: %v", postURL, err)
		return nil
	}

	writtenAt, err := parsing.ParsePostDate(detail.WrittenAt)
	if err != nil {
		log.Printf("collector: bad post date for %s: %v", postURL, err)
		return nil
	}

	input := model.PostInput{
		ScenarioID:     scenarioID,
		PlatformPostID: platformID,
		URL:            postURL,
		Title:          detail.Title,
		Contents:       detail.Contents,
		Writer:         detail.Writer,
		WriterID:       detail.WriterID,
		WriterIP:       detail.WriterIP,
		WrittenAt:      writtenAt,
		LikeCnt:        detail.LikeCnt,
		DislikeCnt:     detail.DislikeCnt,
		CommentCnt:     detail.CommentCnt,
	}

	fp, err := fingerprint.OfPost(&model.Post{
		Title:      detail.Title,
		Contents:   detail.Contents,
		LikeCnt:    detail.LikeCnt,
		DislikeCnt: detail.DislikeCnt,
		CommentCnt: detail.CommentCnt,
	})
	if err != nil {
		log.Printf("collector: fingerprint failed for %s: %v", postURL, err)
	} else {
		input.Fingerprint = fp.String()
	}

	post, err := c.repo.InsertPost(ctx, input)
	if err != nil {
		return err
	}
	c.Stats.PostsPersisted++

	if detail.CommentCnt > 0 {
		return c.collectComments(ctx, scenarioID, post.ID, platformID, postURL, detail.ESNO)
	}
	return nil
}

// CollectCommentsFor runs the comment-thread pagination loop against
// an already-persisted post, without re-fetching or re-inserting the
// post itself. Used by the rehydrate phase, which has already decided
// the post changed.
func (c *Collector) CollectCommentsFor(ctx context.Context, scenarioID model.Scenario, postID int64, platformID, postURL, esno string) error {
	return c.collectComments(ctx, scenarioID, postID, platformID, postURL, esno)
}

func (c *Collector) collectComments(ctx context.Context, scenarioID model.Scenario, postID int64, platformID, postURL, esno string) error {
	info, err := urlcodec.ExtractGalleryInfo(postURL)
	if err != nil {
		return nil
	}
	gallery := fmt.Sprintf("%s&%s", info.GallType, info.GalleryID)
	commentEndpoint := fmt.Sprintf("https://%s/board/comment/", urlcodec.CanonicalHost)

	for page := 1; ; page++ {
		if c.shouldCancel() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if page > 1 {
			c.delay.Sleep(politeness.BetweenCommentPages)
		}

		gallType := string(info.GallType)
		if gallType == "" {
			gallType = string(model.GalleryGeneral)
		}

		form := url.Values{
			"id":          {info.GalleryID},
			"no":          {info.PostNo},
			"cmt_id":      {info.GalleryID},
			"cmt_no":      {info.PostNo},
			"focus_cno":   {""},
			"focus_pno":   {""},
			"prevCnt":     {""},
			"board_type":  {""},
			"e_s_n_o":     {esno},
			"sort":        {"N"},
			"_GALLTYPE_":  {gallType},
			"comment_page": {strconv.Itoa(page)},
		}

		body, err := c.fetcher.PostForm(ctx, commentEndpoint, form)
		if err != nil {
			return err
		}

		items, err := parsing.ParseCommentResponse(body)
		if err != nil {
			log.Printf("collector: comment parse error for %s page %d: %v", platformID, page, err)
			return nil
		}
		if len(items) == 0 {
			return nil
		}

		inputs, err := c.toCommentInputs(ctx, scenarioID, postID, platformID, postURL, gallery, items)
		if err != nil {
			return err
		}
		if len(inputs) > 0 {
			if err := c.repo.InsertCommentsBulk(ctx, inputs); err != nil {
				return err
			}
			c.Stats.CommentsPersisted += len(inputs)
		}
	}
}

func (c *Collector) toCommentInputs(ctx context.Context, scenarioID model.Scenario, postID int64, postPlatformID, postURL, gallery string, items []parsing.CommentItem) ([]model.CommentInput, error) {
	var inputs []model.CommentInput
	year := c.currentYear()

	for _, item := range items {
		if item.IsControlRow() || item.IsDeleted() {
			continue
		}

		commentID := urlcodec.CommentPlatformID(postPlatformID, item.No)

		exists, err := c.repo.CommentExists(ctx, scenarioID, commentID)
		if err != nil {
			return nil, err
		}
		if exists {
			c.Stats.CommentsSkippedDup++
			continue
		}

		contents, err := parsing.StripHTML(item.Memo)
		if err != nil || strings.TrimSpace(contents) == "" {
			continue
		}

		writtenAt, err := parsing.ParseCommentDate(item.RegDate, year)
		if err != nil {
			log.Printf("collector: bad comment date for %s: %v", commentID, err)
			continue
		}

		var writer, writerID, writerIP *string
		if item.Name != "" {
			writer = &item.Name
		}
		if item.UserID != "" {
			writerID = &item.UserID
		}
		if item.IP != "" {
			writerIP = &item.IP
		}

		inputs = append(inputs, model.CommentInput{
			PlatformCommentID: commentID,
			PostID:            postID,
			ScenarioID:        scenarioID,
			Writer:            writer,
			WriterID:          writerID,
			WriterIP:          writerIP,
			Contents:          contents,
			URL:               postURL,
			Gallery:           gallery,
			WrittenAt:         writtenAt,
		})
	}
	return inputs, nil
}

// SortIDs sorts platform post IDs ascending by (gallType lex, galleryId
// lex, postNo numeric).
func SortIDs(ids []string) ([]string, error) {
	type keyed struct {
		id       string
		gallType string
		galleryID string
		postNo   int
	}

	keys := make([]keyed, 0, len(ids))
	for _, id := range ids {
		parts := strings.Split(id, "&")
		if len(parts) != 4 {
			return nil, fmt.Errorf("%w: malformed platform id %q", dcinside.ErrInvalidURL, id)
		}
		n, err := strconv.Atoi(parts[3])
		if err != nil {
			return nil, fmt.Errorf("%w: non-numeric post number in %q", dcinside.ErrInvalidURL, id)
		}
		keys = append(keys, keyed{id: id, gallType: parts[1], galleryID: parts[2], postNo: n})
	}

	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].gallType != keys[j].gallType {
			return keys[i].gallType < keys[j].gallType
		}
		if keys[i].galleryID != keys[j].galleryID {
			return keys[i].galleryID < keys[j].galleryID
		}
		return keys[i].postNo < keys[j].postNo
	})

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.id
	}
	return out, nil
}
