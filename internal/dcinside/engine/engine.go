// Package engine orchestrates one scenario run: configuration
// resolution, the optional rehydrate phase, the listing walk, and the
// sorted collector pass, with a heartbeat and cooperative cancellation
// threaded through every blocking boundary.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/hanaul/dc-harvester/internal/dcinside"
	"github.com/hanaul/dc-harvester/internal/dcinside/collector"
	"github.com/hanaul/dc-harvester/internal/dcinside/parsing"
	"github.com/hanaul/dc-harvester/internal/dcinside/walker"
	"github.com/hanaul/dc-harvester/internal/fingerprint"
	"github.com/hanaul/dc-harvester/internal/model"
	"github.com/hanaul/dc-harvester/internal/repository"
)

// sleepH is the fixed margin subtracted alongside the expiration
// period, giving the rehydrate window headroom over the heartbeat
// cadence so a post persisted moments before a run boundary is never
// missed.
const sleepH = 1 * time.Hour

// DCHost is the site root that keyword-mode and target-derived listing
// URLs are built on.
const DCHost = "https://gall.dcinside.com"

// Options are the caller-supplied inputs to Config, mirroring the CLI
// surface: sid/cid/url/keyword/target.
type Options struct {
	ScenarioID  model.Scenario
	CrawlerCode model.CrawlerCode
	URL         string
	Keyword     string
	Target      string
}

// EnvLookup abstracts environment access so tests never touch the
// process environment.
type EnvLookup func(key string) (string, bool)

// Config is the fully-resolved construction result: mode, first URL,
// and the expiration boundary for the rehydrate phase.
type Config struct {
	ScenarioID     model.Scenario
	Mode           model.Mode
	StartURL       string
	ExpirationDate *time.Time
	RehydrateOn    bool
}

// NewConfig resolves Options + environment into a Config, per the
// DC_KEYWORD_CRAWLER / DC_GALLOG_CRAWLER matching rules.
func NewConfig(opts Options, lookup EnvLookup, now time.Time) (Config, error) {
	keywordCode, _ := lookup("DC_KEYWORD_CRAWLER")
	gallogCode, _ := lookup("DC_GALLOG_CRAWLER")

	cfg := Config{ScenarioID: opts.ScenarioID}

	switch {
	case keywordCode != "" && string(opts.CrawlerCode) == keywordCode:
		if opts.Keyword == "" || opts.Target == "" {
			return Config{}, fmt.Errorf("%w: keyword mode requires keyword and target", dcinside.ErrConfig)
		}
		cfg.Mode = model.ModeKeyword
		cfg.StartURL = fmt.Sprintf(
			"%s/board/lists/?id=%s&s_type=search_subject_memo&s_keyword=%s",
			DCHost, opts.Target, url.QueryEscape(opts.Keyword),
		)

	case gallogCode != "" && string(opts.CrawlerCode) == gallogCode:
		if opts.URL == "" {
			return Config{}, fmt.Errorf("%w: gallog mode requires url", dcinside.ErrConfig)
		}
		cfg.Mode = model.ModeGallog
		cfg.StartURL = strings.TrimRight(opts.URL, "/") + "/posting"

	default:
		cfg.Mode = model.ModeRaw
		switch {
		case opts.URL != "":
			cfg.StartURL = opts.URL
		case opts.Target != "":
			cfg.StartURL = fmt.Sprintf("%s/board/lists/?id=%s", DCHost, opts.Target)
		default:
			return Config{}, fmt.Errorf("%w: raw mode requires url or target", dcinside.ErrConfig)
		}
	}

	if periodStr, ok := lookup("EXPIRATION_PERIOD"); ok && periodStr != "" {
		var days int
		if _, err := fmt.Sscanf(periodStr, "%d", &days); err != nil {
			return Config{}, fmt.Errorf("%w: invalid EXPIRATION_PERIOD %q", dcinside.ErrConfig, periodStr)
		}
		if days > 0 {
			cutoff := now.Add(-time.Duration(days) * 24 * time.Hour).Add(-sleepH)
			cfg.ExpirationDate = &cutoff
			cfg.RehydrateOn = true
		}
	}

	return cfg, nil
}

// RunStats accumulates the counters logged at the end of a run.
type RunStats struct {
	PagesWalked         int
	RowsQueued          int
	PostsPersisted      int
	PostsSkippedDeleted int
	CommentsPersisted   int
	CommentsSkippedDup  int
	RetryCount          int
	RateLimitHits       int
}

// Fetcher is the combined HTTP surface the engine's collaborators need.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
	PostForm(ctx context.Context, url string, params url.Values) ([]byte, error)
}

// Engine runs one scenario end to end.
type Engine struct {
	cfg          Config
	fetcher      Fetcher
	repo         repository.Repository
	shouldCancel func() bool
	Stats        RunStats
}

// New creates an Engine. shouldCancel is polled at every blocking
// boundary; nil disables cancellation checks.
func New(cfg Config, fetcher Fetcher, repo repository.Repository, shouldCancel func() bool) *Engine {
	if shouldCancel == nil {
		shouldCancel = func() bool { return false }
	}
	return &Engine{cfg: cfg, fetcher: fetcher, repo: repo, shouldCancel: shouldCancel}
}

// StartCrawling runs the full three-phase flow: optional rehydrate,
// listing walk, sorted collection. The heartbeat is stopped on every
// exit path, including error returns.
func (e *Engine) StartCrawling(ctx context.Context) error {
	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()
	stopHeartbeat := make(chan struct{})
	defer close(stopHeartbeat)

	go func() {
		for {
			select {
			case <-heartbeat.C:
				log.Printf("engine: heartbeat scenario=%s mode=%s", e.cfg.ScenarioID, e.cfg.Mode)
			case <-stopHeartbeat:
				return
			}
		}
	}()

	if e.cfg.RehydrateOn {
		if err := e.rehydrate(ctx); err != nil {
			return err
		}
	}

	w := walker.New(e.fetcher, e.repo, e.shouldCancel)
	ids, err := w.Walk(ctx, e.cfg.ScenarioID, e.cfg.Mode, e.cfg.StartURL, e.cfg.ExpirationDate)
	if err != nil {
		return err
	}
	e.Stats.RowsQueued = ids.Len()
	e.Stats.PagesWalked = w.PagesWalked

	c := collector.New(e.fetcher, e.repo, e.shouldCancel, func() int {
		return parsing.CurrentKSTYear(time.Now())
	})
	if err := c.Run(ctx, e.cfg.ScenarioID, ids); err != nil {
		return err
	}

	e.Stats.PostsPersisted = c.Stats.PostsPersisted
	e.Stats.PostsSkippedDeleted = c.Stats.PostsSkippedDeleted
	e.Stats.CommentsPersisted = c.Stats.CommentsPersisted
	e.Stats.CommentsSkippedDup = c.Stats.CommentsSkippedDup

	if statser, ok := e.fetcher.(interface {
		Stats() (retryCount, rateLimitHits int)
	}); ok {
		e.Stats.RetryCount, e.Stats.RateLimitHits = statser.Stats()
	}

	log.Printf(
		"engine: run complete scenario=%s pages=%d queued=%d posts=%d posts_deleted=%d comments=%d comments_dup=%d retries=%d rate_limit_hits=%d",
		e.cfg.ScenarioID, e.Stats.PagesWalked, e.Stats.RowsQueued, e.Stats.PostsPersisted, e.Stats.PostsSkippedDeleted,
		e.Stats.CommentsPersisted, e.Stats.CommentsSkippedDup, e.Stats.RetryCount, e.Stats.RateLimitHits,
	)
	return nil
}

// rehydrate refetches every post persisted within the expiration
// window, updating commentCnt only when the post's fingerprint
// actually changed, then runs the comment loop on it.
func (e *Engine) rehydrate(ctx context.Context) error {
	if e.cfg.ExpirationDate == nil {
		return nil
	}

	posts, err := e.repo.ListRecentPosts(ctx, e.cfg.ScenarioID, *e.cfg.ExpirationDate)
	if err != nil {
		return err
	}

	for _, lean := range posts {
		if e.shouldCancel() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		body, err := e.fetcher.Get(ctx, lean.URL)
		if err != nil {
			if errors.Is(err, dcinside.ErrNotFound) {
				continue
			}
			log.Printf("engine: rehydrate fetch failed for %s: %v", lean.URL, err)
			continue
		}

		detail, err := parsing.ParsePostDetail(string(body))
		if err != nil {
			log.Printf("engine: rehydrate parse failed for %s: %v", lean.URL, err)
			continue
		}

		fp, err := fingerprint.OfPost(&model.Post{
			Title:      detail.Title,
			Contents:   detail.Contents,
			LikeCnt:    detail.LikeCnt,
			DislikeCnt: detail.DislikeCnt,
			CommentCnt: detail.CommentCnt,
		})
		if err != nil {
			log.Printf("engine: rehydrate fingerprint failed for %s: %v", lean.URL, err)
			continue
		}

		if fp.String() == lean.Fingerprint {
			continue
		}

		if err := e.repo.UpdatePostCommentCount(ctx, lean.ID, detail.CommentCnt); err != nil {
			return err
		}

		if detail.CommentCnt == 0 {
			continue
		}

		c := collector.New(e.fetcher, e.repo, e.shouldCancel, func() int {
			return parsing.CurrentKSTYear(time.Now())
		})
		if err := c.CollectCommentsFor(ctx, e.cfg.ScenarioID, lean.ID, lean.PlatformPostID, lean.URL, detail.ESNO); err != nil {
			return err
		}
	}

	return nil
}
