// Package walker implements the stateful listing paginator: it walks
// a scenario's listing pages in blocks, emits candidate post IDs into
// the in-run dedup set, and stops at the incremental boundary, a date
// cutoff, or pagination exhaustion.
package walker

import (
	"context"
	"log"
	"time"

	"github.com/hanaul/dc-harvester/internal/dcinside/parsing"
	"github.com/hanaul/dc-harvester/internal/dcinside/politeness"
	"github.com/hanaul/dc-harvester/internal/dcinside/urlcodec"
	"github.com/hanaul/dc-harvester/internal/model"
	"github.com/hanaul/dc-harvester/internal/repository"
)

// Fetcher is the subset of httpclient.Client the walker needs.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Walker traverses the listing pages of one scenario run.
type Walker struct {
	fetcher      Fetcher
	repo         repository.Repository
	delay        *politeness.Delay
	shouldCancel func() bool
	PagesWalked  int
}

// New creates a Walker. shouldCancel is polled before every listing
// page fetch; nil disables cancellation checks.
func New(fetcher Fetcher, repo repository.Repository, shouldCancel func() bool) *Walker {
	if shouldCancel == nil {
		shouldCancel = func() bool { return false }
	}
	return &Walker{
		fetcher:      fetcher,
		repo:         repo,
		delay:        politeness.New(),
		shouldCancel: shouldCancel,
	}
}

// Walk traverses startURL block by block, returning the queued
// platform IDs. dateFrom, when non-nil, stops ingestion at the first
// row older than it.
func (w *Walker) Walk(ctx context.Context, scenarioID model.Scenario, mode model.Mode, startURL string, dateFrom *time.Time) (*model.IDSet, error) {
	ids := model.NewIDSet()
	currentURL := startURL

	for currentURL != "" {
		if w.shouldCancel() {
			return ids, nil
		}
		if err := ctx.Err(); err != nil {
			return ids, err
		}

		body, err := w.fetcher.Get(ctx, currentURL)
		if err != nil {
			return ids, err
		}

		page, err := parsing.ParseListingPage(string(body), mode, currentURL)
		if err != nil {
			log.Printf("walker: parse error on %s: %v", currentURL, err)
			return ids, nil
		}
		w.PagesWalked++

		stop, err := w.ingest(ctx, scenarioID, page.Rows, dateFrom, ids)
		if err != nil {
			return ids, err
		}
		if stop {
			return ids, nil
		}

		for _, pageURL := range page.Pagination.PageLinks {
			if w.shouldCancel() {
				return ids, nil
			}
			w.delay.Sleep(politeness.BetweenListingFetches)

			innerBody, err := w.fetcher.Get(ctx, pageURL)
			if err != nil {
				return ids, err
			}
			innerPage, err := parsing.ParseListingPage(string(innerBody), mode, pageURL)
			if err != nil {
				log.Printf("walker: parse error on %s: %v", pageURL, err)
				continue
			}
			w.PagesWalked++
			stop, err := w.ingest(ctx, scenarioID, innerPage.Rows, dateFrom, ids)
			if err != nil {
				return ids, err
			}
			if stop {
				return ids, nil
			}
		}

		if page.Pagination.NextBlock == "" {
			return ids, nil
		}
		w.delay.Sleep(politeness.BetweenListingFetches)
		currentURL = page.Pagination.NextBlock
	}

	return ids, nil
}

// ingest feeds one row batch through the incremental-boundary and
// date-cutoff checks, adding survivors to ids. Returns true when the
// walk must stop.
func (w *Walker) ingest(ctx context.Context, scenarioID model.Scenario, rows []parsing.ListingRow, dateFrom *time.Time, ids *model.IDSet) (bool, error) {
	for _, row := range rows {
		if dateFrom != nil && row.WrittenAt.Before(*dateFrom) {
			return true, nil
		}

		platformID, err := urlcodec.UrlToPlatformID(row.URL)
		if err != nil {
			log.Printf("walker: skipping row with invalid url %s: %v", row.URL, err)
			continue
		}

		existing, err := w.repo.FindPostByPlatformID(ctx, scenarioID, platformID)
		if err != nil {
			return false, err
		}
		if existing != nil {
			return true, nil
		}

		ids.Add(platformID)
	}
	return false, nil
}
