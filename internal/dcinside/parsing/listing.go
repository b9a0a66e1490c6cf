package parsing

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hanaul/dc-harvester/internal/dcinside"
	"github.com/hanaul/dc-harvester/internal/model"
)

// ListingRow is one surviving post row from a listing page: notices,
// ads, and rows whose href could not be resolved are never returned.
type ListingRow struct {
	URL       string
	WrittenAt time.Time
}

// ListingPage is the result of parsing one listing page body: its
// surviving rows plus the pagination block needed to keep walking.
type ListingPage struct {
	Rows       []ListingRow
	Pagination Pagination
}

// Pagination is the decomposition of a listing page's pagination
// block: the individual per-page links inside the current block, and
// the link to advance to the next block (if any).
type Pagination struct {
	PageLinks []string
	NextBlock string
}

var noticeWords = []string{"공지", "notice"}

// ParseListingPage parses a full listing HTML document in the given
// mode, resolving relative hrefs against baseURL.
func ParseListingPage(htmlBody string, mode model.Mode, baseURL string) (ListingPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return ListingPage{}, fmt.Errorf("%w: %v", dcinside.ErrParse, err)
	}

	rowSelector := "table.gall_list > tbody > tr"
	paginationSelector := "div.bottom_paging_box.iconpaging"
	if mode == model.ModeGallog {
		rowSelector = "ul.cont_listbox > li"
		paginationSelector = "div.cont_box div.bottom_paging_box.iconpaging"
	}

	var rows []ListingRow
	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		parsed, ok := parseListingRow(row, mode, baseURL)
		if ok {
			rows = append(rows, parsed)
		}
	})

	pagination := parsePagination(doc.Find(paginationSelector).First(), baseURL)

	return ListingPage{Rows: rows, Pagination: pagination}, nil
}

// parseListingRow decides post-row vs notice/ad and, for surviving
// rows, resolves the href and the written-at date.
func parseListingRow(row *goquery.Selection, mode model.Mode, baseURL string) (ListingRow, bool) {
	if !isPostRow(row) {
		return ListingRow{}, false
	}

	href, ok := selectRowLink(row)
	if !ok {
		return ListingRow{}, false
	}

	resolved, err := resolveURL(baseURL, href)
	if err != nil {
		return ListingRow{}, false
	}

	writtenAt, err := extractRowDate(row, mode)
	if err != nil {
		return ListingRow{}, false
	}

	return ListingRow{URL: resolved, WrittenAt: writtenAt}, true
}

// isPostRow classifies a row as a real post (vs a notice/ad row): a
// data-no attribute being present, OR the number cell being purely
// numeric and not carrying a notice marker.
func isPostRow(row *goquery.Selection) bool {
	if _, exists := row.Attr("data-no"); exists {
		return true
	}

	numberText := strings.TrimSpace(row.Find("td.gall_num").First().Text())
	if numberText == "" {
		return false
	}
	for _, word := range noticeWords {
		if strings.Contains(strings.ToLower(numberText), strings.ToLower(word)) {
			return false
		}
	}
	if _, err := strconv.Atoi(numberText); err != nil {
		return false
	}
	return true
}

// selectRowLink picks the row's post link: first an href containing
// "/board/view", then the title cell's anchor, then any anchor.
func selectRowLink(row *goquery.Selection) (string, bool) {
	if href, ok := findHrefContaining(row, "/board/view"); ok {
		return href, true
	}
	if href, ok := row.Find("td.gall_tit a").First().Attr("href"); ok {
		return href, true
	}
	if href, ok := row.Find("a").First().Attr("href"); ok {
		return href, true
	}
	return "", false
}

func findHrefContaining(row *goquery.Selection, substr string) (string, bool) {
	var found string
	var ok bool
	row.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, exists := a.Attr("href")
		if exists && strings.Contains(href, substr) {
			found, ok = href, true
			return false
		}
		return true
	})
	return found, ok
}

func extractRowDate(row *goquery.Selection, mode model.Mode) (time.Time, error) {
	if mode == model.ModeGallog {
		return ParseGallogDate(row.Find("span.date").First().Text())
	}
	title, _ := row.Find("td.gall_date").First().Attr("title")
	return ParseListingDateTitle(title)
}

// parsePagination enumerates the per-page anchors inside the
// pagination block (anchors carrying no class) and locates the
// block-next link (page_next or search_next class).
func parsePagination(block *goquery.Selection, baseURL string) Pagination {
	var p Pagination

	block.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		class := strings.TrimSpace(a.AttrOr("class", ""))

		if class == "" {
			if resolved, err := resolveURL(baseURL, href); err == nil {
				p.PageLinks = append(p.PageLinks, resolved)
			}
			return
		}

		if strings.Contains(class, "page_next") || strings.Contains(class, "search_next") {
			if resolved, err := resolveURL(baseURL, href); err == nil {
				p.NextBlock = resolved
			}
		}
	})

	return p
}

func resolveURL(baseURL, href string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
