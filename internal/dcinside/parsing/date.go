package parsing

import (
	"fmt"
	"strings"
	"time"
)

// KST is Korea Standard Time, UTC+09:00. All upstream timestamps are
// interpreted in KST regardless of the runner's local clock; parsing
// never goes through time.Local.
var KST = time.FixedZone("KST", 9*60*60)

// ParseListingDateTitle parses a keyword-mode listing row's date-cell
// title attribute, formatted "YYYY-MM-DD HH:mm:ss". Only the date
// portion is used; time is fixed to 00:00:00 KST.
func ParseListingDateTitle(title string) (time.Time, error) {
	datePart := title
	if idx := strings.IndexByte(title, ' '); idx >= 0 {
		datePart = title[:idx]
	}
	t, err := time.ParseInLocation("2006-01-02", datePart, KST)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing: invalid listing date %q: %w", title, err)
	}
	return t, nil
}

// ParseGallogDate parses a gallog-mode "span.date" value formatted
// "YYYY.MM.DD", fixed to 00:00:00 KST.
func ParseGallogDate(text string) (time.Time, error) {
	t, err := time.ParseInLocation("2006.01.02", strings.TrimSpace(text), KST)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing: invalid gallog date %q: %w", text, err)
	}
	return t, nil
}

// ParsePostDate parses a post-detail written-at timestamp, accepting
// both dot and dash separators and with-or-without seconds.
func ParsePostDate(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	normalized := strings.NewReplacer(".", "-").Replace(text)

	layouts := []string{"2006-01-02 15:04:05", "2006-01-02 15:04"}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, normalized, KST); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing: invalid post date %q", text)
}

// ParseCommentDate parses a comment's reg_date. The upstream may omit
// the year ("MM.DD HH:mm:ss"), in which case currentYear is prepended.
func ParseCommentDate(text string, currentYear int) (time.Time, error) {
	text = strings.TrimSpace(text)
	normalized := strings.NewReplacer(".", "-").Replace(text)

	fullLayouts := []string{"2006-01-02 15:04:05", "2006-01-02 15:04"}
	for _, layout := range fullLayouts {
		if t, err := time.ParseInLocation(layout, normalized, KST); err == nil {
			return t, nil
		}
	}

	// Short form: "MM-DD HH:mm:ss" or "MM-DD HH:mm" — prepend the year.
	shortLayouts := []string{"01-02 15:04:05", "01-02 15:04"}
	for _, layout := range shortLayouts {
		if t, err := time.ParseInLocation(layout, normalized, KST); err == nil {
			return time.Date(currentYear, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, KST), nil
		}
	}

	return time.Time{}, fmt.Errorf("parsing: invalid comment date %q", text)
}

// CurrentKSTYear returns the year of now, interpreted in KST. Used as
// the default year when patching short-form comment dates.
func CurrentKSTYear(now time.Time) int {
	return now.In(KST).Year()
}
