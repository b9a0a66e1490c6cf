package parsing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hanaul/dc-harvester/internal/dcinside"
)

// PostDetail is everything extracted from a post view page.
type PostDetail struct {
	PostNo     string
	ESNO       string // opaque token required by the comments API
	Title      string
	Contents   string
	Writer     *string
	WriterID   *string
	WriterIP   *string
	WrittenAt  string // raw text, normalize with ParsePostDate
	LikeCnt    int
	DislikeCnt *int
	CommentCnt int
}

var trailingIntRe = regexp.MustCompile(`[\d,]+\s*$`)

// ParsePostDetail parses a DCInside post view page.
func ParsePostDetail(htmlBody string) (PostDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return PostDetail{}, fmt.Errorf("%w: %v", dcinside.ErrParse, err)
	}

	form := doc.Find("form#_view_form_").First()
	if form.Length() == 0 {
		return PostDetail{}, fmt.Errorf("%w: missing view form", dcinside.ErrParse)
	}

	postNo, ok := form.Find("input#no").First().Attr("value")
	if !ok || postNo == "" {
		return PostDetail{}, fmt.Errorf("%w: missing post number", dcinside.ErrParse)
	}
	esno, _ := form.Find("input#e_s_n_o").First().Attr("value")

	writerBox := doc.Find(".gallview_head, .writer_info").First()
	nick := attrPtr(writerBox, "data-nick")
	uid := attrPtr(writerBox, "data-uid")
	ip := attrPtr(writerBox, "data-ip")

	title := strings.TrimSpace(doc.Find(".title_subject").First().Text())
	bodyHTML, err := doc.Find(".write_div").First().Html()
	var contents string
	if err == nil {
		contents, _ = StripHTML(bodyHTML)
	}

	writtenAt := strings.TrimSpace(doc.Find(".gall_date").First().AttrOr("title", doc.Find(".gall_date").First().Text()))

	likeCnt := parseTrailingInt(doc.Find(fmt.Sprintf("p#recommend_view_up_%s", postNo)).Text())

	var dislikeCnt *int
	if sel := doc.Find(fmt.Sprintf("p#recommend_view_down_%s", postNo)); sel.Length() > 0 {
		n := parseTrailingInt(sel.Text())
		dislikeCnt = &n
	}

	commentCnt := parseTrailingInt(doc.Find("span.gall_comment").Text())

	return PostDetail{
		PostNo:     postNo,
		ESNO:       esno,
		Title:      title,
		Contents:   contents,
		Writer:     nick,
		WriterID:   uid,
		WriterIP:   ip,
		WrittenAt:  writtenAt,
		LikeCnt:    likeCnt,
		DislikeCnt: dislikeCnt,
		CommentCnt: commentCnt,
	}, nil
}

func attrPtr(sel *goquery.Selection, attr string) *string {
	v, ok := sel.Attr(attr)
	if !ok || v == "" {
		return nil
	}
	return &v
}

// parseTrailingInt extracts the trailing integer of a string like
// "댓글 1,234" or "추천 5", stripping thousands separators.
func parseTrailingInt(text string) int {
	match := trailingIntRe.FindString(text)
	match = strings.TrimSpace(strings.ReplaceAll(match, ",", ""))
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return n
}
