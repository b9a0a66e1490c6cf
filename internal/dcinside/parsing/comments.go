package parsing

import (
	"encoding/json"
	"fmt"

	"github.com/hanaul/dc-harvester/internal/dcinside"
)

// CommentItem is one row of the comments API response.
type CommentItem struct {
	No      string `json:"no"`
	DelYN   string `json:"del_yn"`
	Memo    string `json:"memo"`
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	IP      string `json:"ip"`
	RegDate string `json:"reg_date"`
}

// IsDeleted reports whether this item is a soft-deleted comment.
func (c CommentItem) IsDeleted() bool {
	return c.DelYN == "Y"
}

// IsControlRow reports whether this item carries no comment number —
// a non-comment control row that must never be persisted.
func (c CommentItem) IsControlRow() bool {
	return c.No == ""
}

type commentsObjectForm struct {
	Comments []CommentItem `json:"comments"`
}

// ParseCommentResponse parses the comments API response body. The
// upstream is assumed to wrap items in {"comments": [...]}, but a
// defensive fallback also accepts a bare JSON array.
func ParseCommentResponse(body []byte) ([]CommentItem, error) {
	var wrapped commentsObjectForm
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Comments != nil {
		return wrapped.Comments, nil
	}

	var bare []CommentItem
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	return nil, fmt.Errorf("%w: unrecognized comment response shape", dcinside.ErrParse)
}
