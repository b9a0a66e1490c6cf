package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postDetailHTML = `
<html><body>
<form id="_view_form_">
	<input id="no" value="1234">
	<input id="e_s_n_o" value="opaque-token-abc">
</form>
<div class="gallview_head" data-nick="anon" data-uid="" data-ip="1.2.*.*"></div>
<h3 class="title_subject">Hello title</h3>
<div class="write_div"><p>Line one</p><br><p>Line two</p></div>
<p class="gall_date" title="2025.08.15 13:00:00">08.15</p>
<p id="recommend_view_up_1234">추천 12</p>
<span class="gall_comment">댓글 1,234</span>
</body></html>
`

func TestParsePostDetail(t *testing.T) {
	d, err := ParsePostDetail(postDetailHTML)
	require.NoError(t, err)
	assert.Equal(t, "1234", d.PostNo)
	assert.Equal(t, "opaque-token-abc", d.ESNO)
	assert.Equal(t, "Hello title", d.Title)
	assert.Contains(t, d.Contents, "Line one")
	assert.Contains(t, d.Contents, "Line two")
	require.NotNil(t, d.Writer)
	assert.Equal(t, "anon", *d.Writer)
	assert.Nil(t, d.WriterID)
	require.NotNil(t, d.WriterIP)
	assert.Equal(t, 12, d.LikeCnt)
	assert.Nil(t, d.DislikeCnt)
	assert.Equal(t, 1234, d.CommentCnt)
}

func TestParsePostDetail_MissingForm(t *testing.T) {
	_, err := ParsePostDetail("<html><body>nothing here</body></html>")
	assert.Error(t, err)
}
