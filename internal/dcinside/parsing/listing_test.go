package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanaul/dc-harvester/internal/model"
)

const keywordListingHTML = `
<html><body>
<table class="gall_list"><tbody>
<tr>
	<td class="gall_num">공지</td>
	<td class="gall_tit"><a href="/board/view?id=pro&no=9999">notice row</a></td>
	<td class="gall_date" title="2025-09-01 00:00:00">09.01</td>
</tr>
<tr>
	<td class="gall_num">1234</td>
	<td class="gall_tit"><a href="/board/view?id=pro&no=1234">first</a></td>
	<td class="gall_date" title="2025-08-15 00:00:00">08.15</td>
</tr>
<tr>
	<td class="gall_num">5678</td>
	<td class="gall_tit"><a href="/board/view?id=pro&no=5678">second</a></td>
	<td class="gall_date" title="2025-08-01 00:00:00">08.01</td>
</tr>
</tbody></table>
<div class="bottom_paging_box iconpaging">
	<a href="/board/lists/?id=pro&page=1">1</a>
	<a href="/board/lists/?id=pro&page=2">2</a>
	<a class="page_next" href="/board/lists/?id=pro&page=3">next</a>
</div>
</body></html>
`

func TestParseListingPage_NoticeFilter(t *testing.T) {
	page, err := ParseListingPage(keywordListingHTML, model.ModeKeyword, "https://gall.dcinside.com")
	require.NoError(t, err)
	require.Len(t, page.Rows, 2)
	assert.Contains(t, page.Rows[0].URL, "no=1234")
	assert.Contains(t, page.Rows[1].URL, "no=5678")
}

func TestParseListingPage_Pagination(t *testing.T) {
	page, err := ParseListingPage(keywordListingHTML, model.ModeKeyword, "https://gall.dcinside.com")
	require.NoError(t, err)
	assert.Len(t, page.Pagination.PageLinks, 2)
	assert.Contains(t, page.Pagination.NextBlock, "page=3")
}

const gallogListingHTML = `
<html><body>
<div class="cont_box">
<div class="bottom_paging_box iconpaging">
	<a class="search_next" href="/mini/board/view?id=u&no=5&posting&page=2">next</a>
</div>
</div>
<ul class="cont_listbox">
<li data-no="1"><a href="/board/view?id=u&no=1">one</a><span class="date">2025.07.10</span></li>
<li><a href="/board/view?id=u&no=2">two</a><span class="date">2025.07.09</span></li>
</ul>
</body></html>
`

func TestParseListingPage_GallogMode(t *testing.T) {
	page, err := ParseListingPage(gallogListingHTML, model.ModeGallog, "https://gall.dcinside.com")
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Contains(t, page.Rows[0].URL, "no=1")
	assert.Equal(t, "/mini/board/view?id=u&no=5&posting&page=2", mustParseHref(t, page.Pagination.NextBlock))
}

func mustParseHref(t *testing.T, resolved string) string {
	t.Helper()
	const base = "https://gall.dcinside.com"
	return resolved[len(base):]
}
