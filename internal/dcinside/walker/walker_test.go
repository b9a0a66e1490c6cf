package walker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanaul/dc-harvester/internal/model"
)

type mockFetcher struct {
	pages map[string]string
	calls []string
}

func (f *mockFetcher) Get(_ context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	body, ok := f.pages[url]
	if !ok {
		return nil, nil
	}
	return []byte(body), nil
}

type mockRepo struct {
	existing map[string]bool
}

func (r *mockRepo) FindPostByPlatformID(_ context.Context, _ model.Scenario, platformPostID string) (*model.Post, error) {
	if r.existing[platformPostID] {
		return &model.Post{PlatformPostID: platformPostID}, nil
	}
	return nil, nil
}
func (r *mockRepo) InsertPost(context.Context, model.PostInput) (*model.Post, error) { return nil, nil }
func (r *mockRepo) UpdatePostCommentCount(context.Context, int64, int) error         { return nil }
func (r *mockRepo) ListRecentPosts(context.Context, model.Scenario, time.Time) ([]model.LeanPost, error) {
	return nil, nil
}
func (r *mockRepo) InsertCommentsBulk(context.Context, []model.CommentInput) error { return nil }
func (r *mockRepo) CommentExists(context.Context, model.Scenario, string) (bool, error) {
	return false, nil
}

const listingPageNoNext = `
<html><body>
<table class="gall_list"><tbody>
<tr><td class="gall_num">101</td><td class="gall_tit"><a href="/board/view?id=pro&no=101">a</a></td><td class="gall_date" title="2025-08-20 00:00:00">x</td></tr>
<tr><td class="gall_num">100</td><td class="gall_tit"><a href="/board/view?id=pro&no=100">b</a></td><td class="gall_date" title="2025-08-19 00:00:00">x</td></tr>
<tr><td class="gall_num">99</td><td class="gall_tit"><a href="/board/view?id=pro&no=99">c</a></td><td class="gall_date" title="2025-08-18 00:00:00">x</td></tr>
</tbody></table>
<div class="bottom_paging_box iconpaging"></div>
</body></html>
`

func TestWalk_IncrementalBoundary(t *testing.T) {
	start := "https://gall.dcinside.com/board/lists/?id=pro"
	fetcher := &mockFetcher{pages: map[string]string{start: listingPageNoNext}}
	repo := &mockRepo{existing: map[string]bool{"DC&G&pro&100": true}}

	w := New(fetcher, repo, nil)
	ids, err := w.Walk(context.Background(), model.Scenario("s1"), model.ModeKeyword, start, nil)
	require.NoError(t, err)

	slice := ids.Slice()
	require.Len(t, slice, 1)
	assert.Equal(t, "DC&G&pro&101", slice[0])
	assert.Equal(t, 1, w.PagesWalked)
}

func TestWalk_DateCutoff(t *testing.T) {
	start := "https://gall.dcinside.com/board/lists/?id=pro"
	fetcher := &mockFetcher{pages: map[string]string{start: listingPageNoNext}}
	repo := &mockRepo{existing: map[string]bool{}}

	dateFrom := time.Date(2025, 8, 19, 0, 0, 0, 0, time.FixedZone("KST", 9*60*60))
	w := New(fetcher, repo, nil)
	ids, err := w.Walk(context.Background(), model.Scenario("s1"), model.ModeKeyword, start, &dateFrom)
	require.NoError(t, err)

	slice := ids.Slice()
	require.Len(t, slice, 2)
	assert.Equal(t, "DC&G&pro&101", slice[0])
	assert.Equal(t, "DC&G&pro&100", slice[1])
}

func TestWalk_CancellationStopsPromptly(t *testing.T) {
	start := "https://gall.dcinside.com/board/lists/?id=pro"
	fetcher := &mockFetcher{pages: map[string]string{start: listingPageNoNext}}
	repo := &mockRepo{existing: map[string]bool{}}

	w := New(fetcher, repo, func() bool { return true })
	ids, err := w.Walk(context.Background(), model.Scenario("s1"), model.ModeKeyword, start, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, ids.Len())
}
