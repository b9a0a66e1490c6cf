package urlcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanaul/dc-harvester/internal/dcinside"
	"github.com/hanaul/dc-harvester/internal/model"
)

func TestUrlToPlatformID_RoundTrip(t *testing.T) {
	cases := []struct {
		name string
		url  string
		id   string
	}{
		{"major gallery", "https://gall.dcinside.com/mgallery/board/view?id=programming&no=42", "DC&M&programming&42"},
		{"mini gallery", "https://gall.dcinside.com/mini/board/view?id=foo&no=7", "DC&MI&foo&7"},
		{"general gallery", "https://gall.dcinside.com/board/view?id=bar&no=100", "DC&G&bar&100"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := UrlToPlatformID(tc.url)
			require.NoError(t, err)
			assert.Equal(t, tc.id, id)

			backURL, err := PlatformIDToURL(id)
			require.NoError(t, err)

			info1, err := ExtractGalleryInfo(tc.url)
			require.NoError(t, err)
			info2, err := ExtractGalleryInfo(backURL)
			require.NoError(t, err)
			assert.Equal(t, info1, info2)
		})
	}
}

func TestExtractGalleryInfo_InvalidPrefix(t *testing.T) {
	_, err := ExtractGalleryInfo("https://gall.dcinside.com/unknown/view?id=x&no=1")
	assert.ErrorIs(t, err, dcinside.ErrInvalidURL)
}

func TestExtractGalleryInfo_MissingID(t *testing.T) {
	_, err := ExtractGalleryInfo("https://gall.dcinside.com/board/view?no=1")
	assert.ErrorIs(t, err, dcinside.ErrInvalidURL)
}

func TestExtractGalleryInfo_ListingURLNoPostNo(t *testing.T) {
	info, err := ExtractGalleryInfo("https://gall.dcinside.com/board/lists/?id=programming")
	require.NoError(t, err)
	assert.Equal(t, model.GalleryGeneral, info.GallType)
	assert.Equal(t, "programming", info.GalleryID)
	assert.Equal(t, "", info.PostNo)
}

func TestCommentPlatformID(t *testing.T) {
	assert.Equal(t, "DC&G&bar&100&55", CommentPlatformID("DC&G&bar&100", "55"))
}
