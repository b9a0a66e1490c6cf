// Package urlcodec provides the bidirectional mapping between a
// DCInside gallery post URL and its stable platform post ID, of the
// form "DC&<gallType>&<galleryId>&<postNo>".
package urlcodec

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hanaul/dc-harvester/internal/dcinside"
	"github.com/hanaul/dc-harvester/internal/model"
)

// CanonicalHost is the host every DCInside platform URL resolves against.
const CanonicalHost = "gall.dcinside.com"

// prefix maps a GalleryType to the path prefix used to view a post of
// that type, and vice versa for decoding.
var viewPrefixByType = map[model.GalleryType]string{
	model.GalleryMajor:   "/mgallery/board/view",
	model.GalleryMini:    "/mini/board/view",
	model.GalleryGeneral: "/board/view",
}

// ExtractGalleryInfo inspects a gallery URL's path prefix and query
// string and returns its structured decomposition. `id` is mandatory;
// `no` is optional (absent for listing URLs).
func ExtractGalleryInfo(rawURL string) (model.GalleryInfo, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return model.GalleryInfo{}, fmt.Errorf("%w: %v", dcinside.ErrInvalidURL, err)
	}

	var gallType model.GalleryType
	switch {
	case strings.HasPrefix(u.Path, "/mgallery/"):
		gallType = model.GalleryMajor
	case strings.HasPrefix(u.Path, "/mini/"):
		gallType = model.GalleryMini
	case strings.HasPrefix(u.Path, "/board/"):
		gallType = model.GalleryGeneral
	default:
		return model.GalleryInfo{}, fmt.Errorf("%w: unrecognized path prefix %q", dcinside.ErrInvalidURL, u.Path)
	}

	q := u.Query()
	galleryID := q.Get("id")
	if galleryID == "" {
		return model.GalleryInfo{}, fmt.Errorf("%w: missing gallery id in %q", dcinside.ErrInvalidURL, rawURL)
	}

	return model.GalleryInfo{
		GallType:  gallType,
		GalleryID: galleryID,
		PostNo:    q.Get("no"),
	}, nil
}

// UrlToPlatformID derives the stable platform post ID from a post view
// URL. Fails if the URL has no post number.
func UrlToPlatformID(rawURL string) (string, error) {
	info, err := ExtractGalleryInfo(rawURL)
	if err != nil {
		return "", err
	}
	if info.PostNo == "" {
		return "", fmt.Errorf("%w: missing post number in %q", dcinside.ErrInvalidURL, rawURL)
	}
	return fmt.Sprintf("DC&%s&%s&%s", info.GallType, info.GalleryID, info.PostNo), nil
}

// PlatformIDToURL reconstructs a canonical post view URL from a
// platform post ID.
func PlatformIDToURL(platformID string) (string, error) {
	parts := strings.Split(platformID, "&")
	if len(parts) != 4 || parts[0] != "DC" {
		return "", fmt.Errorf("%w: malformed platform id %q", dcinside.ErrInvalidURL, platformID)
	}
	gallType := model.GalleryType(parts[1])
	galleryID := parts[2]
	postNo := parts[3]

	prefix, ok := viewPrefixByType[gallType]
	if !ok {
		return "", fmt.Errorf("%w: unknown gallery type %q", dcinside.ErrInvalidURL, parts[1])
	}

	v := url.Values{}
	v.Set("id", galleryID)
	v.Set("no", postNo)
	return fmt.Sprintf("https://%s%s?%s", CanonicalHost, prefix, v.Encode()), nil
}

// CommentPlatformID builds a PlatformCommentId from a post's platform
// ID and an upstream comment number.
func CommentPlatformID(postPlatformID, commentNo string) string {
	return postPlatformID + "&" + commentNo
}
