// Package fingerprint computes a content-addressed CID over a
// canonical snapshot of a post; comments are not fingerprinted. It
// never participates in
// identity or dedup; the rehydrate phase uses it only to skip a
// redundant comment-count update when nothing actually changed.
package fingerprint

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"github.com/hanaul/dc-harvester/internal/model"
)

type postSnapshot struct {
	Title      string `json:"title"`
	Contents   string `json:"contents"`
	LikeCnt    int    `json:"likeCnt"`
	DislikeCnt *int   `json:"dislikeCnt"`
	CommentCnt int    `json:"commentCnt"`
}

// OfPost computes the CID of a post's mutable fields.
func OfPost(p *model.Post) (cid.Cid, error) {
	return ofJSON(postSnapshot{
		Title:      p.Title,
		Contents:   p.Contents,
		LikeCnt:    p.LikeCnt,
		DislikeCnt: p.DislikeCnt,
		CommentCnt: p.CommentCnt,
	})
}

func ofJSON(v interface{}) (cid.Cid, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return cid.Undef, fmt.Errorf("fingerprint: marshal snapshot: %w", err)
	}

	sum := sha256.Sum256(data)
	mh, err := multihash.Encode(sum[:], multihash.SHA2_256)
	if err != nil {
		return cid.Undef, fmt.Errorf("fingerprint: encode multihash: %w", err)
	}

	return cid.NewCidV1(cid.Raw, mh), nil
}
