package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanaul/dc-harvester/internal/model"
)

func TestOfPost_StableAcrossEqualSnapshots(t *testing.T) {
	a := &model.Post{Title: "t", Contents: "c", LikeCnt: 3, CommentCnt: 1}
	b := &model.Post{Title: "t", Contents: "c", LikeCnt: 3, CommentCnt: 1, URL: "unrelated"}

	fpA, err := OfPost(a)
	require.NoError(t, err)
	fpB, err := OfPost(b)
	require.NoError(t, err)

	assert.Equal(t, fpA.String(), fpB.String())
}

func TestOfPost_ChangesWithContent(t *testing.T) {
	a := &model.Post{Title: "t", Contents: "c", LikeCnt: 3}
	b := &model.Post{Title: "t", Contents: "c", LikeCnt: 4}

	fpA, err := OfPost(a)
	require.NoError(t, err)
	fpB, err := OfPost(b)
	require.NoError(t, err)

	assert.NotEqual(t, fpA.String(), fpB.String())
}
