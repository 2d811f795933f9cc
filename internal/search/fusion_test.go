package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanadlabs/sanad/internal/store"
)

func chunks(ids ...string) []store.Chunk {
	out := make([]store.Chunk, len(ids))
	for i, id := range ids {
		out[i] = store.Chunk{ID: id, Text: "text " + id}
	}
	return out
}

func TestFuseRRF_OverlapOutranksSingleList(t *testing.T) {
	// With k=1: B = 1/3 + 1/2 ≈ 0.833, A = 1/2, C = 1/3.
	fused := fuseRRF(chunks("A", "B"), chunks("B", "C"), 1)
	require.Len(t, fused, 3)

	assert.Equal(t, "B", fused[0].Chunk.ID)
	assert.Equal(t, "A", fused[1].Chunk.ID)
	assert.Equal(t, "C", fused[2].Chunk.ID)

	assert.InDelta(t, 1.0/3+1.0/2, fused[0].Score, 1e-9)
	assert.InDelta(t, 1.0/2, fused[1].Score, 1e-9)
	assert.InDelta(t, 1.0/3, fused[2].Score, 1e-9)

	assert.True(t, fused[0].InSemantic)
	assert.True(t, fused[0].InLexical)
	assert.True(t, fused[1].InSemantic)
	assert.False(t, fused[1].InLexical)
	assert.False(t, fused[2].InSemantic)
	assert.True(t, fused[2].InLexical)
}

func TestFuseRRF_TiesKeepFirstSeenOrder(t *testing.T) {
	// Same ranks in both lists give identical scores; semantic list
	// entries come first.
	fused := fuseRRF(chunks("A"), chunks("B"), DefaultRRFConstant)
	require.Len(t, fused, 2)
	assert.Equal(t, "A", fused[0].Chunk.ID)
	assert.Equal(t, "B", fused[1].Chunk.ID)
	assert.Equal(t, fused[0].Score, fused[1].Score)
}

func TestFuseRRF_EmptyLists(t *testing.T) {
	assert.Empty(t, fuseRRF(nil, nil, DefaultRRFConstant))

	fused := fuseRRF(chunks("A"), nil, DefaultRRFConstant)
	require.Len(t, fused, 1)
	assert.Equal(t, "A", fused[0].Chunk.ID)
}

func TestFuseRRF_ScoresDecreaseWithRank(t *testing.T) {
	fused := fuseRRF(chunks("A", "B", "C", "D"), nil, DefaultRRFConstant)
	require.Len(t, fused, 4)
	for i := 1; i < len(fused); i++ {
		assert.Greater(t, fused[i-1].Score, fused[i].Score)
	}
}

func TestFuseRRF_NonPositiveConstantUsesDefault(t *testing.T) {
	fused := fuseRRF(chunks("A"), nil, 0)
	require.Len(t, fused, 1)
	assert.InDelta(t, 1.0/(DefaultRRFConstant+1), fused[0].Score, 1e-9)
}
