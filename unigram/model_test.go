package unigram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ModelBasics(t *testing.T) {
	model := NewModel(testPieces(), 0, 1, 2)

	require.Equal(t, 6, model.Len())
	assert.Equal(t, -1.2, model.MinScore())

	score, ok := model.PieceScore("ab")
	require.True(t, ok)
	assert.Equal(t, -1.2, score)

	_, ok = model.PieceScore("zz")
	assert.False(t, ok)

	// iteration order is the construction order
	pieces := model.Pieces()
	require.Len(t, pieces, 6)
	assert.Equal(t, "<bos>", pieces[0].Piece)
	assert.Equal(t, "ab", pieces[5].Piece)

	// Pieces returns a copy
	pieces[0].Piece = "mutated"
	assert.Equal(t, "<bos>", model.Pieces()[0].Piece)
}

func Test_ModelUnknownFallback(t *testing.T) {
	model := NewModel(testPieces(), 0, 1, 2)

	// "x" is not in the vocabulary: the model inserts an unknown node so
	// the lattice still admits a segmentation
	lattice := NewLattice("axb", 0, 1, 2)
	model.PopulateNodes(lattice)

	require.Equal(t, []string{"a", "x", "b"}, lattice.Viterbi())

	expected := make([]float64, model.Len())
	z := lattice.PopulateMarginal(1.0, expected)
	assert.False(t, z > 0, "log-partition of penalized path stays negative")
	assert.InDelta(t, 1.0, expected[2], 1e-9, "unknown usage credited to the unk id")
}

func Test_ModelEmpty(t *testing.T) {
	model := NewModel(nil, 0, 1, 2)
	require.Equal(t, 0, model.Len())
	assert.Equal(t, 0.0, model.MinScore())
}
