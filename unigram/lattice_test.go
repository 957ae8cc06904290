package unigram

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPieces() []SentencePiece {
	return []SentencePiece{
		{Piece: "<bos>", Score: 0},
		{Piece: "<eos>", Score: 0},
		{Piece: "<unk>", Score: 0},
		{Piece: "a", Score: -0.7},
		{Piece: "b", Score: -0.9},
		{Piece: "ab", Score: -1.2},
	}
}

func Test_LatticeMarginal(t *testing.T) {
	model := NewModel(testPieces(), 0, 1, 2)

	lattice := NewLattice("ab", 0, 1, 2)
	model.PopulateNodes(lattice)

	expected := make([]float64, model.Len())
	z := lattice.PopulateMarginal(1.0, expected)

	// two segmentations: a+b with log prob -1.6, ab with log prob -1.2
	pSplit := math.Exp(-1.6)
	pWhole := math.Exp(-1.2)
	wantZ := math.Log(pSplit + pWhole)
	assert.InDelta(t, wantZ, z, 1e-9)

	assert.InDelta(t, pSplit/(pSplit+pWhole), expected[3], 1e-9, "a")
	assert.InDelta(t, pSplit/(pSplit+pWhole), expected[4], 1e-9, "b")
	assert.InDelta(t, pWhole/(pSplit+pWhole), expected[5], 1e-9, "ab")
	assert.Zero(t, expected[0])
	assert.Zero(t, expected[1])
	assert.Zero(t, expected[2])

	for _, e := range expected {
		assert.True(t, e >= 0, "expected counts are non-negative")
	}
}

func Test_LatticeMarginalFrequencyWeight(t *testing.T) {
	model := NewModel(testPieces(), 0, 1, 2)

	single := make([]float64, model.Len())
	latticeOne := NewLattice("ab", 0, 1, 2)
	model.PopulateNodes(latticeOne)
	zOne := latticeOne.PopulateMarginal(1.0, single)

	weighted := make([]float64, model.Len())
	latticeThree := NewLattice("ab", 0, 1, 2)
	model.PopulateNodes(latticeThree)
	zThree := latticeThree.PopulateMarginal(3.0, weighted)

	assert.InDelta(t, 3*zOne, zThree, 1e-9)
	for i := range single {
		assert.InDelta(t, 3*single[i], weighted[i], 1e-9, "piece %d", i)
	}
}

func Test_LatticeViterbi(t *testing.T) {
	model := NewModel(testPieces(), 0, 1, 2)

	lattice := NewLattice("ab", 0, 1, 2)
	model.PopulateNodes(lattice)

	// ab at -1.2 beats a+b at -1.6
	require.Equal(t, []string{"ab"}, lattice.Viterbi())

	lattice = NewLattice("aab", 0, 1, 2)
	model.PopulateNodes(lattice)
	require.Equal(t, []string{"a", "ab"}, lattice.Viterbi())
}

func Test_LatticeEmptySentence(t *testing.T) {
	model := NewModel(testPieces(), 0, 1, 2)

	lattice := NewLattice("", 0, 1, 2)
	model.PopulateNodes(lattice)

	expected := make([]float64, model.Len())
	z := lattice.PopulateMarginal(1.0, expected)
	assert.Zero(t, z)
	assert.Empty(t, lattice.Viterbi())
}
