package unigram

import (
	"math"
	"unicode/utf8"
)

// unkPenalty is subtracted from the minimum piece score when a position in
// a lattice is not covered by any single-character piece, so that unknown
// characters are always segmentable but strongly discouraged.
const unkPenalty = 10.0

// Model is a unigram scoring model over sentence pieces. The piece order
// given at construction is preserved and is the model's stable iteration
// order; indexes into it act as piece ids for lattice nodes and expected
// count vectors.
type Model struct {
	pieces      []SentencePiece
	pieceIDs    map[string]int
	minScore    float64
	maxPieceLen int

	bosID int
	eosID int
	unkID int
}

// NewModel builds a model from an ordered piece list plus the three
// reserved-token ids.
func NewModel(pieces []SentencePiece, bosID, eosID, unkID int) *Model {
	m := &Model{
		pieces:   copyPieces(pieces),
		pieceIDs: make(map[string]int, len(pieces)),
		minScore: math.Inf(1),
		bosID:    bosID,
		eosID:    eosID,
		unkID:    unkID,
	}
	for i, p := range m.pieces {
		if _, ok := m.pieceIDs[p.Piece]; !ok {
			m.pieceIDs[p.Piece] = i
		}
		if n := utf8.RuneCountInString(p.Piece); n > m.maxPieceLen {
			m.maxPieceLen = n
		}
		if p.Score < m.minScore {
			m.minScore = p.Score
		}
	}
	if len(m.pieces) == 0 {
		m.minScore = 0
	}
	return m
}

// Len returns the number of pieces.
func (m *Model) Len() int {
	return len(m.pieces)
}

// MinScore returns the minimum score across all pieces.
func (m *Model) MinScore() float64 {
	return m.minScore
}

// Pieces returns a copy of the pieces in the model's stable iteration order.
func (m *Model) Pieces() []SentencePiece {
	return copyPieces(m.pieces)
}

// PieceScore looks up the score of a piece by its string.
func (m *Model) PieceScore(piece string) (float64, bool) {
	id, ok := m.pieceIDs[piece]
	if !ok {
		return 0, false
	}
	return m.pieces[id].Score, true
}

// PopulateNodes inserts a lattice node for every piece that matches the
// lattice's sentence at every position. Positions not covered by any
// single-character piece receive an unknown-piece node so that the lattice
// always admits at least one segmentation.
func (m *Model) PopulateNodes(lattice *Lattice) {
	sentence := lattice.sentence
	unkScore := m.minScore - unkPenalty
	for pos := 0; pos < len(sentence); pos++ {
		var hasSingle bool
		for length := 1; length <= m.maxPieceLen && pos+length <= len(sentence); length++ {
			id, ok := m.pieceIDs[string(sentence[pos:pos+length])]
			if !ok {
				continue
			}
			lattice.Insert(pos, length, m.pieces[id].Score, id)
			if length == 1 {
				hasSingle = true
			}
		}
		if !hasSingle {
			lattice.Insert(pos, 1, unkScore, m.unkID)
		}
	}
}
