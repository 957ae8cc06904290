package unigram

// SentencePiece is a vocabulary entry: a piece of text together with its
// score. During training the score is a log-probability-like quantity; it is
// only guaranteed to be a normalized log probability immediately after seed
// construction.
type SentencePiece struct {
	Piece string
	Score float64
}

// SentencePieces is a list of SentencePiece.
type SentencePieces []SentencePiece

// Copy returns a copy of the list.
func (s SentencePieces) Copy() []SentencePiece {
	return copyPieces(s)
}

// ByScoreDesc implements sort.Interface to order pieces by descending
// score. It is intentionally not a total order: equal scores compare equal,
// so a stable sort preserves the input order among ties.
type ByScoreDesc []SentencePiece

// Len implements sort.Interface
func (s ByScoreDesc) Len() int { return len(s) }

// Less implements sort.Interface
func (s ByScoreDesc) Less(i, j int) bool { return s[i].Score > s[j].Score }

// Swap implements sort.Interface
func (s ByScoreDesc) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

func copyPieces(pieces []SentencePiece) []SentencePiece {
	dest := make([]SentencePiece, len(pieces))
	copy(dest, pieces)
	return dest
}
