package trainer

import (
	"sort"
	"unicode/utf8"

	"github.com/subpiece/subpiece/unigram"
)

// Pruner shrinks a scored piece list toward a target size, removing the
// lowest-value pieces first. The control loop only depends on this
// contract; a pruner that cannot make progress causes the loop to stop
// rather than spin.
type Pruner interface {
	Prune(pieces []unigram.SentencePiece, target int) []unigram.SentencePiece
}

// ScorePruner keeps the highest-scored pieces up to the target size.
// Single-character pieces are always retained so every input stays
// segmentable without the unknown-piece fallback, which means the result
// can exceed the target when the corpus alphabet alone is larger than it.
type ScorePruner struct{}

// Prune implements Pruner.
func (ScorePruner) Prune(pieces []unigram.SentencePiece, target int) []unigram.SentencePiece {
	if len(pieces) <= target {
		return pieces
	}

	sorted := unigram.SentencePieces(pieces).Copy()
	sort.Stable(unigram.ByScoreDesc(sorted))

	var singles int
	for _, p := range sorted {
		if utf8.RuneCountInString(p.Piece) == 1 {
			singles++
		}
	}

	quota := target - singles
	kept := make([]unigram.SentencePiece, 0, target)
	for _, p := range sorted {
		if utf8.RuneCountInString(p.Piece) == 1 {
			kept = append(kept, p)
			continue
		}
		if quota > 0 {
			kept = append(kept, p)
			quota--
		}
	}
	return kept
}
