package trainer

import (
	"sort"

	"github.com/subpiece/subpiece/unigram"
)

// finalize produces the exact-size output vocabulary: the three reserved
// pieces at score 0, every required character (copying its trained score, or
// injecting it just above the model minimum with a small per-injection
// penalty so injected characters stay strictly ordered), then the remaining
// trained pieces in model order up to VocabSize.
//
// The final ordering is a stable sort by descending score. Ties keep
// insertion order: reserved pieces, then required characters in rune order,
// then trained pieces in the model's iteration order. This pins down the
// final piece ids and makes finalize idempotent on its own output.
func (t *Trainer) finalize(model *unigram.Model, required map[string]struct{}) *unigram.Model {
	pieces := make([]unigram.SentencePiece, 0, t.opts.VocabSize)
	seen := make(map[string]struct{}, t.opts.VocabSize)
	add := func(piece string, score float64) {
		if _, ok := seen[piece]; ok {
			return
		}
		seen[piece] = struct{}{}
		pieces = append(pieces, unigram.SentencePiece{Piece: piece, Score: score})
	}

	add(bosPiece, 0)
	add(eosPiece, 0)
	add(unkPiece, 0)

	chars := make([]string, 0, len(required))
	for c := range required {
		chars = append(chars, c)
	}
	sort.Strings(chars)

	var penalty float64
	for _, c := range chars {
		if score, ok := model.PieceScore(c); ok {
			add(c, score)
			continue
		}
		add(c, model.MinScore()+penalty)
		penalty += minScorePenaltyDelta
	}

	for _, p := range model.Pieces() {
		if len(pieces) >= t.opts.VocabSize {
			break
		}
		add(p.Piece, p.Score)
	}

	sort.Stable(unigram.ByScoreDesc(pieces))
	return unigram.NewModel(pieces, bosID, eosID, unkID)
}
