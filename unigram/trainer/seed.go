package trainer

import (
	"sort"

	"github.com/subpiece/subpiece/mathutil"
	"github.com/subpiece/subpiece/unigram"
)

// sentinel separates words in the flat buffer the suffix array is built
// over; it never occurs in natural text, so substrings spanning a word
// boundary contain it and can be discarded.
const sentinel = '\x00'

// requiredChars returns every character appearing anywhere in the corpus.
// All of them must survive into the final vocabulary so any input remains
// segmentable.
func requiredChars(wordCounts map[string]int) map[string]struct{} {
	chars := make(map[string]struct{})
	for w := range wordCounts {
		for _, r := range w {
			chars[string(r)] = struct{}{}
		}
	}
	return chars
}

// isValidPiece is the candidate validity predicate. Length is currently the
// only check; embedded-whitespace and script-consistency filters are an
// extension point.
func (t *Trainer) isValidPiece(length int) bool {
	return length >= 1 && length <= t.opts.MaxPieceLength
}

// makeSeedPieces builds the initial over-sized candidate set: every corpus
// character scored by its count, plus every repeated substring scored by
// count times length, normalized to log probabilities.
func (t *Trainer) makeSeedPieces(sentences []sentence) []unigram.SentencePiece {
	var total int
	for _, s := range sentences {
		total += len([]rune(s.text)) + 1
	}

	flat := make([]rune, 0, total)
	charCounts := make(map[rune]int)
	for _, s := range sentences {
		for _, r := range s.text {
			flat = append(flat, r)
			if r != sentinel {
				charCounts[r]++
			}
		}
		flat = append(flat, sentinel)
	}

	type charCount struct {
		r     rune
		count int
	}
	chars := make([]charCount, 0, len(charCounts))
	for r, c := range charCounts {
		chars = append(chars, charCount{r: r, count: c})
	}
	sort.Slice(chars, func(i, j int) bool {
		if chars[i].count != chars[j].count {
			return chars[i].count > chars[j].count
		}
		return chars[i].r > chars[j].r
	})

	type scoredSubstr struct {
		text  string
		score int
	}
	var substrs []scoredSubstr
	for _, sf := range repeatedSubstrings(flat) {
		if sf.length <= 1 {
			// single characters are seeded from charCounts
			continue
		}
		if !t.isValidPiece(sf.length) {
			continue
		}
		span := flat[sf.start : sf.start+sf.length]
		if containsRune(span, sentinel) {
			continue
		}
		substrs = append(substrs, scoredSubstr{text: string(span), score: sf.count * sf.length})
	}
	sort.Slice(substrs, func(i, j int) bool {
		if substrs[i].score != substrs[j].score {
			return substrs[i].score > substrs[j].score
		}
		return substrs[i].text > substrs[j].text
	})

	seed := make([]unigram.SentencePiece, 0, len(chars)+len(substrs))
	for _, c := range chars {
		seed = append(seed, unigram.SentencePiece{Piece: string(c.r), Score: float64(c.count)})
	}
	for _, s := range substrs {
		seed = append(seed, unigram.SentencePiece{Piece: s.text, Score: float64(s.score)})
		if len(seed) >= t.opts.SeedSize {
			break
		}
	}

	toLogProbs(seed)
	return seed
}

// toLogProbs normalizes raw positive piece scores to log probabilities.
func toLogProbs(pieces []unigram.SentencePiece) {
	scores := make([]float64, len(pieces))
	for i, p := range pieces {
		scores[i] = p.Score
	}
	mathutil.ToLogProbs(scores)
	for i := range pieces {
		pieces[i].Score = scores[i]
	}
}

func containsRune(runes []rune, r rune) bool {
	for _, c := range runes {
		if c == r {
			return true
		}
	}
	return false
}
