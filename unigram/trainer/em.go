package trainer

import (
	"math"

	"github.com/subpiece/subpiece/errors"
	"github.com/subpiece/subpiece/mathutil"
	"github.com/subpiece/subpiece/unigram"
	"github.com/subpiece/subpiece/workerpool"
)

// expectedFrequencyThreshold is the minimum expected count a piece must
// reach in the E-step to survive the following M-step.
const expectedFrequencyThreshold = 0.5

// eStepPartial is one worker's share of the E-step: objective and token
// count contributions plus a private expected-count vector.
type eStepPartial struct {
	objective float64
	tokens    int
	expected  []float64
}

// runEStep computes per-piece expected usage over the corpus along with the
// EM objective (average negative log-likelihood per occurrence) and a
// Viterbi token count used only as a diagnostic. Words are fanned out over
// the pool; each job owns its lattices and partial results.
func (t *Trainer) runEStep(pool *workerpool.Pool, model *unigram.Model, sentences []sentence, totalCount int) (float64, int, []float64, error) {
	chunks := chunkSentences(sentences, t.opts.Concurrency)

	// each job owns one slot; the reduce below runs in chunk order so the
	// floating point accumulation is identical from run to run
	partials := make([]eStepPartial, len(chunks))

	jobs := make([]workerpool.Job, 0, len(chunks))
	for i, chunk := range chunks {
		i, chunk := i, chunk
		jobs = append(jobs, func() error {
			p := eStepPartial{expected: make([]float64, model.Len())}
			for _, s := range chunk {
				lattice := unigram.NewLattice(s.text, bosID, eosID, unkID)
				model.PopulateNodes(lattice)

				z := lattice.PopulateMarginal(float64(s.count), p.expected)
				if math.IsNaN(z) {
					return NumericError{Word: s.text}
				}

				p.tokens += len(lattice.Viterbi())
				p.objective -= z / float64(totalCount)
			}
			partials[i] = p
			return nil
		})
	}

	pool.AddBlocking(jobs)
	if err := pool.Wait(); err != nil {
		if errs, ok := err.(errors.Errors); ok {
			err = errs.Slice()[0]
		}
		return 0, 0, nil, err
	}

	expected := make([]float64, model.Len())
	var objective float64
	var numTokens int
	for _, p := range partials {
		objective += p.objective
		numTokens += p.tokens
		for i, e := range p.expected {
			expected[i] += e
		}
	}
	return objective, numTokens, expected, nil
}

// runMStep drops pieces whose expected count fell below the significance
// threshold and re-scores the survivors with digamma smoothing. This is the
// Bayesianified/DP-ified EM update rather than plain MLE renormalization:
// it acts as a sparse prior, shrinking rare pieces faster.
func (t *Trainer) runMStep(pieces []unigram.SentencePiece, expected []float64) ([]unigram.SentencePiece, error) {
	if len(pieces) != len(expected) {
		return nil, SizeMismatchError{Pieces: len(pieces), Expected: len(expected)}
	}

	kept := make([]unigram.SentencePiece, 0, len(pieces))
	var sum float64
	for i, p := range pieces {
		if expected[i] < expectedFrequencyThreshold {
			continue
		}
		kept = append(kept, unigram.SentencePiece{Piece: p.Piece, Score: expected[i]})
		sum += expected[i]
	}

	logSum := mathutil.Digamma(sum)
	for i := range kept {
		kept[i].Score = mathutil.Digamma(kept[i].Score) - logSum
	}
	return kept, nil
}

// chunkSentences splits sentences into at most n contiguous chunks of
// near-equal size.
func chunkSentences(sentences []sentence, n int) [][]sentence {
	if n < 1 {
		n = 1
	}
	if n > len(sentences) {
		n = len(sentences)
	}
	chunks := make([][]sentence, 0, n)
	for i := 0; i < n; i++ {
		lo := i * len(sentences) / n
		hi := (i + 1) * len(sentences) / n
		if lo < hi {
			chunks = append(chunks, sentences[lo:hi])
		}
	}
	return chunks
}
