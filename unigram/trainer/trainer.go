package trainer

import (
	"log"
	"math"
	"runtime"
	"sort"

	"github.com/subpiece/subpiece/unigram"
	"github.com/subpiece/subpiece/workerpool"
)

// Reserved pieces, always present in a finalized vocabulary at these ids.
const (
	bosPiece = "<bos>"
	eosPiece = "<eos>"
	unkPiece = "<unk>"

	bosID = 0
	eosID = 1
	unkID = 2
)

// Defaults for Options fields left at their zero value.
const (
	DefaultVocabSize      = 8000
	DefaultNSubIterations = 2
	DefaultSeedSize       = 1000000
	DefaultMaxPieceLength = 16
)

const minScorePenaltyDelta = 0.0001

// Options configures a Trainer. The zero value of every field selects the
// corresponding default.
type Options struct {
	// VocabSize is the exact size of the finalized vocabulary.
	VocabSize int
	// NSubIterations is the number of E/M rounds per pruning cycle.
	NSubIterations int
	// SeedSize caps the initial candidate piece set.
	SeedSize int
	// MaxPieceLength caps candidate pieces, in characters.
	MaxPieceLength int
	// Concurrency is the number of E-step workers; defaults to NumCPU.
	Concurrency int
	// ShowProgress enables training progress logging.
	ShowProgress bool
	// SpecialTokens are passed through to the caller alongside the trained
	// model; the trainer does not interpret them.
	SpecialTokens []string
	// Pruner shrinks the piece list toward the desired size when EM alone
	// does not; defaults to ScorePruner.
	Pruner Pruner
}

// Trainer learns a unigram segmentation model from word counts.
type Trainer struct {
	opts Options
}

// New validates opts and returns a Trainer.
func New(opts Options) (*Trainer, error) {
	if opts.VocabSize == 0 {
		opts.VocabSize = DefaultVocabSize
	}
	if opts.NSubIterations == 0 {
		opts.NSubIterations = DefaultNSubIterations
	}
	if opts.SeedSize == 0 {
		opts.SeedSize = DefaultSeedSize
	}
	if opts.MaxPieceLength == 0 {
		opts.MaxPieceLength = DefaultMaxPieceLength
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}
	if opts.Pruner == nil {
		opts.Pruner = ScorePruner{}
	}

	// vocabulary ids are serialized as unsigned 32-bit values downstream
	if opts.VocabSize < 0 || int64(opts.VocabSize) > math.MaxUint32 {
		return nil, ConfigError{Field: "VocabSize", Reason: "must fit in an unsigned 32-bit value"}
	}
	if opts.NSubIterations < 0 {
		return nil, ConfigError{Field: "NSubIterations", Reason: "must be positive"}
	}
	if opts.SeedSize < 0 {
		return nil, ConfigError{Field: "SeedSize", Reason: "must be positive"}
	}
	if opts.MaxPieceLength < 0 {
		return nil, ConfigError{Field: "MaxPieceLength", Reason: "must be positive"}
	}

	return &Trainer{opts: opts}, nil
}

// ProcessTokens folds a stream of tokens into word counts: insert-if-absent,
// otherwise increment.
func ProcessTokens(words map[string]int, tokens []string) {
	for _, tok := range tokens {
		words[tok]++
	}
}

// sentence is a deduplicated corpus entry.
type sentence struct {
	text  string
	count int
}

// sentencesFromCounts flattens word counts into a deterministic order so
// training runs are reproducible.
func sentencesFromCounts(wordCounts map[string]int) []sentence {
	words := make([]string, 0, len(wordCounts))
	for w := range wordCounts {
		words = append(words, w)
	}
	sort.Strings(words)

	sentences := make([]sentence, 0, len(words))
	for _, w := range words {
		if wordCounts[w] <= 0 {
			continue
		}
		sentences = append(sentences, sentence{text: w, count: wordCounts[w]})
	}
	return sentences
}

// Train learns a vocabulary of exactly VocabSize pieces from word counts and
// returns the finalized model along with the pass-through special tokens.
func (t *Trainer) Train(wordCounts map[string]int) (*unigram.Model, []string, error) {
	sentences := sentencesFromCounts(wordCounts)
	var totalCount int
	for _, s := range sentences {
		totalCount += s.count
	}
	if totalCount == 0 {
		return nil, nil, EmptyCorpusError{}
	}

	required := requiredChars(wordCounts)

	pieces := make([]unigram.SentencePiece, 0, t.opts.VocabSize)
	pieces = append(pieces,
		unigram.SentencePiece{Piece: bosPiece},
		unigram.SentencePiece{Piece: eosPiece},
		unigram.SentencePiece{Piece: unkPiece},
	)
	pieces = append(pieces, t.makeSeedPieces(sentences)...)

	desired := t.opts.VocabSize * 11 / 10
	t.printf("EM training over %d seed pieces, desired size %d", len(pieces), desired)

	model := unigram.NewModel(pieces, bosID, eosID, unkID)
	pool := workerpool.New(t.opts.Concurrency)
	defer pool.Stop()

	for {
		for iter := 0; iter < t.opts.NSubIterations; iter++ {
			objective, numTokens, expected, err := t.runEStep(pool, model, sentences, totalCount)
			if err != nil {
				return nil, nil, err
			}

			pieces, err = t.runMStep(pieces, expected)
			if err != nil {
				return nil, nil, err
			}
			model = unigram.NewModel(pieces, bosID, eosID, unkID)

			t.printf("EM sub-iteration %d: size=%d objective=%f tokens=%d tokens/piece=%f",
				iter, model.Len(), objective, numTokens, float64(numTokens)/float64(model.Len()))
		}

		if len(pieces) <= desired {
			break
		}

		pruned := t.opts.Pruner.Prune(pieces, desired)
		if len(pruned) >= len(pieces) {
			// the pruner cannot shrink this vocabulary any further
			break
		}
		t.printf("pruned pieces %d -> %d (desired %d)", len(pieces), len(pruned), desired)
		pieces = pruned
		model = unigram.NewModel(pieces, bosID, eosID, unkID)
	}

	model = t.finalize(model, required)
	return model, t.opts.SpecialTokens, nil
}

func (t *Trainer) printf(msg string, objs ...interface{}) {
	if t.opts.ShowProgress {
		log.Printf(msg, objs...)
	}
}
