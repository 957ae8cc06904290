package trainer

import "fmt"

// ConfigError reports an invalid trainer option. It is returned by New,
// before any training work starts.
type ConfigError struct {
	Field  string
	Reason string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("invalid trainer option %s: %s", e.Field, e.Reason)
}

// EmptyCorpusError reports that the word counts were empty or summed to
// zero, leaving nothing to train on.
type EmptyCorpusError struct{}

func (EmptyCorpusError) Error() string {
	return "no training data: word counts are empty or all zero"
}

// NumericError reports a NaN log-partition value during the E-step. This
// signals an unsegmentable or pathologically long input and is not
// recoverable.
type NumericError struct {
	Word string
}

func (e NumericError) Error() string {
	return fmt.Sprintf("likelihood is NaN for %q: the input may be too long to segment", e.Word)
}

// SizeMismatchError reports a piece list and expected-count vector of
// different lengths entering the M-step. This is a bug in the E/M
// composition, never an input problem.
type SizeMismatchError struct {
	Pieces   int
	Expected int
}

func (e SizeMismatchError) Error() string {
	return fmt.Sprintf("piece list (%d) and expected counts (%d) must have the same length", e.Pieces, e.Expected)
}
