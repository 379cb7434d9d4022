package text

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// DefaultThreshold is the similarity score at or above which a reply
// counts as correct.
const DefaultThreshold = 80

// Score returns a 0-100 similarity ratio between two strings. The ratio is
// symmetric and Score(x, x) == 100. Callers are expected to pass normalized
// strings; Score itself does not normalize.
func Score(a, b string) int {
	if a == b {
		return 100
	}
	// Canonical argument order keeps the ratio symmetric.
	if a > b {
		a, b = b, a
	}
	s := fuzzy.Ratio(a, b)
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// ScoreResult is the outcome of evaluating one reply.
type ScoreResult struct {
	Score   int
	Correct bool
}

// Evaluator decides reply correctness against a canonical answer.
type Evaluator struct {
	Threshold int
}

// NewEvaluator builds an evaluator, falling back to DefaultThreshold when
// the configured value is not positive.
func NewEvaluator(threshold int) Evaluator {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Evaluator{Threshold: threshold}
}

// Evaluate normalizes both inputs, scores them and applies the threshold.
// A score exactly equal to the threshold counts as correct.
func (e Evaluator) Evaluate(reply, answer string) ScoreResult {
	s := Score(Normalize(reply), Normalize(answer))
	return ScoreResult{Score: s, Correct: s >= e.Threshold}
}
