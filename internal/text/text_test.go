package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"The Matrix", "the matrix"},
		{"  The   Matrix!! ", "the matrix"},
		{"What's up?", "whats up"},
		{"Blade Runner 2049", "blade runner 2049"},
		{"\tRomeo &\nJuliet", "romeo juliet"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"The Matrix",
		"  lots   of\tspace ",
		"Mixed CASE with 123 & symbols!",
		"",
		"ümlauts über alles",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestScoreIdentityAndSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"the matrix", "teh matrx"},
		{"inception", "the matrix"},
		{"paris", "pairs"},
		{"a", "b"},
		{"", "something"},
	}
	for _, p := range pairs {
		assert.Equal(t, Score(p[0], p[1]), Score(p[1], p[0]), "pair %v", p)
	}
	assert.Equal(t, 100, Score("the matrix", "the matrix"))
	assert.Equal(t, 100, Score("", ""))
}

func TestScoreScenarios(t *testing.T) {
	eval := NewEvaluator(DefaultThreshold)

	exact := eval.Evaluate("the matrix", "The Matrix")
	assert.Equal(t, 100, exact.Score)
	assert.True(t, exact.Correct)

	typo := eval.Evaluate("teh matrx", "The Matrix")
	assert.Greater(t, typo.Score, 80)
	assert.True(t, typo.Correct)

	wrong := eval.Evaluate("Inception", "The Matrix")
	assert.Less(t, wrong.Score, 80)
	assert.False(t, wrong.Correct)
}

func TestThresholdBoundaryCountsAsCorrect(t *testing.T) {
	// "abcde" vs "abcdx": 4 of 5 runes match, ratio 2*4/10 = 80 exactly.
	assert.Equal(t, 80, Score("abcde", "abcdx"))

	eval := NewEvaluator(80)
	res := eval.Evaluate("abcde", "abcdx")
	assert.Equal(t, 80, res.Score)
	assert.True(t, res.Correct, "score equal to threshold must count as correct")
}

func TestNewEvaluatorDefault(t *testing.T) {
	assert.Equal(t, DefaultThreshold, NewEvaluator(0).Threshold)
	assert.Equal(t, 90, NewEvaluator(90).Threshold)
}
