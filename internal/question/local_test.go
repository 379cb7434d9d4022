package question

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiacillo/bluetrivia/internal/store"
)

type fakeTriviaStore struct {
	row store.TriviaQuestion
	err error
}

func (s fakeTriviaStore) RandomTriviaQuestion(ctx context.Context) (store.TriviaQuestion, error) {
	return s.row, s.err
}

func TestLocalSourceBuildsQuestion(t *testing.T) {
	src := NewLocalSource(fakeTriviaStore{row: store.TriviaQuestion{
		Prompt: "What is the capital of France?",
		Answer: "Paris",
	}}, zerolog.Nop())

	q, err := src.Random(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Paris", q.Answer)
	assert.Equal(t, "paris", q.Canonical)
	assert.Equal(t, "General Trivia", q.Source)
	assert.Empty(t, q.Media)
	assert.False(t, src.CensorMedia())
}

func TestLocalSourceAttachesStoredImage(t *testing.T) {
	src := NewLocalSource(fakeTriviaStore{row: store.TriviaQuestion{
		Prompt: "Name this landmark", Answer: "Eiffel Tower", Image: []byte{0xff, 0xd8},
	}}, zerolog.Nop())

	q, err := src.Random(context.Background())
	require.NoError(t, err)
	require.Len(t, q.Media, 1)
	assert.Equal(t, []byte{0xff, 0xd8}, q.Media[0].Bytes)
}

func TestLocalSourceEmptyCatalogIsIneligible(t *testing.T) {
	src := NewLocalSource(fakeTriviaStore{err: store.ErrNoQuestions}, zerolog.Nop())
	_, err := src.Random(context.Background())
	assert.ErrorIs(t, err, ErrNoEligibleQuestion)
}

func TestLocalSourcePropagatesStoreFailures(t *testing.T) {
	boom := errors.New("disk io")
	src := NewLocalSource(fakeTriviaStore{err: boom}, zerolog.Nop())
	_, err := src.Random(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNoEligibleQuestion)
}
