package question

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jiacillo/bluetrivia/internal/store"
)

type triviaStore interface {
	RandomTriviaQuestion(ctx context.Context) (store.TriviaQuestion, error)
}

// LocalSource serves curated trivia questions from the local store. Its
// media (if any) is published as-is, uncensored.
type LocalSource struct {
	store  triviaStore
	logger zerolog.Logger
}

func NewLocalSource(store triviaStore, logger zerolog.Logger) *LocalSource {
	return &LocalSource{store: store, logger: logger}
}

func (s *LocalSource) Name() string      { return "General Trivia" }
func (s *LocalSource) CensorMedia() bool { return false }

func (s *LocalSource) Random(ctx context.Context) (Question, error) {
	row, err := s.store.RandomTriviaQuestion(ctx)
	if errors.Is(err, store.ErrNoQuestions) {
		return Question{}, fmt.Errorf("local store: %w", ErrNoEligibleQuestion)
	}
	if err != nil {
		return Question{}, fmt.Errorf("local store: %w", err)
	}

	var media []Media
	if len(row.Image) > 0 {
		media = append(media, Media{Bytes: row.Image, MimeType: "image/jpeg"})
	}
	return New(row.Prompt, row.Answer, s.Name(), media), nil
}
