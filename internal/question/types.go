package question

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jiacillo/bluetrivia/internal/text"
)

// ErrNoEligibleQuestion reports that a source currently has no candidate
// meeting its eligibility rules. This is recoverable: the round engine
// retries against a different source.
var ErrNoEligibleQuestion = errors.New("no eligible question")

// Media is a raw payload attached to a question.
type Media struct {
	Bytes    []byte
	MimeType string
	Alt      string
}

// Question is an immutable prompt/answer pair with optional media. The
// round that pulls it owns it exclusively for the round's lifetime.
type Question struct {
	ID     string
	Prompt string
	// Answer is the display form shown in results posts.
	Answer string
	// Canonical is the normalized form replies are scored against,
	// computed once at creation.
	Canonical string
	Media     []Media
	Source    string
}

// New builds a Question, normalizing the canonical answer at creation.
func New(prompt, answer, source string, media []Media) Question {
	return Question{
		ID:        uuid.NewString(),
		Prompt:    prompt,
		Answer:    answer,
		Canonical: text.Normalize(answer),
		Media:     media,
		Source:    source,
	}
}

// Source supplies random questions. Implementations return
// ErrNoEligibleQuestion (possibly wrapped) when nothing currently
// qualifies; any other error is a collaborator failure.
type Source interface {
	Name() string
	Random(ctx context.Context) (Question, error)
	// CensorMedia reports whether this source's media must pass through
	// the censoring pipeline before publishing.
	CensorMedia() bool
}
