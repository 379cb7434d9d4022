package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNoQuestions reports an empty trivia catalog.
var ErrNoQuestions = errors.New("no trivia questions stored")

// TriviaQuestion is one curated row from the local catalog.
type TriviaQuestion struct {
	ID       int64
	Prompt   string
	Answer   string
	Category string
	Image    []byte
}

// RandomTriviaQuestion returns a uniformly random catalog row.
func (db *DB) RandomTriviaQuestion(ctx context.Context) (TriviaQuestion, error) {
	var q TriviaQuestion
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, prompt, answer, category, image
		FROM trivia_questions
		ORDER BY RANDOM()
		LIMIT 1`,
	).Scan(&q.ID, &q.Prompt, &q.Answer, &q.Category, &q.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return TriviaQuestion{}, ErrNoQuestions
	}
	if err != nil {
		return TriviaQuestion{}, fmt.Errorf("random trivia question: %w", err)
	}
	return q, nil
}

// AddTriviaQuestion inserts a curated question, optionally with an image.
func (db *DB) AddTriviaQuestion(ctx context.Context, prompt, answer, category string, image []byte) (int64, error) {
	if category == "" {
		category = "General"
	}
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO trivia_questions (prompt, answer, category, image)
		VALUES (?, ?, ?, ?)`,
		prompt, answer, category, image,
	)
	if err != nil {
		return 0, fmt.Errorf("insert trivia question: %w", err)
	}
	return res.LastInsertId()
}

// CountTriviaQuestions returns the catalog size.
func (db *DB) CountTriviaQuestions(ctx context.Context) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM trivia_questions`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count trivia questions: %w", err)
	}
	return n, nil
}

var sampleQuestions = []struct {
	prompt, answer, category string
}{
	{"What is the capital of France?", "Paris", "Geography"},
	{"Who wrote 'Romeo and Juliet'?", "William Shakespeare", "Literature"},
	{"What is the chemical symbol for gold?", "Au", "Science"},
	{"What year did the Titanic sink?", "1912", "History"},
	{"How many sides does a hexagon have?", "6", "Mathematics"},
}

// SeedSampleQuestions populates an empty catalog so a fresh install can
// run rounds before anyone curates questions. No-op otherwise.
func (db *DB) SeedSampleQuestions(ctx context.Context) error {
	n, err := db.CountTriviaQuestions(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, s := range sampleQuestions {
		if _, err := db.AddTriviaQuestion(ctx, s.prompt, s.answer, s.category, nil); err != nil {
			return err
		}
	}
	return nil
}
