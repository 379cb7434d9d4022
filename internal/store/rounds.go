package store

import (
	"context"
	"fmt"
	"time"
)

// Round states persisted alongside outcomes.
const (
	RoundStatePublished = "published"
	RoundStateFinished  = "finished"
	RoundStateSkipped   = "skipped"
)

// RoundRecord is a round at publish time; outcome columns are filled in by
// FinishRound or SkipRound.
type RoundRecord struct {
	ID        string
	Number    int
	Source    string
	Prompt    string
	Answer    string
	PostRef   string
	State     string
	StartedAt time.Time
	EndsAt    time.Time
}

// ResponseRecord is one scored reply.
type ResponseRecord struct {
	RoundID  string
	Handle   string
	Text     string
	Score    int
	Correct  bool
	Position int
}

// CreateRound inserts a freshly published round.
func (db *DB) CreateRound(ctx context.Context, r RoundRecord) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO rounds (id, number, source, prompt, answer, post_ref, state, started_at, ends_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Number, r.Source, r.Prompt, r.Answer, r.PostRef, r.State, r.StartedAt, r.EndsAt,
	)
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}
	return nil
}

// FinishRound stores the final tallies for a scored round.
func (db *DB) FinishRound(ctx context.Context, id string, attempts, correct, percentage int) error {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE rounds SET state = ?, attempts = ?, correct = ?, percentage = ?
		WHERE id = ?`,
		RoundStateFinished, attempts, correct, percentage, id,
	)
	if err != nil {
		return fmt.Errorf("finish round: %w", err)
	}
	return requireRow(res, id)
}

// SkipRound marks a round that ended without participants. The percentage
// column stays NULL: it is undefined for zero attempts.
func (db *DB) SkipRound(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE rounds SET state = ?, attempts = 0, correct = 0
		WHERE id = ?`,
		RoundStateSkipped, id,
	)
	if err != nil {
		return fmt.Errorf("skip round: %w", err)
	}
	return requireRow(res, id)
}

// SaveResponse records one scored reply.
func (db *DB) SaveResponse(ctx context.Context, r ResponseRecord) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO responses (round_id, handle, response_text, score, correct, position)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.RoundID, r.Handle, r.Text, r.Score, r.Correct, r.Position,
	)
	if err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

// NextRoundNumber returns the number the next round should carry.
func (db *DB) NextRoundNumber(ctx context.Context) (int, error) {
	var max int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(number), 0) FROM rounds`).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("next round number: %w", err)
	}
	return max + 1, nil
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

func requireRow(res rowsAffected, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("round %s not found", id)
	}
	return nil
}
