package leaderboard

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const standingsKey = "bluetrivia:standings"

// Entry is one player's all-time correct-answer count.
type Entry struct {
	Handle  string
	Correct int64
}

// Service keeps cumulative standings in a redis sorted set so they
// survive restarts and can be shared with other tooling.
type Service struct {
	client *redis.Client
	logger zerolog.Logger
}

func New(client *redis.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// RecordCorrect credits one correct answer to handle.
func (s *Service) RecordCorrect(ctx context.Context, handle string) error {
	if err := s.client.ZIncrBy(ctx, standingsKey, 1, handle).Err(); err != nil {
		return fmt.Errorf("record correct answer: %w", err)
	}
	return nil
}

// Top returns the n best players, highest score first.
func (s *Service) Top(ctx context.Context, n int64) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.client.ZRevRangeWithScores(ctx, standingsKey, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("load standings: %w", err)
	}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		handle, ok := row.Member.(string)
		if !ok {
			s.logger.Warn().Interface("member", row.Member).Msg("unexpected standings member type")
			continue
		}
		entries = append(entries, Entry{Handle: handle, Correct: int64(row.Score)})
	}
	return entries, nil
}
