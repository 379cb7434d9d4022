package round

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/jiacillo/bluetrivia/internal/leaderboard"
	"github.com/jiacillo/bluetrivia/internal/metrics"
	"github.com/jiacillo/bluetrivia/internal/question"
	"github.com/jiacillo/bluetrivia/internal/social"
	"github.com/jiacillo/bluetrivia/internal/store"
	"github.com/jiacillo/bluetrivia/internal/text"
)

// Recorder persists round outcomes. *store.DB satisfies it.
type Recorder interface {
	NextRoundNumber(ctx context.Context) (int, error)
	CreateRound(ctx context.Context, r store.RoundRecord) error
	FinishRound(ctx context.Context, id string, attempts, correct, percentage int) error
	SkipRound(ctx context.Context, id string) error
	SaveResponse(ctx context.Context, r store.ResponseRecord) error
}

// Standings tracks cumulative per-player scores across rounds.
// *leaderboard.Service satisfies it.
type Standings interface {
	RecordCorrect(ctx context.Context, handle string) error
	Top(ctx context.Context, n int64) ([]leaderboard.Entry, error)
}

// MediaPreparer turns a raw source image into a publishable frame.
type MediaPreparer interface {
	Prepare(raw []byte) ([]byte, error)
}

// Config carries the engine's timing and retry knobs.
type Config struct {
	// RoundDuration is the reply-collection window after publishing.
	RoundDuration time.Duration
	// InterRoundDelay is the pause after a completed round.
	InterRoundDelay time.Duration
	// Cooldown is the shorter pause after a failed or skipped round.
	Cooldown time.Duration
	// SourceRetry governs reattempts when a source has no eligible
	// question right now.
	SourceRetry RetryPolicy
	// TopPlayers is how many standings entries results posts mention.
	TopPlayers int64
}

// Deps are the engine's collaborators. Standings is optional; everything
// else is required.
type Deps struct {
	Social    social.Client
	Sources   []question.Source
	Recorder  Recorder
	Media     MediaPreparer
	Standings Standings
	Metrics   *metrics.Metrics
	Clock     Clock
	Evaluator text.Evaluator
	Logger    zerolog.Logger
	Rand      *rand.Rand
}

// Engine runs the recurring round loop. It is strictly sequential: one
// round at a time, every step on the caller's goroutine.
type Engine struct {
	cfg  Config
	deps Deps
}

func New(cfg Config, deps Deps) *Engine {
	if cfg.RoundDuration <= 0 {
		cfg.RoundDuration = 30 * time.Minute
	}
	if cfg.InterRoundDelay <= 0 {
		cfg.InterRoundDelay = 5 * time.Minute
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = time.Minute
	}
	if cfg.SourceRetry.MaxAttempts < 1 {
		cfg.SourceRetry = RetryPolicy{MaxAttempts: 3, Backoff: 5 * time.Second}
	}
	if cfg.TopPlayers <= 0 {
		cfg.TopPlayers = 3
	}
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New(prometheus.NewRegistry())
	}
	return &Engine{cfg: cfg, deps: deps}
}

// Run executes rounds until ctx is cancelled. A failed round is logged
// and absorbed; the loop itself only stops on cancellation.
func (e *Engine) Run(ctx context.Context) error {
	e.deps.Logger.Info().
		Dur("round_duration", e.cfg.RoundDuration).
		Int("sources", len(e.deps.Sources)).
		Msg("round engine started")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := e.runRound(ctx)

		var delay time.Duration
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			e.deps.Metrics.RoundsFailed.Inc()
			e.deps.Logger.Error().Err(err).Msg("round failed")
			delay = e.cfg.Cooldown
		case res == nil:
			delay = e.cfg.Cooldown
		default:
			e.deps.Logger.Info().
				Int("round", res.Number).
				Int("attempts", res.Attempts).
				Int("correct", res.Correct).
				Msg("round completed")
			delay = e.cfg.InterRoundDelay
		}

		if err := e.deps.Clock.Sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// runRound drives one round through its states. A nil result with a nil
// error means the round produced nothing to report: either no source had
// an eligible question, or nobody replied.
func (e *Engine) runRound(ctx context.Context) (*Result, error) {
	state := StateIdle
	e.advance(&state, StateSelecting)

	q, src, err := e.selectQuestion(ctx)
	if err != nil {
		return nil, err
	}
	if q == nil {
		e.deps.Logger.Warn().Msg("no source produced a question, cooling down")
		return nil, nil
	}

	media := e.prepareMedia(*q, src)
	e.advance(&state, StateMediaReady)

	number, err := e.deps.Recorder.NextRoundNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("next round number: %w", err)
	}

	tip := tips[e.deps.Rand.Intn(len(tips))]
	ref, err := e.deps.Social.Publish(ctx, roundPost(number, q.Prompt, e.cfg.RoundDuration, tip), media)
	if err != nil {
		return nil, fmt.Errorf("publish round: %w", err)
	}
	e.deps.Metrics.RoundsStarted.Inc()
	e.advance(&state, StatePublished)

	startedAt := e.deps.Clock.Now()
	if err := e.deps.Recorder.CreateRound(ctx, store.RoundRecord{
		ID:        q.ID,
		Number:    number,
		Source:    q.Source,
		Prompt:    q.Prompt,
		Answer:    q.Answer,
		PostRef:   string(ref),
		State:     store.RoundStatePublished,
		StartedAt: startedAt,
		EndsAt:    startedAt.Add(e.cfg.RoundDuration),
	}); err != nil {
		return nil, fmt.Errorf("record round: %w", err)
	}

	e.advance(&state, StateCollecting)
	if err := e.deps.Clock.Sleep(ctx, e.cfg.RoundDuration); err != nil {
		return nil, err
	}

	replies, err := e.deps.Social.Replies(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("collect replies: %w", err)
	}
	if len(replies) == 0 {
		if err := e.deps.Recorder.SkipRound(ctx, q.ID); err != nil {
			return nil, fmt.Errorf("record skipped round: %w", err)
		}
		e.deps.Metrics.RoundsSkipped.Inc()
		e.deps.Logger.Info().Int("round", number).Msg("no replies, skipping results post")
		return nil, nil
	}

	e.advance(&state, StateScoring)
	result, medals, err := e.scoreReplies(ctx, *q, replies)
	if err != nil {
		return nil, err
	}
	result.Number = number

	if err := e.deps.Recorder.FinishRound(ctx, q.ID, result.Attempts, result.Correct, result.Percentage); err != nil {
		return nil, fmt.Errorf("record finished round: %w", err)
	}
	e.deps.Metrics.RoundsCompleted.Inc()

	body := resultsPost(number, q.Answer, result, medals, e.topStandings(ctx), e.cfg.InterRoundDelay)
	if _, err := e.deps.Social.PublishReply(ctx, ref, body); err != nil {
		return nil, fmt.Errorf("publish results: %w", err)
	}
	e.advance(&state, StateResultsPublished)

	return &result, nil
}

// selectQuestion tries each source in random order, retrying eligibility
// misses per the configured policy. Returning a nil question with a nil
// error means every source is exhausted.
func (e *Engine) selectQuestion(ctx context.Context) (*question.Question, question.Source, error) {
	retryable := func(err error) bool { return errors.Is(err, question.ErrNoEligibleQuestion) }

	for _, idx := range e.deps.Rand.Perm(len(e.deps.Sources)) {
		src := e.deps.Sources[idx]

		var q question.Question
		err := e.cfg.SourceRetry.Do(ctx, e.deps.Clock, retryable, func() error {
			var err error
			q, err = src.Random(ctx)
			return err
		})
		if err == nil {
			e.deps.Logger.Info().Str("source", src.Name()).Str("question_id", q.ID).Msg("question selected")
			return &q, src, nil
		}
		if errors.Is(err, question.ErrNoEligibleQuestion) {
			e.deps.Logger.Warn().Str("source", src.Name()).Msg("source exhausted")
			continue
		}
		return nil, nil, fmt.Errorf("select question from %s: %w", src.Name(), err)
	}
	return nil, nil, nil
}

// prepareMedia runs source images through the censoring pipeline when the
// source demands it. A frame that fails preparation is dropped rather
// than published raw.
func (e *Engine) prepareMedia(q question.Question, src question.Source) [][]byte {
	if len(q.Media) == 0 {
		return nil
	}
	out := make([][]byte, 0, len(q.Media))
	for i, m := range q.Media {
		if !src.CensorMedia() {
			out = append(out, m.Bytes)
			continue
		}
		frame, err := e.deps.Media.Prepare(m.Bytes)
		if err != nil {
			e.deps.Logger.Warn().Err(err).Int("index", i).Str("question_id", q.ID).
				Msg("dropping frame that failed preparation")
			continue
		}
		out = append(out, frame)
	}
	return out
}

// scoreReplies evaluates every reply in arrival order, acknowledging and
// crediting correct ones. Acknowledgement and standings failures are
// logged and absorbed; losing a persisted response aborts the round.
func (e *Engine) scoreReplies(ctx context.Context, q question.Question, replies []social.Reply) (Result, []string, error) {
	res := Result{Attempts: len(replies)}
	var medals []string

	for i, reply := range replies {
		scored := e.deps.Evaluator.Evaluate(reply.Text, q.Answer)
		e.deps.Metrics.RepliesScored.Inc()

		if scored.Correct {
			res.Correct++
			e.deps.Metrics.CorrectReplies.Inc()
			if res.FastestCorrect == "" {
				res.FastestCorrect = reply.Author
			}
			if len(medals) < len(medalEmoji) {
				medals = append(medals, reply.Author)
			}
			if err := e.deps.Social.Acknowledge(ctx, reply); err != nil {
				e.deps.Logger.Warn().Err(err).Str("reply_id", reply.ID).Msg("acknowledge failed")
			}
			if e.deps.Standings != nil {
				if err := e.deps.Standings.RecordCorrect(ctx, reply.Author); err != nil {
					e.deps.Logger.Warn().Err(err).Str("handle", reply.Author).Msg("standings update failed")
				}
			}
		}

		if err := e.deps.Recorder.SaveResponse(ctx, store.ResponseRecord{
			RoundID:  q.ID,
			Handle:   reply.Author,
			Text:     reply.Text,
			Score:    scored.Score,
			Correct:  scored.Correct,
			Position: i + 1,
		}); err != nil {
			return Result{}, nil, fmt.Errorf("save response: %w", err)
		}
	}

	res.Percentage = int(math.Round(float64(res.Correct) / float64(res.Attempts) * 100))
	return res, medals, nil
}

func (e *Engine) topStandings(ctx context.Context) []leaderboard.Entry {
	if e.deps.Standings == nil {
		return nil
	}
	entries, err := e.deps.Standings.Top(ctx, e.cfg.TopPlayers)
	if err != nil {
		e.deps.Logger.Warn().Err(err).Msg("loading standings failed")
		return nil
	}
	return entries
}

func (e *Engine) advance(state *State, next State) {
	e.deps.Logger.Debug().Str("from", string(*state)).Str("to", string(next)).Msg("round state")
	*state = next
}
