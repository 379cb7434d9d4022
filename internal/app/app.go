package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jiacillo/bluetrivia/internal/config"
	"github.com/jiacillo/bluetrivia/internal/imaging"
	"github.com/jiacillo/bluetrivia/internal/leaderboard"
	"github.com/jiacillo/bluetrivia/internal/logging"
	"github.com/jiacillo/bluetrivia/internal/metrics"
	"github.com/jiacillo/bluetrivia/internal/question"
	"github.com/jiacillo/bluetrivia/internal/question/external"
	"github.com/jiacillo/bluetrivia/internal/round"
	"github.com/jiacillo/bluetrivia/internal/server"
	"github.com/jiacillo/bluetrivia/internal/social/telegram"
	"github.com/jiacillo/bluetrivia/internal/store"
	"github.com/jiacillo/bluetrivia/internal/text"
)

// Application aggregates the bot's infrastructure: storage, the social
// client, the round engine and the operational HTTP server.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	db     *store.DB
	redis  *redis.Client
	social *telegram.Client
	engine *round.Engine
	http   *http.Server
}

// New bootstraps config, logger, sqlite, the Telegram client, the
// question sources and the round engine.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.SeedSampleQuestions(ctx); err != nil {
		return nil, fmt.Errorf("seed trivia catalog: %w", err)
	}

	social, err := telegram.New(cfg.Telegram.Token, cfg.Telegram.ChatID, logger)
	if err != nil {
		return nil, err
	}

	sources := []question.Source{
		question.NewLocalSource(db, logger),
	}
	if cfg.MovieDB.APIKey != "" {
		catalog := external.NewMovieDBClient(cfg.MovieDB.BaseURL, cfg.MovieDB.ImageBaseURL, cfg.MovieDB.APIKey, nil)
		sources = append(sources, question.NewMovieSource(catalog, logger, time.Now().UnixNano()))
	} else {
		logger.Warn().Msg("MOVIEDB_API_KEY not set, movie rounds disabled")
	}

	var redisClient *redis.Client
	var standings round.Standings
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		standings = leaderboard.New(redisClient, logger)
	} else {
		logger.Warn().Msg("REDIS_ADDR not set, all-time standings disabled")
	}

	planner := imaging.NewGenerator(cfg.Image.MinVisible, cfg.Image.MaxVisible, time.Now().UnixNano())
	pipeline := imaging.NewPipeline(cfg.Image.MaxWidth, cfg.Image.MaxHeight, cfg.Image.Quality, planner, logger)

	engine := round.New(round.Config{
		RoundDuration:   cfg.Round.Duration,
		InterRoundDelay: cfg.Round.InterRoundDelay,
		Cooldown:        cfg.Round.Cooldown,
		SourceRetry: round.RetryPolicy{
			MaxAttempts: cfg.Round.SourceAttempts,
			Backoff:     cfg.Round.SourceBackoff,
		},
		TopPlayers: cfg.Round.TopPlayers,
	}, round.Deps{
		Social:    social,
		Sources:   sources,
		Recorder:  db,
		Media:     pipeline,
		Standings: standings,
		Metrics:   metrics.New(prometheus.DefaultRegisterer),
		Evaluator: text.NewEvaluator(cfg.Round.Threshold),
		Logger:    logger,
	})

	return &Application{
		cfg:    cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
		social: social,
		engine: engine,
		http:   server.New(cfg.HTTPAddr, logger),
	}, nil
}

// Run starts the reply collector, HTTP server and round loop, then waits
// for a termination signal.
func (a *Application) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)

	go a.social.Run(runCtx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	go func() {
		if err := a.engine.Run(runCtx); err != nil && err != context.Canceled {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("runtime error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer shutdownCancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error().Err(err).Msg("store shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
