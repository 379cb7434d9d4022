package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds the bot's runtime configuration.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"bluetrivia"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Round    Round
	Image    Image
	Telegram Telegram
	MovieDB  MovieDB
	Store    Store
	Redis    Redis
}

// Round groups the timing and scoring knobs of the round loop.
type Round struct {
	Duration        time.Duration `env:"ROUND_DURATION" envDefault:"30m"`
	InterRoundDelay time.Duration `env:"ROUND_INTER_DELAY" envDefault:"5m"`
	Cooldown        time.Duration `env:"ROUND_COOLDOWN" envDefault:"1m"`
	Threshold       int           `env:"ANSWER_THRESHOLD" envDefault:"80"`
	SourceAttempts  int           `env:"SOURCE_RETRY_ATTEMPTS" envDefault:"3"`
	SourceBackoff   time.Duration `env:"SOURCE_RETRY_BACKOFF" envDefault:"5s"`
	TopPlayers      int64         `env:"RESULTS_TOP_PLAYERS" envDefault:"3"`
}

// Image governs the publishing pipeline for question media.
type Image struct {
	MaxWidth   int     `env:"IMAGE_MAX_WIDTH" envDefault:"1280"`
	MaxHeight  int     `env:"IMAGE_MAX_HEIGHT" envDefault:"1280"`
	Quality    int     `env:"IMAGE_JPEG_QUALITY" envDefault:"75"`
	MinVisible float64 `env:"IMAGE_MIN_VISIBLE" envDefault:"0.08"`
	MaxVisible float64 `env:"IMAGE_MAX_VISIBLE" envDefault:"0.2"`
}

// Telegram identifies the bot account and the chat rounds are posted to.
type Telegram struct {
	Token  string `env:"TELEGRAM_TOKEN,notEmpty"`
	ChatID int64  `env:"TELEGRAM_CHAT_ID,notEmpty"`
}

// MovieDB configures the movie catalog source. Leaving the key empty
// disables the source.
type MovieDB struct {
	APIKey       string `env:"MOVIEDB_API_KEY"`
	BaseURL      string `env:"MOVIEDB_BASE_URL"`
	ImageBaseURL string `env:"MOVIEDB_IMAGE_BASE_URL"`
}

// Store locates the sqlite database.
type Store struct {
	Path string `env:"STORE_PATH" envDefault:"bluetrivia.db"`
}

// Redis holds standings configuration. Leaving Addr empty disables
// cumulative standings.
type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
