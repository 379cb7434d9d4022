package question

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/jiacillo/bluetrivia/internal/question/external"
)

const (
	// minBackdrops is the usable-asset floor: movies with fewer backdrops
	// are too easy to give away with a single lucky window.
	minBackdrops = 4
	// candidatePicks bounds how many catalog candidates one Random call
	// examines before giving up as ineligible.
	candidatePicks = 5
	// discoverPageSpread spreads picks across catalog pages so rounds do
	// not keep drawing from the same top-popularity slice.
	discoverPageSpread = 40

	moviePrompt = "Can you guess the movie title from these images?"
)

type movieCatalog interface {
	Discover(ctx context.Context, page int) ([]external.Movie, error)
	BackdropPaths(ctx context.Context, movieID int) ([]string, error)
	DownloadBackdrop(ctx context.Context, path string) ([]byte, error)
}

// MovieSource builds "guess the movie" questions from a remote catalog.
// Its media always goes through the censoring pipeline.
type MovieSource struct {
	catalog movieCatalog
	rng     *rand.Rand
	logger  zerolog.Logger
}

func NewMovieSource(catalog movieCatalog, logger zerolog.Logger, seed int64) *MovieSource {
	return &MovieSource{
		catalog: catalog,
		rng:     rand.New(rand.NewSource(seed)),
		logger:  logger,
	}
}

func (s *MovieSource) Name() string      { return "Movie Trivia" }
func (s *MovieSource) CensorMedia() bool { return true }

// Random picks a catalog movie with enough backdrop art and turns it into
// a question. Candidates short on art are skipped; running out of
// candidates yields ErrNoEligibleQuestion.
func (s *MovieSource) Random(ctx context.Context) (Question, error) {
	for attempt := 0; attempt < candidatePicks; attempt++ {
		page := 1 + s.rng.Intn(discoverPageSpread)
		movies, err := s.catalog.Discover(ctx, page)
		if err != nil {
			return Question{}, fmt.Errorf("discover movies: %w", err)
		}
		if len(movies) == 0 {
			continue
		}
		movie := movies[s.rng.Intn(len(movies))]

		paths, err := s.catalog.BackdropPaths(ctx, movie.ID)
		if err != nil {
			return Question{}, fmt.Errorf("list backdrops for %d: %w", movie.ID, err)
		}
		if len(paths) < minBackdrops {
			s.logger.Debug().Str("title", movie.Title).Int("backdrops", len(paths)).
				Msg("movie short on backdrops, trying another")
			continue
		}

		media := make([]Media, 0, minBackdrops)
		for _, p := range paths[:minBackdrops] {
			img, err := s.catalog.DownloadBackdrop(ctx, p)
			if err != nil {
				return Question{}, fmt.Errorf("download backdrop %s: %w", p, err)
			}
			media = append(media, Media{
				Bytes:    img,
				MimeType: "image/jpeg",
				Alt:      "Censored movie backdrop",
			})
		}
		return New(moviePrompt, movie.Title, s.Name(), media), nil
	}
	return Question{}, fmt.Errorf("movie catalog: %w", ErrNoEligibleQuestion)
}
