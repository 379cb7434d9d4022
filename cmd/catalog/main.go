// Command catalog manages the local trivia question catalog.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jiacillo/bluetrivia/internal/store"
)

func main() {
	var (
		dbPath   = flag.String("db", "bluetrivia.db", "Path to the sqlite database")
		prompt   = flag.String("prompt", "", "Question text to add")
		answer   = flag.String("answer", "", "Accepted answer for the question")
		category = flag.String("category", "General", "Question category")
		image    = flag.String("image", "", "Optional image file to attach")
		seed     = flag.Bool("seed", false, "Seed the starter questions into an empty catalog")
	)
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := context.Background()

	db, err := store.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", *dbPath).Msg("failed to open database")
	}
	defer db.Close()

	if *seed {
		if err := db.SeedSampleQuestions(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to seed catalog")
		}
	}

	if *prompt != "" || *answer != "" {
		if *prompt == "" || *answer == "" {
			log.Fatal().Msg("both -prompt and -answer are required to add a question")
		}
		var payload []byte
		if *image != "" {
			payload, err = os.ReadFile(*image)
			if err != nil {
				log.Fatal().Err(err).Str("image", *image).Msg("failed to read image")
			}
		}
		id, err := db.AddTriviaQuestion(ctx, *prompt, *answer, *category, payload)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to add question")
		}
		log.Info().Int64("id", id).Str("category", *category).Msg("question added")
	}

	n, err := db.CountTriviaQuestions(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to count questions")
	}
	log.Info().Int("questions", n).Msg("catalog ready")
}
