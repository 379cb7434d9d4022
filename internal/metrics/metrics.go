package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics aggregates the bot's operational counters. All fields are safe
// for concurrent use.
type Metrics struct {
	RoundsStarted   prometheus.Counter
	RoundsCompleted prometheus.Counter
	RoundsSkipped   prometheus.Counter
	RoundsFailed    prometheus.Counter
	RepliesScored   prometheus.Counter
	CorrectReplies  prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RoundsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "bluetrivia_rounds_started_total",
			Help: "Rounds whose question post was published.",
		}),
		RoundsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "bluetrivia_rounds_completed_total",
			Help: "Rounds that finished with at least one reply scored.",
		}),
		RoundsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "bluetrivia_rounds_skipped_total",
			Help: "Rounds abandoned because nobody replied.",
		}),
		RoundsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "bluetrivia_rounds_failed_total",
			Help: "Rounds aborted by a collaborator failure.",
		}),
		RepliesScored: factory.NewCounter(prometheus.CounterOpts{
			Name: "bluetrivia_replies_scored_total",
			Help: "Replies evaluated against a round answer.",
		}),
		CorrectReplies: factory.NewCounter(prometheus.CounterOpts{
			Name: "bluetrivia_correct_replies_total",
			Help: "Replies that met the correctness threshold.",
		}),
	}
}
