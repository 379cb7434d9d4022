package social

import (
	"context"
	"time"
)

// PostRef is an opaque handle to a published post.
type PostRef string

// Reply is one public answer to a round post, in arrival order.
type Reply struct {
	// ID identifies the reply on the platform, used for acknowledgements.
	ID     string
	Author string
	Text   string
	SentAt time.Time
}

// Client is the platform boundary the round engine publishes through.
// Replies is a one-shot snapshot; a fresh call re-queries. Acknowledge
// must be idempotent-safe: acknowledging the same reply twice has no
// duplicate side effects.
type Client interface {
	Publish(ctx context.Context, text string, media [][]byte) (PostRef, error)
	PublishReply(ctx context.Context, ref PostRef, text string) (PostRef, error)
	Replies(ctx context.Context, ref PostRef) ([]Reply, error)
	Acknowledge(ctx context.Context, reply Reply) error
}
