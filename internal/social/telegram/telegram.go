package telegram

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/jiacillo/bluetrivia/internal/social"
)

// Client publishes rounds to a Telegram chat and harvests replies from
// the bot's update stream. Run must be started before the first round is
// published so no replies are missed.
type Client struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger

	mu      sync.Mutex
	replies map[int][]social.Reply
	acked   map[string]struct{}
}

// New authenticates the bot and prepares the reply collector.
func New(token string, chatID int64, logger zerolog.Logger) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	logger.Info().Str("bot", api.Self.UserName).Msg("telegram bot authenticated")
	return &Client{
		api:     api,
		chatID:  chatID,
		logger:  logger,
		replies: make(map[int][]social.Reply),
		acked:   make(map[string]struct{}),
	}, nil
}

// Run consumes the update stream until ctx is done, buffering replies to
// tracked round posts. The round engine never sees this goroutine; it
// reads the buffer through the blocking Replies call.
func (c *Client) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := c.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			c.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			c.collect(update)
		}
	}
}

// collect buffers one update when it replies to a tracked round post.
func (c *Client) collect(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.ReplyToMessage == nil || msg.Text == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	parent := msg.ReplyToMessage.MessageID
	if _, tracked := c.replies[parent]; !tracked {
		return
	}
	c.replies[parent] = append(c.replies[parent], social.Reply{
		ID:     strconv.Itoa(msg.MessageID),
		Author: authorOf(msg),
		Text:   msg.Text,
		SentAt: msg.Time(),
	})
}

func authorOf(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return "anonymous"
	}
	if msg.From.UserName != "" {
		return msg.From.UserName
	}
	return strconv.FormatInt(msg.From.ID, 10)
}

// Publish sends the round post, with media as a photo group when present,
// and starts tracking replies to it.
func (c *Client) Publish(ctx context.Context, text string, media [][]byte) (social.PostRef, error) {
	var sent tgbotapi.Message
	if len(media) == 0 {
		msg, err := c.api.Send(tgbotapi.NewMessage(c.chatID, text))
		if err != nil {
			return "", fmt.Errorf("send round post: %w", err)
		}
		sent = msg
	} else {
		group := make([]interface{}, 0, len(media))
		for i, payload := range media {
			photo := tgbotapi.NewInputMediaPhoto(tgbotapi.FileBytes{
				Name:  fmt.Sprintf("round-%d.jpg", i+1),
				Bytes: payload,
			})
			if i == 0 {
				photo.Caption = text
			}
			group = append(group, photo)
		}
		msgs, err := c.api.SendMediaGroup(tgbotapi.NewMediaGroup(c.chatID, group))
		if err != nil {
			return "", fmt.Errorf("send round media group: %w", err)
		}
		if len(msgs) == 0 {
			return "", fmt.Errorf("send round media group: empty response")
		}
		sent = msgs[0]
	}

	c.track(sent.MessageID)
	return refFor(sent.MessageID), nil
}

// PublishReply posts text as a threaded reply to an earlier post.
func (c *Client) PublishReply(ctx context.Context, ref social.PostRef, text string) (social.PostRef, error) {
	parent, err := messageID(ref)
	if err != nil {
		return "", err
	}
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ReplyToMessageID = parent
	sent, err := c.api.Send(msg)
	if err != nil {
		return "", fmt.Errorf("send reply post: %w", err)
	}
	return refFor(sent.MessageID), nil
}

// Replies snapshots the replies collected so far for a round post, in
// arrival order.
func (c *Client) Replies(ctx context.Context, ref social.PostRef) ([]social.Reply, error) {
	id, err := messageID(ref)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	buffered := c.replies[id]
	out := make([]social.Reply, len(buffered))
	copy(out, buffered)
	return out, nil
}

// Acknowledge marks a correct reply. Telegram has no "like" in the bot
// API, so the bot answers the winning message with a checkmark; repeat
// acknowledgements of the same reply are suppressed.
func (c *Client) Acknowledge(ctx context.Context, reply social.Reply) error {
	c.mu.Lock()
	if _, done := c.acked[reply.ID]; done {
		c.mu.Unlock()
		return nil
	}
	c.acked[reply.ID] = struct{}{}
	c.mu.Unlock()

	id, err := messageID(social.PostRef(reply.ID))
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(c.chatID, "✅")
	msg.ReplyToMessageID = id
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("acknowledge reply: %w", err)
	}
	return nil
}

func (c *Client) track(messageID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.replies[messageID]; !ok {
		c.replies[messageID] = nil
	}
}

func refFor(messageID int) social.PostRef {
	return social.PostRef(strconv.Itoa(messageID))
}

func messageID(ref social.PostRef) (int, error) {
	id, err := strconv.Atoi(string(ref))
	if err != nil {
		return 0, fmt.Errorf("malformed post ref %q: %w", ref, err)
	}
	return id, nil
}
