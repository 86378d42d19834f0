package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CommentsChannel carries one JSON message per created comment.
const CommentsChannel = "comments"

// Publisher sends a message to every subscriber currently listening on a channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// RedisPublisher publishes JSON payloads with PUBLISH. Redis keeps no copy:
// a message sent while nobody listens is gone.
type RedisPublisher struct {
	client redis.UniversalClient
}

func NewRedisPublisher(client redis.UniversalClient) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", channel, err)
	}

	receivers, err := p.client.Publish(ctx, channel, raw).Result()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}

	zerolog.Ctx(ctx).Debug().Str("channel", channel).Int64("receivers", receivers).Msg("message published")
	return nil
}

// Handler processes one raw message. Returning an error only logs it.
type Handler func(ctx context.Context, payload []byte) error

// Subscriber is a blocking receive loop over one channel.
type Subscriber struct {
	client redis.UniversalClient
}

func NewSubscriber(client redis.UniversalClient) *Subscriber {
	return &Subscriber{client: client}
}

// Listen blocks until ctx is cancelled, calling handle for every message.
func (s *Subscriber) Listen(ctx context.Context, channel string, handle Handler) error {
	sub := s.client.Subscribe(ctx, channel)
	defer sub.Close()

	// Block until Redis confirms the subscription.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", channel, err)
	}

	logger := zerolog.Ctx(ctx)
	logger.Info().Str("channel", channel).Msg("listening")

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if err := handle(ctx, []byte(msg.Payload)); err != nil {
				logger.Error().Err(err).Str("channel", channel).Msg("message handler failed")
			}
		}
	}
}
