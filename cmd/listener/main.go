// Command listener prints every comment announced on the comments channel.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/config"
	commentModel "blog-backend/internal/domains/comment/model"
	infraCache "blog-backend/internal/infrastructure/cache"
	"blog-backend/internal/infrastructure/pubsub"
	"blog-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	defer redisClient.Close()
	if err := redisClient.Connect(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	log.Info().Str("channel", pubsub.CommentsChannel).Msg("listening for comments")
	if err := pubsub.NewSubscriber(redisClient.Client).Listen(ctx, pubsub.CommentsChannel, logComment); err != nil {
		log.Fatal().Err(err).Msg("listener stopped")
	}
}

func logComment(_ context.Context, payload []byte) error {
	var msg commentModel.CommentMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("decode comment message: %w", err)
	}

	log.Info().
		Int64("post_id", msg.PostID).
		Str("author_id", msg.AuthorID.String()).
		Time("created_at", msg.CreatedAt).
		Str("body", msg.Body).
		Msg("new comment")
	return nil
}
