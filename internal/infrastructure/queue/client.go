package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"blog-backend/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Client enqueues background tasks for cmd/worker.
type Client struct {
	client *asynq.Client
}

func NewClient(opt asynq.RedisConnOpt) *Client {
	return &Client{client: asynq.NewClient(opt)}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueAvatarCleanup schedules deletion of a replaced avatar folder.
func (c *Client) EnqueueAvatarCleanup(ctx context.Context, userID, prefix string) error {
	payload, err := json.Marshal(shared.DeleteAvatarFolderPayload{UserID: userID, Prefix: prefix})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeDeleteAvatarFolder, payload)
	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue("low"),
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypeDeleteAvatarFolder, err)
	}

	zerolog.Ctx(ctx).Debug().Str("task_id", info.ID).Str("prefix", prefix).Msg("avatar cleanup enqueued")
	return nil
}
