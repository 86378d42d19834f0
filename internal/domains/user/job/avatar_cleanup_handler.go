package job

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/user/model"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared"
)

// AvatarCleanupHandler removes the storage folder of a replaced avatar.
type AvatarCleanupHandler struct {
	storage storage.ObjectStorage
}

func NewAvatarCleanupHandler(objects storage.ObjectStorage) *AvatarCleanupHandler {
	return &AvatarCleanupHandler{storage: objects}
}

func (h *AvatarCleanupHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeleteAvatarFolderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	// never let a malformed task wipe anything outside one avatar folder
	if !strings.HasPrefix(payload.Prefix, model.AvatarDir+"/"+payload.UserID+"/") {
		return fmt.Errorf("prefix %q outside avatar folder of %s: %w", payload.Prefix, payload.UserID, asynq.SkipRetry)
	}

	if err := h.storage.DeleteByPrefix(ctx, payload.Prefix); err != nil {
		log.Error().Err(err).Str("prefix", payload.Prefix).Msg("avatar cleanup failed")
		return err
	}

	log.Info().
		Str("user_id", payload.UserID).
		Str("prefix", payload.Prefix).
		Msg("previous avatar removed")
	return nil
}
