package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/shared"
	"blog-backend/internal/testutil"
)

func task(t *testing.T, payload shared.DeleteAvatarFolderPayload) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(shared.TypeDeleteAvatarFolder, data)
}

func TestAvatarCleanupHandler(t *testing.T) {
	objects := testutil.NewObjectStorage()
	userID := uuid.NewString()
	prefix := "users/avatars/" + userID + "/" + uuid.NewString() + "/"

	ctx := context.Background()
	_, err := objects.Upload(ctx, prefix+"original.png", []byte("png"), "image/png")
	require.NoError(t, err)
	_, err = objects.Upload(ctx, prefix+"thumb.jpg", []byte("jpg"), "image/jpeg")
	require.NoError(t, err)

	h := NewAvatarCleanupHandler(objects)
	require.NoError(t, h.ProcessTask(ctx, task(t, shared.DeleteAvatarFolderPayload{UserID: userID, Prefix: prefix})))
	assert.Empty(t, objects.Keys())
}

func TestAvatarCleanupHandler_RejectsForeignPrefix(t *testing.T) {
	objects := testutil.NewObjectStorage()
	ctx := context.Background()
	_, err := objects.Upload(ctx, "users/avatars/other/a/original.png", []byte("png"), "image/png")
	require.NoError(t, err)

	h := NewAvatarCleanupHandler(objects)
	err = h.ProcessTask(ctx, task(t, shared.DeleteAvatarFolderPayload{UserID: "me", Prefix: "users/avatars/"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	assert.Len(t, objects.Keys(), 1)

	err = h.ProcessTask(ctx, asynq.NewTask(shared.TypeDeleteAvatarFolder, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
