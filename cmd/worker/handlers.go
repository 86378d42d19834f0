package main

import (
	"github.com/hibiken/asynq"

	"blog-backend/internal/domains/user/job"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	avatarCleanup *job.AvatarCleanupHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(objects storage.ObjectStorage) *HandlerRegistry {
	return &HandlerRegistry{
		avatarCleanup: job.NewAvatarCleanupHandler(objects),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeDeleteAvatarFolder, h.avatarCleanup.ProcessTask)
}
