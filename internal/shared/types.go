package shared

// Background task types handled by cmd/worker.
const (
	TypeDeleteAvatarFolder = "user:delete_avatar_folder"
)

// DeleteAvatarFolderPayload names the storage prefix of a replaced avatar.
type DeleteAvatarFolderPayload struct {
	UserID string `json:"user_id"`
	Prefix string `json:"prefix"`
}
