package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =====================================================
// USER ENTITY
// =====================================================

type User struct {
	ID         uuid.UUID `db:"id"`
	Email      string    `db:"email"`
	FirstName  string    `db:"first_name"`
	LastName   string    `db:"last_name"`
	Password   string    `db:"password"` // bcrypt hash, never serialized
	IsActive   bool      `db:"is_active"`
	IsStaff    bool      `db:"is_staff"`
	Avatar     *string   `db:"avatar"` // public URL of the original image
	DateJoined time.Time `db:"date_joined"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// ToResponse renders the public shape; the password hash never leaves the service.
func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsStaff:    u.IsStaff,
		Avatar:     u.Avatar,
		DateJoined: u.DateJoined,
	}
	if u.Avatar != nil {
		thumb := ThumbnailURL(*u.Avatar)
		resp.AvatarThumbnail = &thumb
	}
	return resp
}

// ThumbnailURL points at the thumb.jpg stored next to an avatar original.
func ThumbnailURL(avatarURL string) string {
	i := strings.LastIndex(avatarURL, "/")
	if i < 0 {
		return ThumbnailName
	}
	return avatarURL[:i+1] + ThumbnailName
}

// AvatarPrefix is the folder a fresh avatar upload is written to.
func AvatarPrefix(userID, avatarID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s/", AvatarDir, userID, avatarID)
}
