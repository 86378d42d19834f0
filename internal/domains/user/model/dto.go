package model

import (
	"time"

	"github.com/google/uuid"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// RegisterRequest holds the four fields required at sign-up.
type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UpdateMeRequest is a partial update; nil fields are left untouched.
type UpdateMeRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type RegisterResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

type UserResponse struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	IsStaff         bool      `json:"is_staff"`
	Avatar          *string   `json:"avatar"`
	AvatarThumbnail *string   `json:"avatar_thumbnail"`
	DateJoined      time.Time `json:"date_joined"`
}

// UserList is one page of users plus the total, as stored in the list cache.
type UserList struct {
	Count   int64           `json:"count"`
	Results []*UserResponse `json:"results"`
}
