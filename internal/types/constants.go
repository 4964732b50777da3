package types

import (
	"time"

	"github.com/otakulog/otakulog/internal/models"
)

const ContextUserKey = "user"

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// UserResponse is the public projection of a user. The password hash never
// leaves the store.
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// AuthError is the body of a failed register/login. Field names the input
// the message refers to, when there is one.
type AuthError struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type WatchlistResponse struct {
	Watchlist []models.WatchlistEntry `json:"watchlist"`
}

type WatchlistEntryResponse struct {
	Entry  *models.WatchlistEntry `json:"entry"`
	Action string                 `json:"action"`
}

// WatchlistEvent is pushed to a user's live connections after a watchlist write.
type WatchlistEvent struct {
	Type    string `json:"type"`
	Action  string `json:"action"`
	EntryID uint   `json:"entry_id"`
	UserID  uint   `json:"user_id"`
}
