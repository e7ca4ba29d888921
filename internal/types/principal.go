package types

import "github.com/taskforge-dev/taskforge/internal/models"

// Principal is the per-request authenticated identity, derived once from the
// access token and discarded at the end of the request. It is never persisted.
type Principal struct {
	ID    uint        `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// UserResponse is the public-safe projection of a user. The password hash is
// never part of any response.
type UserResponse struct {
	ID    uint        `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}
}
