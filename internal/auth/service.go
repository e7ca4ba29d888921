package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taskforge-dev/taskforge/internal/apperr"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/store"
	"github.com/taskforge-dev/taskforge/internal/types"
)

const msgInvalidCredentials = "Invalid email or password"

// Service orchestrates the register/login/refresh/logout session lifecycle on
// top of the token service and the user store.
type Service struct {
	users  store.UserStore
	tokens *TokenService
	logger *slog.Logger
}

// SessionResult carries a freshly issued token pair plus the public user
// projection, returned by login and refresh alike.
type SessionResult struct {
	AccessToken  string             `json:"accessToken"`
	RefreshToken string             `json:"refreshToken"`
	User         types.UserResponse `json:"user"`
}

func NewService(users store.UserStore, tokens *TokenService, logger *slog.Logger) *Service {
	return &Service{users: users, tokens: tokens, logger: logger}
}

// Register creates a user with the supplied role, defaulting to "user".
// The role is caller-supplied and unverified for now; restricting manager and
// developer self-assignment to an invite flow is tracked separately.
func (s *Service) Register(ctx context.Context, email, password string, role models.Role) (types.UserResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return types.UserResponse{}, apperr.Validation("Invalid role")
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return types.UserResponse{}, apperr.Conflict("User already exists")
	}
	if !apperr.IsKind(err, apperr.KindNotFound) {
		return types.UserResponse{}, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return types.UserResponse{}, apperr.Storage(err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return types.UserResponse{}, err
	}

	s.logger.Info("user registered", "userId", user.ID, "role", user.Role)
	return types.NewUserResponse(&user), nil
}

// Login authenticates by email and password. Unknown email and wrong password
// produce the same error, so callers cannot enumerate accounts.
func (s *Service) Login(ctx context.Context, email, password string) (*SessionResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Auth(msgInvalidCredentials)
		}
		return nil, err
	}

	if !CheckPassword(user.PasswordHash, password) {
		return nil, apperr.Auth(msgInvalidCredentials)
	}

	accessToken, refreshToken, err := s.tokens.IssuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "userId", user.ID, "role", user.Role)
	return &SessionResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         types.NewUserResponse(user),
	}, nil
}

// Refresh consumes the presented refresh token (single use) and issues a new
// pair. The user record is re-resolved from the store rather than trusted
// from the old claims; the role may have changed since the token was issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*SessionResult, error) {
	userID, err := s.tokens.ConsumeRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Auth(msgInvalidRefreshToken)
		}
		return nil, err
	}

	accessToken, newRefreshToken, err := s.tokens.IssuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("session refreshed", "userId", user.ID)
	return &SessionResult{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		User:         types.NewUserResponse(user),
	}, nil
}

// Logout revokes the refresh token. Revoking an already-consumed or unknown
// token succeeds, so repeated logouts are harmless.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.RevokeRefreshToken(ctx, refreshToken)
}
