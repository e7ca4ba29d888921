package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskforge-dev/taskforge/internal/apperr"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/store"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

const (
	msgInvalidAccessToken  = "Invalid or expired token"
	msgInvalidRefreshToken = "Invalid or expired refresh token"
)

// AccessClaims is the fixed payload of an access token. Verification is
// stateless: everything needed to build the request principal travels in the
// token itself.
type AccessClaims struct {
	UserID uint        `json:"id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims is the fixed payload of a refresh token.
type RefreshClaims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies the two bearer token categories. Refresh
// tokens are additionally tracked server-side and are single-use.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	tokens        store.RefreshTokenStore
	now           func() time.Time
}

// NewTokenService fails when either signing secret is missing. That is a
// process-start configuration error, never a per-request condition.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, tokens store.RefreshTokenStore) (*TokenService, error) {
	if accessSecret == "" {
		return nil, errors.New("JWT access secret is not configured")
	}
	if refreshSecret == "" {
		return nil, errors.New("JWT refresh secret is not configured")
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		tokens:        tokens,
		now:           time.Now,
	}, nil
}

// withClock overrides the time source in tests.
func (s *TokenService) withClock(now func() time.Time) {
	s.now = now
}

func (s *TokenService) IssueAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := AccessClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.accessSecret)
	if err != nil {
		return "", apperr.Storage(err)
	}
	return signed, nil
}

// IssueRefreshToken signs a refresh token and persists its server-side row.
// The stored expiry, not the embedded claim, is authoritative on verification.
func (s *TokenService) IssueRefreshToken(ctx context.Context, userID uint) (string, error) {
	now := s.now()
	expiresAt := now.Add(s.refreshTTL)
	claims := RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.refreshSecret)
	if err != nil {
		return "", apperr.Storage(err)
	}

	row := models.RefreshToken{
		Token:     signed,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if err := s.tokens.Create(ctx, &row); err != nil {
		return "", err
	}
	return signed, nil
}

// IssuePair mints a fresh access+refresh pair for the user.
func (s *TokenService) IssuePair(ctx context.Context, user *models.User) (accessToken, refreshToken string, err error) {
	accessToken, err = s.IssueAccessToken(user)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = s.IssueRefreshToken(ctx, user.ID)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (s *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	var claims AccessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.accessSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, apperr.Auth(msgInvalidAccessToken)
	}
	return &claims, nil
}

// VerifyRefreshToken runs the two-step check: the token must still exist in
// the store with an unexpired stored expiry, and its signature must verify.
// A revoked token fails the first step even when cryptographically valid; a
// forged token fails the second even if a matching row existed.
func (s *TokenService) VerifyRefreshToken(ctx context.Context, tokenString string) (*RefreshClaims, error) {
	row, err := s.tokens.FindByToken(ctx, tokenString)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Auth(msgInvalidRefreshToken)
		}
		return nil, err
	}
	if row.ExpiresAt.Before(s.now()) {
		return nil, apperr.Auth(msgInvalidRefreshToken)
	}

	var claims RefreshClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.refreshSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, apperr.Auth(msgInvalidRefreshToken)
	}
	return &claims, nil
}

// ConsumeRefreshToken verifies the token and deletes its row, returning the
// owning user id. The atomic delete is the linearization point for single-use
// enforcement: of two concurrent callers, exactly one observes the row and
// wins; the other gets an auth error.
func (s *TokenService) ConsumeRefreshToken(ctx context.Context, tokenString string) (uint, error) {
	claims, err := s.VerifyRefreshToken(ctx, tokenString)
	if err != nil {
		return 0, err
	}
	deleted, err := s.tokens.DeleteByToken(ctx, tokenString)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, apperr.Auth(msgInvalidRefreshToken)
	}
	return claims.UserID, nil
}

// RevokeRefreshToken deletes the matching row. Revoking a token that does not
// exist is not an error, so logout stays idempotent.
func (s *TokenService) RevokeRefreshToken(ctx context.Context, tokenString string) error {
	_, err := s.tokens.DeleteByToken(ctx, tokenString)
	return err
}
