package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskforge-dev/taskforge/internal/apperr"
	"github.com/taskforge-dev/taskforge/internal/auth"
	"github.com/taskforge-dev/taskforge/internal/authz"
	"github.com/taskforge-dev/taskforge/internal/store"
	"github.com/taskforge-dev/taskforge/internal/types"
	"github.com/taskforge-dev/taskforge/internal/utils"
)

// UpdateProfileRequest deliberately has no role field: the profile update
// allow-list is email and password only.
type UpdateProfileRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=8"`
}

type UserHandler struct {
	users  store.UserStore
	engine *authz.Engine
	logger *slog.Logger
}

func NewUserHandler(users store.UserStore, engine *authz.Engine, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, engine: engine, logger: logger}
}

func (h *UserHandler) Me(ctx *gin.Context) {
	principal, err := utils.CurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.users.FindByID(ctx.Request.Context(), principal.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": types.NewUserResponse(user)})
}

func (h *UserHandler) UpdateMe(ctx *gin.Context) {
	principal, err := utils.CurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateProfileRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Email == "" && body.Password == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	user, err := h.users.FindByID(ctx.Request.Context(), principal.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if body.Email != "" {
		newEmail := strings.ToLower(strings.TrimSpace(body.Email))

		if newEmail != user.Email {
			_, err := h.users.FindByEmail(ctx.Request.Context(), newEmail)
			if err == nil {
				respondError(ctx, apperr.Conflict("User already exists"))
				return
			}
			if !apperr.IsKind(err, apperr.KindNotFound) {
				respondError(ctx, err)
				return
			}
		}

		user.Email = newEmail
	}

	if body.Password != "" {
		hash, err := auth.HashPassword(body.Password)
		if err != nil {
			h.logger.Error("failed to hash password", "error", err)
			respondError(ctx, apperr.Storage(err))
			return
		}
		user.PasswordHash = hash
	}

	if err := h.users.Update(ctx.Request.Context(), user); err != nil {
		h.logger.Error("failed to update user", "error", err, "userId", user.ID)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": types.NewUserResponse(user)})
}

func (h *UserHandler) List(ctx *gin.Context) {
	principal, err := utils.CurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.engine.CanListUsers(principal); err != nil {
		respondError(ctx, err)
		return
	}

	users, err := h.users.List(ctx.Request.Context())

	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		respondError(ctx, err)
		return
	}

	response := make([]types.UserResponse, 0, len(users))

	for i := range users {
		response = append(response, types.NewUserResponse(&users[i]))
	}

	ctx.JSON(http.StatusOK, response)
}
