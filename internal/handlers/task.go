package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskforge-dev/taskforge/internal/apperr"
	"github.com/taskforge-dev/taskforge/internal/authz"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/store"
	"github.com/taskforge-dev/taskforge/internal/utils"
)

type CreateTaskRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	ProjectID    uint   `json:"projectId" binding:"required"`
	AssignedToID *uint  `json:"assignedToId"`
}

type UpdateTaskRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	AssignedToID *uint   `json:"assignedToId"`
}

type TaskResponse struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ProjectID    uint   `json:"projectId"`
	AssignedToID *uint  `json:"assignedToId"`
	CreatedByID  uint   `json:"createdById"`
}

func newTaskResponse(task *models.Task) TaskResponse {
	return TaskResponse{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		ProjectID:    task.ProjectID,
		AssignedToID: task.AssignedToID,
		CreatedByID:  task.CreatedByID,
	}
}

type TaskHandler struct {
	tasks  store.TaskStore
	users  store.UserStore
	engine *authz.Engine
	logger *slog.Logger
}

func NewTaskHandler(tasks store.TaskStore, users store.UserStore, engine *authz.Engine, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, users: users, engine: engine, logger: logger}
}

func (h *TaskHandler) Create(ctx *gin.Context) {
	principal, err := utils.CurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateTaskRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if _, err := h.engine.CanCreateTask(ctx.Request.Context(), principal, body.ProjectID); err != nil {
		respondError(ctx, err)
		return
	}

	if body.AssignedToID != nil {
		if _, err := h.users.FindByID(ctx.Request.Context(), *body.AssignedToID); err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				respondError(ctx, apperr.NotFound("Assigned user not found"))
				return
			}
			respondError(ctx, err)
			return
		}
	}

	task := models.Task{
		Title:        body.Title,
		Description:  body.Description,
		ProjectID:    body.ProjectID,
		AssignedToID: body.AssignedToID,
		CreatedByID:  principal.ID,
	}

	if err := h.tasks.Create(ctx.Request.Context(), &task); err != nil {
		h.logger.Error("failed to create task", "error", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, newTaskResponse(&task))
}

func (h *TaskHandler) List(ctx *gin.Context) {
	principal, err := utils.CurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	tasks, err := h.engine.ListTasks(ctx.Request.Context(), principal)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]TaskResponse, 0, len(tasks))

	for i := range tasks {
		response = append(response, newTaskResponse(&tasks[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *TaskHandler) Get(ctx *gin.Context) {
	principal, err := utils.CurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	task, err := h.engine.CanAccessTask(ctx.Request.Context(), principal, id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *TaskHandler) Update(ctx *gin.Context) {
	principal, err := utils.CurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var body UpdateTaskRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.engine.CanAccessTask(ctx.Request.Context(), principal, id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if body.AssignedToID != nil {
		if _, err := h.users.FindByID(ctx.Request.Context(), *body.AssignedToID); err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				respondError(ctx, apperr.NotFound("Assigned user not found"))
				return
			}
			respondError(ctx, err)
			return
		}
		task.AssignedToID = body.AssignedToID
	}

	if body.Title != nil {
		task.Title = *body.Title
	}

	if body.Description != nil {
		task.Description = *body.Description
	}

	if err := h.tasks.Update(ctx.Request.Context(), task); err != nil {
		h.logger.Error("failed to update task", "error", err, "taskId", id)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *TaskHandler) Delete(ctx *gin.Context) {
	principal, err := utils.CurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	if _, err := h.engine.CanAccessTask(ctx.Request.Context(), principal, id); err != nil {
		respondError(ctx, err)
		return
	}

	if err := h.tasks.Delete(ctx.Request.Context(), id); err != nil {
		h.logger.Error("failed to delete task", "error", err, "taskId", id)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
