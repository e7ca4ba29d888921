package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskforge-dev/taskforge/internal/authz"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/store"
	"github.com/taskforge-dev/taskforge/internal/utils"
)

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type ProjectResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OwnerID     uint   `json:"ownerId"`
}

func newProjectResponse(project *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		OwnerID:     project.OwnerID,
	}
}

type ProjectHandler struct {
	projects store.ProjectStore
	engine   *authz.Engine
	logger   *slog.Logger
}

func NewProjectHandler(projects store.ProjectStore, engine *authz.Engine, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, engine: engine, logger: logger}
}

func (h *ProjectHandler) Create(ctx *gin.Context) {
	principal, err := utils.CurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.engine.CanCreateProject(principal); err != nil {
		respondError(ctx, err)
		return
	}

	var body CreateProjectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project := models.Project{
		Title:       body.Title,
		Description: body.Description,
		OwnerID:     principal.ID,
	}

	if err := h.projects.Create(ctx.Request.Context(), &project); err != nil {
		h.logger.Error("failed to create project", "error", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, newProjectResponse(&project))
}

func (h *ProjectHandler) List(ctx *gin.Context) {
	principal, err := utils.CurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.engine.CanListProjects(principal); err != nil {
		respondError(ctx, err)
		return
	}

	projects, err := h.projects.ListByOwner(ctx.Request.Context(), principal.ID)

	if err != nil {
		h.logger.Error("failed to list projects", "error", err)
		respondError(ctx, err)
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for i := range projects {
		response = append(response, newProjectResponse(&projects[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *ProjectHandler) Get(ctx *gin.Context) {
	principal, err := utils.CurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	project, err := h.engine.CanAccessProject(ctx.Request.Context(), principal, id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newProjectResponse(project))
}

func (h *ProjectHandler) Update(ctx *gin.Context) {
	principal, err := utils.CurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var body UpdateProjectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.engine.CanAccessProject(ctx.Request.Context(), principal, id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	project.Title = body.Title
	project.Description = body.Description

	if err := h.projects.Update(ctx.Request.Context(), project); err != nil {
		h.logger.Error("failed to update project", "error", err, "projectId", id)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newProjectResponse(project))
}

func (h *ProjectHandler) Delete(ctx *gin.Context) {
	principal, err := utils.CurrentPrincipal(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := utils.GetIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if _, err := h.engine.CanAccessProject(ctx.Request.Context(), principal, id); err != nil {
		respondError(ctx, err)
		return
	}

	if err := h.projects.Delete(ctx.Request.Context(), id); err != nil {
		h.logger.Error("failed to delete project", "error", err, "projectId", id)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
