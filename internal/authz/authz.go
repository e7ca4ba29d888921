// Package authz is the single place where allow/deny decisions for project
// and task operations live. Every rule is a method on Engine; handlers never
// compare roles inline.
//
// Rule table (roles: manager, developer, user; anything else is denied):
//
//	create project        manager
//	list/get/update/
//	delete project        manager, own projects only
//	create task           manager, owner of the referenced project
//	get/update/delete
//	task                  manager (project owner) or developer (assignee)
//	list tasks            manager (own projects) or developer (assigned)
//	list users            manager
package authz

import (
	"context"
	"log/slog"

	"github.com/taskforge-dev/taskforge/internal/apperr"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/store"
	"github.com/taskforge-dev/taskforge/internal/types"
)

const (
	msgManagersOnlyProjects = "Only managers can create projects"
	msgDevelopersNoTasks    = "Developers cannot create tasks"
	msgNotYourProject       = "Access denied: not your project"
	msgNotYourTask          = "Access denied: not your task"
	msgInsufficientRole     = "Access denied: insufficient role"
	msgAccessDenied         = "Access denied"
)

// Engine evaluates authorization rules. Its only side effects are the store
// lookups needed to resolve ownership; decisions re-read current state on
// every call rather than caching.
type Engine struct {
	projects store.ProjectStore
	tasks    store.TaskStore
	logger   *slog.Logger
}

func NewEngine(projects store.ProjectStore, tasks store.TaskStore, logger *slog.Logger) *Engine {
	return &Engine{projects: projects, tasks: tasks, logger: logger}
}

// CanCreateProject allows managers only. No lookup is needed, so the role
// check is the whole decision.
func (e *Engine) CanCreateProject(principal types.Principal) error {
	if principal.Role == models.RoleManager {
		return nil
	}
	return e.deny(principal, "project", 0, msgManagersOnlyProjects)
}

// CanListProjects allows managers only; the handler scopes the listing to the
// principal's own projects.
func (e *Engine) CanListProjects(principal types.Principal) error {
	if principal.Role == models.RoleManager {
		return nil
	}
	return e.deny(principal, "project", 0, msgInsufficientRole)
}

// CanAccessProject gates get/update/delete on a single project. Principals
// whose role could never be authorized are denied before the lookup, so they
// cannot probe for project existence.
func (e *Engine) CanAccessProject(ctx context.Context, principal types.Principal, projectID uint) (*models.Project, error) {
	if principal.Role != models.RoleManager {
		return nil, e.deny(principal, "project", projectID, msgInsufficientRole)
	}

	project, err := e.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != principal.ID {
		return nil, e.deny(principal, "project", projectID, msgNotYourProject)
	}
	return project, nil
}

// CanCreateTask gates task creation against the referenced project. The
// developer denial needs no lookup and runs first; for managers, project
// existence is checked before ownership, so a missing project reports 404
// rather than leaking into an ownership mismatch.
func (e *Engine) CanCreateTask(ctx context.Context, principal types.Principal, projectID uint) (*models.Project, error) {
	if principal.Role == models.RoleDeveloper {
		return nil, e.deny(principal, "project", projectID, msgDevelopersNoTasks)
	}
	if principal.Role != models.RoleManager {
		return nil, e.deny(principal, "project", projectID, msgAccessDenied)
	}

	project, err := e.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != principal.ID {
		return nil, e.deny(principal, "project", projectID, msgNotYourProject)
	}
	return project, nil
}

// CanAccessTask gates get/update/delete on a single task. Both roles that can
// ever be authorized need the task and its project resolved, so the lookup
// runs first and a missing task is a 404 for everyone. Unknown roles fall
// through to the closed default denial.
func (e *Engine) CanAccessTask(ctx context.Context, principal types.Principal, taskID uint) (*models.Task, error) {
	task, err := e.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	switch principal.Role {
	case models.RoleManager:
		if task.Project.OwnerID != principal.ID {
			return nil, e.deny(principal, "task", taskID, msgNotYourProject)
		}
		return task, nil
	case models.RoleDeveloper:
		if task.AssignedToID == nil || *task.AssignedToID != principal.ID {
			return nil, e.deny(principal, "task", taskID, msgNotYourTask)
		}
		return task, nil
	}

	return nil, e.deny(principal, "task", taskID, msgAccessDenied)
}

// ListTasks returns the tasks visible to the principal: managers see tasks in
// projects they own, developers see tasks assigned to them.
func (e *Engine) ListTasks(ctx context.Context, principal types.Principal) ([]models.Task, error) {
	switch principal.Role {
	case models.RoleManager:
		return e.tasks.ListByProjectOwner(ctx, principal.ID)
	case models.RoleDeveloper:
		return e.tasks.ListByAssignee(ctx, principal.ID)
	}
	return nil, e.deny(principal, "task", 0, msgAccessDenied)
}

// CanListUsers allows managers only.
func (e *Engine) CanListUsers(principal types.Principal) error {
	if principal.Role == models.RoleManager {
		return nil
	}
	return e.deny(principal, "user", 0, msgInsufficientRole)
}

// deny logs the audit context for the denial and returns the 403. Secrets
// never appear here, only ids and the role.
func (e *Engine) deny(principal types.Principal, resource string, resourceID uint, message string) error {
	e.logger.Warn("authorization denied",
		"userId", principal.ID,
		"role", principal.Role,
		"resource", resource,
		"resourceId", resourceID,
		"reason", message,
	)
	return apperr.Forbidden(message)
}
