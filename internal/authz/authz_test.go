package authz

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge-dev/taskforge/internal/apperr"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/store"
	"github.com/taskforge-dev/taskforge/internal/types"
)

type fixture struct {
	engine *Engine
	store  *store.MemoryStore

	managerA  types.Principal
	managerB  types.Principal
	developer types.Principal
	outsider  types.Principal // developer not assigned to the task
	user      types.Principal
	guest     types.Principal // role outside the closed set

	project models.Project
	task    models.Task
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &fixture{
		engine: NewEngine(st.Projects(), st.Tasks(), logger),
		store:  st,
	}

	users := map[string]*models.User{
		"managerA":  {Email: "a@test.com", Role: models.RoleManager},
		"managerB":  {Email: "b@test.com", Role: models.RoleManager},
		"developer": {Email: "d@test.com", Role: models.RoleDeveloper},
		"outsider":  {Email: "e@test.com", Role: models.RoleDeveloper},
		"user":      {Email: "u@test.com", Role: models.RoleUser},
	}
	for _, u := range []string{"managerA", "managerB", "developer", "outsider", "user"} {
		require.NoError(t, st.Users().Create(ctx, users[u]))
	}

	principal := func(u *models.User) types.Principal {
		return types.Principal{ID: u.ID, Email: u.Email, Role: u.Role}
	}
	f.managerA = principal(users["managerA"])
	f.managerB = principal(users["managerB"])
	f.developer = principal(users["developer"])
	f.outsider = principal(users["outsider"])
	f.user = principal(users["user"])
	f.guest = types.Principal{ID: 99, Email: "g@test.com", Role: "guest"}

	f.project = models.Project{Title: "P1", OwnerID: f.managerA.ID}
	require.NoError(t, st.Projects().Create(ctx, &f.project))

	assignee := users["developer"].ID
	f.task = models.Task{
		Title:        "T1",
		ProjectID:    f.project.ID,
		AssignedToID: &assignee,
		CreatedByID:  f.managerA.ID,
	}
	require.NoError(t, st.Tasks().Create(ctx, &f.task))

	return f
}

func assertForbidden(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden), "expected forbidden, got %v", err)
}

func TestCanCreateProject(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.engine.CanCreateProject(f.managerA))
	assertForbidden(t, f.engine.CanCreateProject(f.developer))
	assertForbidden(t, f.engine.CanCreateProject(f.user))
	assertForbidden(t, f.engine.CanCreateProject(f.guest))
}

func TestCanAccessProjectOwnershipIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	project, err := f.engine.CanAccessProject(ctx, f.managerA, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, f.managerA.ID, project.OwnerID)

	_, err = f.engine.CanAccessProject(ctx, f.managerB, f.project.ID)
	assertForbidden(t, err)
}

func TestCanAccessProjectDeniesNonManagersBeforeLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A non-manager probing a nonexistent project gets 403, not 404: no
	// lookup happens, so existence cannot be probed.
	_, err := f.engine.CanAccessProject(ctx, f.developer, 9999)
	assertForbidden(t, err)

	_, err = f.engine.CanAccessProject(ctx, f.guest, 9999)
	assertForbidden(t, err)

	// A manager probing a nonexistent project gets 404.
	_, err = f.engine.CanAccessProject(ctx, f.managerA, 9999)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCanCreateTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.CanCreateTask(ctx, f.managerA, f.project.ID)
	assert.NoError(t, err)

	_, err = f.engine.CanCreateTask(ctx, f.developer, f.project.ID)
	require.Error(t, err)
	assertForbidden(t, err)
	assert.Equal(t, "Developers cannot create tasks", apperr.Message(err))

	_, err = f.engine.CanCreateTask(ctx, f.user, f.project.ID)
	assertForbidden(t, err)

	_, err = f.engine.CanCreateTask(ctx, f.guest, f.project.ID)
	assertForbidden(t, err)
}

func TestCanCreateTaskExistenceBeforeOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Missing project reports 404 even for a manager who would not own it.
	_, err := f.engine.CanCreateTask(ctx, f.managerB, 9999)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	// Existing project owned by someone else reports 403.
	_, err = f.engine.CanCreateTask(ctx, f.managerB, f.project.ID)
	assertForbidden(t, err)
}

func TestCanAccessTaskManagerScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.engine.CanAccessTask(ctx, f.managerA, f.task.ID)
	require.NoError(t, err)
	assert.Equal(t, f.task.ID, task.ID)

	_, err = f.engine.CanAccessTask(ctx, f.managerB, f.task.ID)
	assertForbidden(t, err)
}

func TestCanAccessTaskDeveloperScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.engine.CanAccessTask(ctx, f.developer, f.task.ID)
	require.NoError(t, err)
	assert.Equal(t, f.task.ID, task.ID)

	_, err = f.engine.CanAccessTask(ctx, f.outsider, f.task.ID)
	assertForbidden(t, err)
}

func TestCanAccessTaskFailClosed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.CanAccessTask(ctx, f.user, f.task.ID)
	assertForbidden(t, err)

	_, err = f.engine.CanAccessTask(ctx, f.guest, f.task.ID)
	assertForbidden(t, err)
}

func TestCanAccessTaskMissingTask(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.CanAccessTask(context.Background(), f.managerA, 9999)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCanAccessTaskUnassignedTaskDeniesDeveloper(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	unassigned := models.Task{Title: "T2", ProjectID: f.project.ID, CreatedByID: f.managerA.ID}
	require.NoError(t, f.store.Tasks().Create(ctx, &unassigned))

	_, err := f.engine.CanAccessTask(ctx, f.developer, unassigned.ID)
	assertForbidden(t, err)
}

func TestListTasksScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Second project owned by manager B with its own task.
	projectB := models.Project{Title: "P2", OwnerID: f.managerB.ID}
	require.NoError(t, f.store.Projects().Create(ctx, &projectB))
	taskB := models.Task{Title: "T3", ProjectID: projectB.ID, CreatedByID: f.managerB.ID}
	require.NoError(t, f.store.Tasks().Create(ctx, &taskB))

	tasksA, err := f.engine.ListTasks(ctx, f.managerA)
	require.NoError(t, err)
	require.Len(t, tasksA, 1)
	assert.Equal(t, f.task.ID, tasksA[0].ID)

	tasksDev, err := f.engine.ListTasks(ctx, f.developer)
	require.NoError(t, err)
	require.Len(t, tasksDev, 1)
	assert.Equal(t, f.task.ID, tasksDev[0].ID)

	tasksOutsider, err := f.engine.ListTasks(ctx, f.outsider)
	require.NoError(t, err)
	assert.Empty(t, tasksOutsider)

	_, err = f.engine.ListTasks(ctx, f.user)
	assertForbidden(t, err)

	_, err = f.engine.ListTasks(ctx, f.guest)
	assertForbidden(t, err)
}

func TestCanListUsers(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.engine.CanListUsers(f.managerA))
	assertForbidden(t, f.engine.CanListUsers(f.developer))
	assertForbidden(t, f.engine.CanListUsers(f.user))
	assertForbidden(t, f.engine.CanListUsers(f.guest))
}
