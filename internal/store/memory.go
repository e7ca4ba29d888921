package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taskforge-dev/taskforge/internal/apperr"
	"github.com/taskforge-dev/taskforge/internal/models"
)

// MemoryStore is a mutex-guarded in-memory Store used by tests. Its delete
// semantics mirror the relational implementation: deleting a refresh token is
// atomic per row and reports the number of rows removed.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[uint]models.User
	projects map[uint]models.Project
	tasks    map[uint]models.Task
	tokens   map[string]models.RefreshToken
	nextID   uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[uint]models.User),
		projects: make(map[uint]models.Project),
		tasks:    make(map[uint]models.Task),
		tokens:   make(map[string]models.RefreshToken),
		nextID:   1,
	}
}

func (s *MemoryStore) Users() UserStore                 { return &memoryUsers{s} }
func (s *MemoryStore) Projects() ProjectStore           { return &memoryProjects{s} }
func (s *MemoryStore) Tasks() TaskStore                 { return &memoryTasks{s} }
func (s *MemoryStore) RefreshTokens() RefreshTokenStore { return &memoryRefreshTokens{s} }

func (s *MemoryStore) allocID() uint {
	id := s.nextID
	s.nextID++
	return id
}

type memoryUsers struct {
	s *MemoryStore
}

func (m *memoryUsers) Create(_ context.Context, user *models.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.users {
		if existing.Email == user.Email {
			return apperr.Conflict("User already exists")
		}
	}
	user.ID = m.s.allocID()
	user.CreatedAt = time.Now()
	m.s.users[user.ID] = *user
	return nil
}

func (m *memoryUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	user, ok := m.s.users[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	return &user, nil
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, user := range m.s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (m *memoryUsers) Update(_ context.Context, user *models.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[user.ID]; !ok {
		return apperr.NotFound("User not found")
	}
	m.s.users[user.ID] = *user
	return nil
}

func (m *memoryUsers) List(_ context.Context) ([]models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	users := make([]models.User, 0, len(m.s.users))
	for _, user := range m.s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

type memoryProjects struct {
	s *MemoryStore
}

func (m *memoryProjects) Create(_ context.Context, project *models.Project) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	project.ID = m.s.allocID()
	project.CreatedAt = time.Now()
	m.s.projects[project.ID] = *project
	return nil
}

func (m *memoryProjects) FindByID(_ context.Context, id uint) (*models.Project, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	project, ok := m.s.projects[id]
	if !ok {
		return nil, apperr.NotFound("Project not found")
	}
	return &project, nil
}

func (m *memoryProjects) ListByOwner(_ context.Context, ownerID uint) ([]models.Project, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var projects []models.Project
	for _, project := range m.s.projects {
		if project.OwnerID == ownerID {
			projects = append(projects, project)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (m *memoryProjects) Update(_ context.Context, project *models.Project) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.projects[project.ID]; !ok {
		return apperr.NotFound("Project not found")
	}
	m.s.projects[project.ID] = *project
	return nil
}

func (m *memoryProjects) Delete(_ context.Context, id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.projects, id)
	return nil
}

type memoryTasks struct {
	s *MemoryStore
}

func (m *memoryTasks) Create(_ context.Context, task *models.Task) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	task.ID = m.s.allocID()
	task.CreatedAt = time.Now()
	m.s.tasks[task.ID] = *task
	return nil
}

func (m *memoryTasks) FindByID(_ context.Context, id uint) (*models.Task, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	task, ok := m.s.tasks[id]
	if !ok {
		return nil, apperr.NotFound("Task not found")
	}
	if project, ok := m.s.projects[task.ProjectID]; ok {
		task.Project = project
	}
	return &task, nil
}

func (m *memoryTasks) ListByProjectOwner(_ context.Context, ownerID uint) ([]models.Task, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var tasks []models.Task
	for _, task := range m.s.tasks {
		project, ok := m.s.projects[task.ProjectID]
		if ok && project.OwnerID == ownerID {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (m *memoryTasks) ListByAssignee(_ context.Context, userID uint) ([]models.Task, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var tasks []models.Task
	for _, task := range m.s.tasks {
		if task.AssignedToID != nil && *task.AssignedToID == userID {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (m *memoryTasks) Update(_ context.Context, task *models.Task) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.tasks[task.ID]; !ok {
		return apperr.NotFound("Task not found")
	}
	m.s.tasks[task.ID] = *task
	return nil
}

func (m *memoryTasks) Delete(_ context.Context, id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.tasks, id)
	return nil
}

type memoryRefreshTokens struct {
	s *MemoryStore
}

func (m *memoryRefreshTokens) Create(_ context.Context, token *models.RefreshToken) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	token.ID = m.s.allocID()
	token.CreatedAt = time.Now()
	m.s.tokens[token.Token] = *token
	return nil
}

func (m *memoryRefreshTokens) FindByToken(_ context.Context, token string) (*models.RefreshToken, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	row, ok := m.s.tokens[token]
	if !ok {
		return nil, apperr.NotFound("Refresh token not found")
	}
	return &row, nil
}

func (m *memoryRefreshTokens) DeleteByToken(_ context.Context, token string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.tokens[token]; !ok {
		return 0, nil
	}
	delete(m.s.tokens, token)
	return 1, nil
}

func (m *memoryRefreshTokens) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var removed int64
	for key, row := range m.s.tokens {
		if row.ExpiresAt.Before(now) {
			delete(m.s.tokens, key)
			removed++
		}
	}
	return removed, nil
}
