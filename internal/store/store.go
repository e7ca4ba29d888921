// Package store describes the persistence operations the services and the
// authorization engine depend on, plus the GORM-backed implementation used in
// production and an in-memory implementation used in tests.
package store

import (
	"context"
	"time"

	"github.com/taskforge-dev/taskforge/internal/models"
)

// Store aggregates the per-entity stores behind one injectable handle.
type Store interface {
	Users() UserStore
	Projects() ProjectStore
	Tasks() TaskStore
	RefreshTokens() RefreshTokenStore
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
}

type ProjectStore interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id uint) (*models.Project, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error
}

type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	// FindByID resolves the task together with its project so ownership can
	// be evaluated without a second lookup.
	FindByID(ctx context.Context, id uint) (*models.Task, error)
	ListByProjectOwner(ctx context.Context, ownerID uint) ([]models.Task, error)
	ListByAssignee(ctx context.Context, userID uint) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uint) error
}

type RefreshTokenStore interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	// DeleteByToken reports how many rows were removed. The per-row atomic
	// delete is what enforces single-use refresh tokens under concurrency:
	// the first caller observes 1, every later caller observes 0.
	DeleteByToken(ctx context.Context, token string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
