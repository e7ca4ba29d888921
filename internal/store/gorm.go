package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/taskforge-dev/taskforge/internal/apperr"
	"github.com/taskforge-dev/taskforge/internal/models"
)

// GormStore implements Store on top of an injected *gorm.DB handle.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserStore                 { return &gormUsers{db: s.db} }
func (s *GormStore) Projects() ProjectStore           { return &gormProjects{db: s.db} }
func (s *GormStore) Tasks() TaskStore                 { return &gormTasks{db: s.db} }
func (s *GormStore) RefreshTokens() RefreshTokenStore { return &gormRefreshTokens{db: s.db} }

type gormUsers struct {
	db *gorm.DB
}

func (s *gormUsers) Create(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("User already exists")
		}
		return apperr.Storage(err)
	}
	return nil
}

func (s *gormUsers) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Storage(err)
	}
	return &user, nil
}

func (s *gormUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Storage(err)
	}
	return &user, nil
}

func (s *gormUsers) Update(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("User already exists")
		}
		return apperr.Storage(err)
	}
	return nil
}

func (s *gormUsers) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return users, nil
}

type gormProjects struct {
	db *gorm.DB
}

func (s *gormProjects) Create(ctx context.Context, project *models.Project) error {
	if err := s.db.WithContext(ctx).Create(project).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (s *gormProjects) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Project not found")
		}
		return nil, apperr.Storage(err)
	}
	return &project, nil
}

func (s *gormProjects) ListByOwner(ctx context.Context, ownerID uint) ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&projects).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return projects, nil
}

func (s *gormProjects) Update(ctx context.Context, project *models.Project) error {
	if err := s.db.WithContext(ctx).Save(project).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (s *gormProjects) Delete(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.Project{}, id).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}

type gormTasks struct {
	db *gorm.DB
}

func (s *gormTasks) Create(ctx context.Context, task *models.Task) error {
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (s *gormTasks) FindByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.WithContext(ctx).Preload("Project").First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Task not found")
		}
		return nil, apperr.Storage(err)
	}
	return &task, nil
}

func (s *gormTasks) ListByProjectOwner(ctx context.Context, ownerID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("projects.owner_id = ?", ownerID).
		Order("tasks.id").
		Find(&tasks).Error
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return tasks, nil
}

func (s *gormTasks) ListByAssignee(ctx context.Context, userID uint) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.WithContext(ctx).Where("assigned_to_id = ?", userID).Order("id").Find(&tasks).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return tasks, nil
}

func (s *gormTasks) Update(ctx context.Context, task *models.Task) error {
	if err := s.db.WithContext(ctx).Save(task).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (s *gormTasks) Delete(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.Task{}, id).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}

type gormRefreshTokens struct {
	db *gorm.DB
}

func (s *gormRefreshTokens) Create(ctx context.Context, token *models.RefreshToken) error {
	if err := s.db.WithContext(ctx).Create(token).Error; err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (s *gormRefreshTokens) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var row models.RefreshToken
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Refresh token not found")
		}
		return nil, apperr.Storage(err)
	}
	return &row, nil
}

func (s *gormRefreshTokens) DeleteByToken(ctx context.Context, token string) (int64, error) {
	// Unscoped hard-deletes the row; a soft delete would leave the unique
	// token value behind and block reissuing.
	result := s.db.WithContext(ctx).Unscoped().Where("token = ?", token).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return 0, apperr.Storage(result.Error)
	}
	return result.RowsAffected, nil
}

func (s *gormRefreshTokens) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Unscoped().Where("expires_at < ?", now).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return 0, apperr.Storage(result.Error)
	}
	return result.RowsAffected, nil
}
