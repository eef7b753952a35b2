package database

import (
	"errors"

	"github.com/taskstack/task-management/internal/models"
	"gorm.io/gorm"
)

// Repository is the generic CRUD surface shared by all entity repositories.
// Reads run immediately against the session; writes are enqueued on the owning
// unit of work and applied in one transaction at SaveChanges.
type Repository[T any] struct {
	uow *UnitOfWork
}

func newRepository[T any](uow *UnitOfWork) *Repository[T] {
	return &Repository[T]{uow: uow}
}

// GetByID returns (nil, nil) when the row does not exist.
func (r *Repository[T]) GetByID(id uint) (*T, error) {
	var entity T
	if err := r.uow.db.First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

func (r *Repository[T]) List(offset, limit int) ([]T, error) {
	var entities []T
	err := r.uow.db.Offset(offset).Limit(limit).Find(&entities).Error
	return entities, err
}

func (r *Repository[T]) All() ([]T, error) {
	var entities []T
	err := r.uow.db.Find(&entities).Error
	return entities, err
}

func (r *Repository[T]) Count() (int64, error) {
	var entity T
	var count int64
	err := r.uow.db.Model(&entity).Count(&count).Error
	return count, err
}

func (r *Repository[T]) Add(entity *T) {
	r.uow.enqueue(func(tx *gorm.DB) error {
		return tx.Create(entity).Error
	})
}

func (r *Repository[T]) Update(entity *T) {
	r.uow.enqueue(func(tx *gorm.DB) error {
		return tx.Save(entity).Error
	})
}

func (r *Repository[T]) Delete(entity *T) {
	r.uow.enqueueDelete(func(tx *gorm.DB) error {
		return tx.Delete(entity).Error
	})
}

type UserRepository struct {
	*Repository[models.User]
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	if email == "" {
		return nil, nil
	}
	var user models.User
	if err := r.uow.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmailAndVerificationCode(email, code string) (*models.User, error) {
	if email == "" || code == "" {
		return nil, nil
	}
	var user models.User
	err := r.uow.db.Where("email = ? AND verification_code = ?", email, code).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmailAndResetToken(email, token string) (*models.User, error) {
	if email == "" || token == "" {
		return nil, nil
	}
	var user models.User
	err := r.uow.db.Where("email = ? AND password_reset_token = ?", email, token).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

type RefreshTokenRepository struct {
	*Repository[models.RefreshToken]
}

func (r *RefreshTokenRepository) GetByToken(token string) (*models.RefreshToken, error) {
	if token == "" {
		return nil, nil
	}
	var refreshToken models.RefreshToken
	if err := r.uow.db.Where("token = ?", token).First(&refreshToken).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &refreshToken, nil
}

// Revoke enqueues a conditional revocation. The update only matches an
// unrevoked row; anything else aborts the transaction with
// ErrRefreshTokenSpent, so of two concurrent exchanges exactly one wins.
func (r *RefreshTokenRepository) Revoke(token string) {
	r.uow.enqueue(func(tx *gorm.DB) error {
		result := tx.Model(&models.RefreshToken{}).
			Where("token = ? AND is_revoked = ?", token, false).
			Update("is_revoked", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return ErrRefreshTokenSpent
		}
		return nil
	})
}

type ProjectRepository struct {
	*Repository[models.Project]
}

func (r *ProjectRepository) GetWithTasks(id uint) (*models.Project, error) {
	var project models.Project
	if err := r.uow.db.Preload("Tasks").First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

type TaskRepository struct {
	*Repository[models.Task]
}

func (r *TaskRepository) GetWithRelations(id uint) (*models.Task, error) {
	var task models.Task
	err := r.uow.db.
		Preload("Labels").
		Preload("Assignees").
		Preload("Comments").
		First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListByProject(projectID uint, offset, limit int) ([]models.Task, error) {
	var tasks []models.Task
	err := r.uow.db.Where("project_id = ?", projectID).
		Offset(offset).Limit(limit).Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) AppendLabel(task *models.Task, label *models.Label) {
	r.uow.enqueue(func(tx *gorm.DB) error {
		return tx.Model(task).Association("Labels").Append(label)
	})
}

func (r *TaskRepository) AppendAssignee(task *models.Task, user *models.User) {
	r.uow.enqueue(func(tx *gorm.DB) error {
		return tx.Model(task).Association("Assignees").Append(user)
	})
}

type LabelRepository struct {
	*Repository[models.Label]
}

func (r *LabelRepository) GetByNameAndCreator(name string, createdByID uint) (*models.Label, error) {
	if name == "" || createdByID == 0 {
		return nil, nil
	}
	var label models.Label
	err := r.uow.db.Where("name = ? AND created_by_id = ?", name, createdByID).First(&label).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &label, nil
}

type CommentRepository struct {
	*Repository[models.Comment]
}

func (r *CommentRepository) ListByTask(taskID uint, offset, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.uow.db.Where("task_id = ?", taskID).
		Order("created_at").
		Offset(offset).Limit(limit).Find(&comments).Error
	return comments, err
}
