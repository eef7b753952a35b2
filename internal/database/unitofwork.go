package database

import (
	"errors"
	"log"
	"strings"

	"github.com/taskstack/task-management/internal/models"
	"github.com/taskstack/task-management/pkg/response"
	"gorm.io/gorm"
)

// ErrRefreshTokenSpent aborts a commit when a refresh token was already
// revoked by the time the conditional revocation ran.
var ErrRefreshTokenSpent = errors.New("refresh token already revoked")

// UnitOfWork aggregates the entity repositories behind a single commit
// boundary. One unit of work is created per inbound request; repositories are
// built eagerly at construction.
type pendingOp struct {
	apply    func(tx *gorm.DB) error
	isDelete bool
}

type UnitOfWork struct {
	db      *gorm.DB
	pending []pendingOp

	Users         *UserRepository
	RefreshTokens *RefreshTokenRepository
	Projects      *ProjectRepository
	Tasks         *TaskRepository
	Labels        *LabelRepository
	Comments      *CommentRepository
}

func NewUnitOfWork(db *Database) *UnitOfWork {
	uow := &UnitOfWork{db: db.DB}
	uow.Users = &UserRepository{newRepository[models.User](uow)}
	uow.RefreshTokens = &RefreshTokenRepository{newRepository[models.RefreshToken](uow)}
	uow.Projects = &ProjectRepository{newRepository[models.Project](uow)}
	uow.Tasks = &TaskRepository{newRepository[models.Task](uow)}
	uow.Labels = &LabelRepository{newRepository[models.Label](uow)}
	uow.Comments = &CommentRepository{newRepository[models.Comment](uow)}
	return uow
}

func (u *UnitOfWork) enqueue(op func(tx *gorm.DB) error) {
	u.pending = append(u.pending, pendingOp{apply: op})
}

func (u *UnitOfWork) enqueueDelete(op func(tx *gorm.DB) error) {
	u.pending = append(u.pending, pendingOp{apply: op, isDelete: true})
}

// SaveChanges applies all pending writes in one transaction and translates
// storage failures into the operation-result convention. Expected failure
// modes (referential integrity, uniqueness, spent refresh tokens) map to
// client errors; everything else is logged and downgraded to a generic 500.
func (u *UnitOfWork) SaveChanges() *response.Operation {
	if len(u.pending) == 0 {
		return response.Successful()
	}

	hasDelete := false
	for _, op := range u.pending {
		if op.isDelete {
			hasDelete = true
		}
	}

	err := u.db.Transaction(func(tx *gorm.DB) error {
		for _, op := range u.pending {
			if err := op.apply(tx); err != nil {
				return err
			}
		}
		return nil
	})
	u.pending = nil

	if err == nil {
		return response.Successful()
	}

	switch {
	case errors.Is(err, ErrRefreshTokenSpent):
		return response.Failed(response.StatusUnauthorized).
			AddError("Invalid or expired refresh token.")
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		// The same constraint fires in both directions; pick the message
		// matching the kind of write that was pending.
		if hasDelete {
			return response.Failed(response.StatusConflict).
				AddError("Entity cannot be deleted, it's currently in use by other records")
		}
		return response.Failed(response.StatusConflict).
			AddError("Entity references a record that does not exist")
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return response.Failed(response.StatusConflict).
			AddError("A record with the same unique value already exists")
	default:
		log.Printf("unit of work: error while saving changes: %v", err)
		return response.Failed(response.StatusInternalServerError).
			AddError("Error occurred while saving changes.")
	}
}
