package tasks

import (
	"context"

	"github.com/avolkau/taskkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)

	// SelectByUser returns the user's tasks ordered by id ascending.
	SelectByUser(ctx context.Context, userID int64) ([]*models.Task, error)

	// FindByIDForUser resolves a task scoped to its owner; a task belonging
	// to someone else is indistinguishable from a missing one.
	FindByIDForUser(ctx context.Context, id int64, userID int64) (*models.Task, error)

	// FindByID resolves a task regardless of owner so the caller can apply
	// its own ownership check.
	FindByID(ctx context.Context, id int64) (*models.Task, error)

	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
}
