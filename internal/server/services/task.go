package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avolkau/taskkeeper/internal/common"
	"github.com/avolkau/taskkeeper/internal/server/models"
	"github.com/avolkau/taskkeeper/internal/server/repositories/repomanager"
)

// TaskPatch carries a partial task update. Nil fields are left unchanged; a
// present-but-empty Description clears the stored value.
type TaskPatch struct {
	Title       *string
	Description *string
	Done        *bool
}

// TaskService implements task CRUD with per-task ownership enforcement.
//
// Reads (Get/List) are scoped to the caller's id, so a foreign task looks
// absent. Update and Delete instead resolve the task first and answer
// common.ErrorForbidden when the caller is not the owner.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// Create stores a new task owned by userID. New tasks always start not done.
func (s *TaskService) Create(ctx context.Context, userID int64, title string, description *string) (*models.Task, error) {
	task := &models.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Done:        false,
	}

	repo := s.repomanager.Tasks(s.db)
	created, err := repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}

	return created, nil
}

// ListForUser returns the caller's tasks ordered by id.
func (s *TaskService) ListForUser(ctx context.Context, userID int64) ([]*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)
	return repo.SelectByUser(ctx, userID)
}

// GetForUser resolves a single task scoped to the caller. A task owned by
// someone else yields common.ErrorNotFound, same as a missing one.
func (s *TaskService) GetForUser(ctx context.Context, id, userID int64) (*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)
	return repo.FindByIDForUser(ctx, id, userID)
}

// Update applies a partial update to the task after re-verifying ownership
// server-side.
func (s *TaskService) Update(ctx context.Context, id, userID int64, patch TaskPatch) (*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)

	task, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, common.ErrorForbidden
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		if *patch.Description == "" {
			task.Description = nil
		} else {
			d := *patch.Description
			task.Description = &d
		}
	}
	if patch.Done != nil {
		task.Done = *patch.Done
	}

	updated, err := repo.Update(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error updating task: %w", err)
	}

	return updated, nil
}

// Delete removes the task after re-verifying ownership server-side.
func (s *TaskService) Delete(ctx context.Context, id, userID int64) error {
	repo := s.repomanager.Tasks(s.db)

	task, err := repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if task.UserID != userID {
		return common.ErrorForbidden
	}

	return repo.Delete(ctx, task.ID)
}
