package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkau/taskkeeper/internal/common"
	"github.com/avolkau/taskkeeper/internal/dbx"
	"github.com/avolkau/taskkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {

	query :=
		`INSERT INTO tasks (user_id, title, description, done)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		task.UserID, task.Title, task.Description, task.Done).
		Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) SelectByUser(ctx context.Context, userID int64) ([]*models.Task, error) {
	query :=
		`SELECT id, user_id, title, description, done, created_at, updated_at FROM tasks
		 WHERE user_id = $1
		 ORDER BY id ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Task, 0)
	for rows.Next() {
		task := &models.Task{}
		if err := rows.Scan(&task.ID, &task.UserID, &task.Title, &task.Description,
			&task.Done, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) FindByIDForUser(ctx context.Context, id int64, userID int64) (*models.Task, error) {
	query :=
		`SELECT id, user_id, title, description, done, created_at, updated_at FROM tasks
		 WHERE id = $1 AND user_id = $2
		 `

	return r.findOne(ctx, query, id, userID)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	query :=
		`SELECT id, user_id, title, description, done, created_at, updated_at FROM tasks
		 WHERE id = $1
		 `

	return r.findOne(ctx, query, id)
}

func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`UPDATE tasks
		 SET title = $1, description = $2, done = $3, updated_at = now()
		 WHERE id = $4
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.Done, task.ID).Scan(&task.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM tasks WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, args ...any) (*models.Task, error) {
	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&task.ID, &task.UserID, &task.Title, &task.Description,
			&task.Done, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}
