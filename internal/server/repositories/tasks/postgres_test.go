package tasks

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/avolkau/taskkeeper/internal/common"
	"github.com/avolkau/taskkeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const taskColumnsRE = `id,\s*user_id,\s*title,\s*description,\s*done,\s*created_at,\s*updated_at`

var (
	insertQuery       = `(?s)^INSERT\s+INTO\s+tasks\s*\(user_id,\s*title,\s*description,\s*done\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`
	selectByUserQuery = `(?s)^SELECT\s+` + taskColumnsRE + `\s+FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+id\s+ASC\s*$`
	scopedFindQuery   = `(?s)^SELECT\s+` + taskColumnsRE + `\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`
	unscopedFindQuery = `(?s)^SELECT\s+` + taskColumnsRE + `\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s*$`
	updateQuery       = `(?s)^UPDATE\s+tasks\s+SET\s+title\s*=\s*\$1,\s*description\s*=\s*\$2,\s*done\s*=\s*\$3,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$4\s+RETURNING\s+updated_at\s*$`
	deleteQuery       = `(?s)^DELETE\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s*$`
)

func taskRows(ts ...*models.Task) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "description", "done", "created_at", "updated_at"})
	for _, task := range ts {
		var desc any
		if task.Description != nil {
			desc = *task.Description
		}
		rows.AddRow(task.ID, task.UserID, task.Title, desc, task.Done, task.CreatedAt, task.UpdatedAt)
	}
	return rows
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(insertQuery).
		WithArgs(int64(1), "Buy milk", nil, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))

	got, err := repo.Create(context.Background(), &models.Task{UserID: 1, Title: "Buy milk"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 10 || got.Title != "Buy milk" || got.Done {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestSelectByUser_ReturnsOrderedTasks(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	desc := "2 liters"
	mock.ExpectQuery(selectByUserQuery).
		WithArgs(int64(1)).
		WillReturnRows(taskRows(
			&models.Task{ID: 1, UserID: 1, Title: "Buy milk", Description: &desc, CreatedAt: now, UpdatedAt: now},
			&models.Task{ID: 2, UserID: 1, Title: "Walk dog", Done: true, CreatedAt: now, UpdatedAt: now},
		))

	got, err := repo.SelectByUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("SelectByUser error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}
	if got[0].Description == nil || *got[0].Description != "2 liters" {
		t.Fatalf("expected description to survive scan, got %+v", got[0])
	}
	if got[1].Description != nil {
		t.Fatalf("expected nil description for NULL column, got %+v", got[1])
	}
}

func TestSelectByUser_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectByUserQuery).
		WithArgs(int64(9)).
		WillReturnRows(taskRows())

	got, err := repo.SelectByUser(context.Background(), 9)
	if err != nil {
		t.Fatalf("SelectByUser error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestFindByIDForUser_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(scopedFindQuery).
		WithArgs(int64(5), int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByIDForUser(context.Background(), 5, 2)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestFindByID_CarriesOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(unscopedFindQuery).
		WithArgs(int64(5)).
		WillReturnRows(taskRows(&models.Task{ID: 5, UserID: 3, Title: "secret", CreatedAt: now, UpdatedAt: now}))

	got, err := repo.FindByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if got.UserID != 3 {
		t.Fatalf("expected owner id to be scanned, got %+v", got)
	}
}

func TestUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(updateQuery).
		WithArgs("New title", nil, true, int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

	got, err := repo.Update(context.Background(), &models.Task{ID: 5, Title: "New title", Done: true})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Title != "New title" || !got.Done {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(updateQuery).
		WithArgs("t", nil, false, int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), &models.Task{ID: 404, Title: "t"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQuery).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQuery).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 404); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestSelectByUser_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectByUserQuery).
		WithArgs(int64(1)).
		WillReturnError(errors.New("db down"))

	_, err := repo.SelectByUser(context.Background(), 1)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
