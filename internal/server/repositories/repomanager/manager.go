// Package repomanager wires repositories to database handles. Services pass
// either the pool or an open transaction; the manager hands back repositories
// bound to that handle.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/avolkau/taskkeeper/internal/dbx"
	"github.com/avolkau/taskkeeper/internal/server/repositories/tasks"
	"github.com/avolkau/taskkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tasks(db dbx.DBTX) tasks.Repository
}
