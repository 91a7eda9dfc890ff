package repomanager

import (
	"context"
	"database/sql"

	"github.com/mlorenc/gotodo/internal/dbx"
	"github.com/mlorenc/gotodo/internal/server/repositories/images"
	"github.com/mlorenc/gotodo/internal/server/repositories/refreshtokens"
	"github.com/mlorenc/gotodo/internal/server/repositories/todos"
	"github.com/mlorenc/gotodo/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so a
// service can run the same repository against *sql.DB or inside a dbx.WithTx
// transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Todos(db dbx.DBTX) todos.Repository
	Images(db dbx.DBTX) images.Repository
}
