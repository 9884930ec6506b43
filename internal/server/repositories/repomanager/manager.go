package repomanager

import (
	"context"
	"database/sql"

	"github.com/avolkovs/artefactreg/internal/dbx"
	"github.com/avolkovs/artefactreg/internal/server/repositories/artefacts"
	"github.com/avolkovs/artefactreg/internal/server/repositories/associated"
	"github.com/avolkovs/artefactreg/internal/server/repositories/categories"
	"github.com/avolkovs/artefactreg/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so the
// same repository code runs on a plain connection or inside a transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Categories(db dbx.DBTX) categories.Repository
	Associated(db dbx.DBTX) associated.Repository
	Artefacts(db dbx.DBTX) artefacts.Repository
}
