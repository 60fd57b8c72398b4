// Package repomanager vends repositories bound to a store and runs work
// inside the store's transaction boundary.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/backoffice/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	// WithinTx runs fn with a users repository bound to a single unit of
	// work. The work is committed when fn returns nil.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error
	Close() error
}
