package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/backoffice/internal/dbx"
)

// New picks the store from dsn: PostgreSQL when set, process memory
// otherwise. The PostgreSQL schema is migrated before returning.
func New(ctx context.Context, dsn string) (RepositoryManager, error) {
	if dsn == "" {
		return NewMemoryRepositoryManager(), nil
	}

	db, err := dbx.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}

	m := NewPostgresRepositoryManager(db)
	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return m, nil
}
