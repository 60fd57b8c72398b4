package repomanager

import (
	"context"

	"github.com/dmitrijs2005/backoffice/internal/server/repositories/users"
)

// MemoryRepositoryManager serves a single in-memory users store. It has no
// schema and no transactions; WithinTx runs fn directly.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }

// Store exposes the concrete repository for maintenance operations that are
// not part of users.Repository.
func (m *MemoryRepositoryManager) Store() *users.MemoryRepository { return m.users }

func (m *MemoryRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error {
	return fn(ctx, m.users)
}

func (m *MemoryRepositoryManager) Close() error { return nil }
