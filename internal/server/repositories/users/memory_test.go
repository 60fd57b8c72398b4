package users

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/backoffice/internal/common"
	"github.com/dmitrijs2005/backoffice/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_CreateAndFind(t *testing.T) {
	repo := NewMemoryRepository()
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	u := sampleUser()
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, fixed, u.CreatedAt)

	byEmail, err := repo.FindByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	assert.Equal(t, *u, *byEmail)

	byID, err := repo.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Info(), byID)
}

func TestMemory_DuplicateEmail(t *testing.T) {
	repo := NewMemoryRepository()
	u := sampleUser()
	require.NoError(t, repo.Create(context.Background(), u))

	dup := sampleUser()
	dup.ID = "other-id"
	err := repo.Create(context.Background(), dup)
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Equal(t, 1, repo.Len())
}

func TestMemory_NotFound(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.FindByEmail(context.Background(), "x@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.FindByID(context.Background(), "x")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, repo.Delete(context.Background(), "x"), common.ErrorNotFound)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository()
	u := sampleUser()
	require.NoError(t, repo.Create(context.Background(), u))

	got, err := repo.FindByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	got.Role = models.RoleAdmin

	again, err := repo.FindByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, again.Role)
}

func TestMemory_Delete(t *testing.T) {
	repo := NewMemoryRepository()
	u := sampleUser()
	require.NoError(t, repo.Create(context.Background(), u))
	require.NoError(t, repo.Delete(context.Background(), u.ID))

	_, err := repo.FindByID(context.Background(), u.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	// email is free again
	require.NoError(t, repo.Create(context.Background(), sampleUser()))
}

func TestMemory_ConcurrentCreateSameEmail(t *testing.T) {
	repo := NewMemoryRepository()

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := sampleUser()
			u.ID = string(rune('a' + i))
			errs <- repo.Create(context.Background(), u)
		}(i)
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	}
	assert.Equal(t, 1, ok)
}
