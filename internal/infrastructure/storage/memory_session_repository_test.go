package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"adscore-bot/internal/domain/entity"
)

func TestMemorySessionRepository_GetCreatesSession(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	s, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), s.UserID)
	require.Equal(t, int64(10), s.ChatID)
	require.Equal(t, entity.StateMainMenu, s.State)
}

func TestMemorySessionRepository_SaveAndUpdate(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	s, err := repo.Get(ctx, 2, 20)
	require.NoError(t, err)
	s.Industry = "fashion"
	s.SetState(entity.StateAwaitingLayout)

	stored, err := repo.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, stored.State, "changes are not visible before Save")

	require.NoError(t, repo.Save(ctx, s))
	stored, err = repo.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, "fashion", stored.Industry)
	require.Equal(t, entity.StateAwaitingLayout, stored.State)

	require.NoError(t, repo.UpdateState(ctx, 2, entity.StateProcessing))
	stored, err = repo.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.True(t, stored.Busy())

	require.NoError(t, repo.UpdateState(ctx, 99, entity.StateProcessing))
}

func TestMemorySessionRepository_Concurrent(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := repo.Get(ctx, int64(i%5), 1)
			require.NoError(t, err)
			s.SetState(entity.StateAwaitingPhoto)
			require.NoError(t, repo.Save(ctx, s))
		}(i)
	}
	wg.Wait()

	s, err := repo.Get(ctx, 3, 1)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, s.State)
}
