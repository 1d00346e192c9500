package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/infrastructure/storage"
)

func TestUserService_BeginCheckAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginCheck(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, user.State)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_SetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.StartProcessing(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, user.State)

	stored, err := svc.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, stored.State)
}

func TestUserService_RecordInspection(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.StartProcessing(ctx, 3, 30)
	require.NoError(t, err)

	summary := entity.NewSummary([]entity.Defect{{Type: entity.DefectColdSolder, Confidence: 0.5}})
	user, err := svc.RecordInspection(ctx, 3, 30, summary)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.Equal(t, 1, user.Inspections)
	require.NotNil(t, user.LastSummary)
	require.Equal(t, 1, user.LastSummary.TotalDefects)
}

func TestUserService_StartProcessingIsExclusive(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	var started, busy atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Go(func() {
			_, err := svc.StartProcessing(ctx, 4, 40)
			switch {
			case err == nil:
				started.Add(1)
			case errors.Is(err, ErrBusy):
				busy.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
	wg.Wait()

	require.Equal(t, int32(1), started.Load())
	require.Equal(t, int32(19), busy.Load())

	user, err := svc.StartProcessing(ctx, 4, 40)
	require.ErrorIs(t, err, ErrBusy)
	require.Equal(t, entity.StateProcessing, user.State)
}
