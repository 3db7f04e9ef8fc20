package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tomato-health/internal/domain/entity"
	"tomato-health/internal/infrastructure/storage"
)

func TestChatService_BeginCheckAndCancel(t *testing.T) {
	repo := storage.NewMemoryChatRepository()
	svc := NewChatService(repo)
	ctx := context.Background()

	session, err := svc.BeginCheck(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, session.State)

	session, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, session.State)
}

func TestChatService_StartProcessing(t *testing.T) {
	repo := storage.NewMemoryChatRepository()
	svc := NewChatService(repo)
	ctx := context.Background()

	_, err := svc.StartProcessing(ctx, 2, 20)
	require.NoError(t, err)

	session, err := svc.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, session.State)
}
