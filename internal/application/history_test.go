package app

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tomato-health/internal/domain/entity"
	"tomato-health/internal/domain/port"
	"tomato-health/internal/infrastructure/storage"
)

func seedHistory(t *testing.T, repo *storage.MemoryPredictionRepository, images *fakeImages, userID int64, n int) []*entity.PredictionRecord {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := make([]*entity.PredictionRecord, 0, n)
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("%d/img_%d.png", userID, i)
		require.NoError(t, images.Put(context.Background(), key, []byte("png"), "image/png"))
		r := &entity.PredictionRecord{
			UserID:     userID,
			ImageKey:   key,
			Label:      "Healthy",
			Confidence: 0.9,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(context.Background(), r))
		records = append(records, r)
	}
	return records
}

func TestHistoryService_Dashboard(t *testing.T) {
	repo := storage.NewMemoryPredictionRepository()
	images := newFakeImages()
	svc := NewHistoryService(repo, images)
	records := seedHistory(t, repo, images, 1, 7)
	seedHistory(t, repo, images, 2, 3)

	d, err := svc.Dashboard(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 7, d.Total)
	require.Len(t, d.Recent, DashboardRecent)
	require.Equal(t, records[6].ID, d.Recent[0].ID)

	empty, err := svc.Dashboard(context.Background(), 99)
	require.NoError(t, err)
	require.Zero(t, empty.Total)
	require.NotNil(t, empty.Recent)
}

func TestHistoryService_Pages(t *testing.T) {
	repo := storage.NewMemoryPredictionRepository()
	images := newFakeImages()
	svc := NewHistoryService(repo, images)
	seedHistory(t, repo, images, 1, 23)

	tests := []struct {
		page, want, wantPage int
		hasNext              bool
	}{
		{1, 10, 1, true},
		{2, 10, 2, true},
		{3, 3, 3, false},
		{4, 0, 4, false},
		{0, 10, 1, true},
		{-5, 10, 1, true},
	}
	for _, tt := range tests {
		p, err := svc.History(context.Background(), 1, tt.page)
		require.NoError(t, err)
		require.Len(t, p.Items, tt.want, "page %d", tt.page)
		require.Equal(t, tt.wantPage, p.Page)
		require.Equal(t, 23, p.Total)
		require.Equal(t, 3, p.Pages)
		require.Equal(t, tt.hasNext, p.HasNext())
	}
}

func TestHistoryService_Delete(t *testing.T) {
	repo := storage.NewMemoryPredictionRepository()
	images := newFakeImages()
	svc := NewHistoryService(repo, images)
	records := seedHistory(t, repo, images, 1, 2)
	ctx := context.Background()

	require.ErrorIs(t, svc.Delete(ctx, 2, records[0].ID), port.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, 1, records[0].ID))
	require.ErrorIs(t, svc.Delete(ctx, 1, records[0].ID), port.ErrNotFound)
	require.Equal(t, 1, images.count())

	_, err := svc.OpenImage(ctx, 1, records[0].ImageKey)
	require.ErrorIs(t, err, port.ErrNotFound)
}

func TestHistoryService_OpenImage(t *testing.T) {
	repo := storage.NewMemoryPredictionRepository()
	images := newFakeImages()
	svc := NewHistoryService(repo, images)
	records := seedHistory(t, repo, images, 1, 1)
	ctx := context.Background()

	rc, err := svc.OpenImage(ctx, 1, records[0].ImageKey)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "png", string(data))

	_, err = svc.OpenImage(ctx, 2, records[0].ImageKey)
	require.ErrorIs(t, err, port.ErrNotFound)
}
