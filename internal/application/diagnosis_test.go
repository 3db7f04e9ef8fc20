package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tomato-health/internal/domain/entity"
	"tomato-health/internal/infrastructure/storage"
)

type diagnosisFixture struct {
	svc         *DiagnosisService
	classifier  *fakeClassifier
	predictions *storage.MemoryPredictionRepository
	images      *fakeImages
}

func newDiagnosisFixture(detector fakeDetector, result *entity.Classification) *diagnosisFixture {
	f := &diagnosisFixture{
		classifier:  &fakeClassifier{result: result},
		predictions: storage.NewMemoryPredictionRepository(),
		images:      newFakeImages(),
	}
	f.svc = NewDiagnosisService(NewContentValidator(detector), f.classifier,
		NewConfidenceGate(DefaultMinConfidence), f.predictions, f.images)
	return f
}

var leafUpload = Upload{Data: []byte("leaf"), Filename: "leaf.JPG", ContentType: "image/jpeg"}

func TestDiagnose_NotAPlant(t *testing.T) {
	f := newDiagnosisFixture(fakeDetector{analysis: plant(0, 0)}, classification("Early blight", 0.85))

	d, err := f.svc.Diagnose(context.Background(), 1, leafUpload)
	require.NoError(t, err)
	require.Equal(t, entity.DiagnosisRejected, d.State)
	require.Equal(t, MsgNotPlant, d.Reason)
	require.Zero(t, f.classifier.calls)
	require.Nil(t, d.Record)
	require.Zero(t, f.images.count())

	count, err := f.predictions.CountByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestDiagnose_Accepted(t *testing.T) {
	f := newDiagnosisFixture(fakeDetector{analysis: plant(40, 7)}, classification("Early blight", 0.85))
	f.svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	d, err := f.svc.Diagnose(context.Background(), 7, leafUpload)
	require.NoError(t, err)
	require.True(t, d.Accepted())
	require.Equal(t, 1, f.classifier.calls)
	require.Equal(t, "Early blight", d.Classification.Label)

	require.NotNil(t, d.Record)
	require.Equal(t, "Early blight", d.Record.Label)
	require.InDelta(t, 0.85, d.Record.Confidence, 1e-9)
	require.Equal(t, int64(7), d.Record.UserID)
	require.True(t, strings.HasPrefix(d.Record.ImageKey, "7/20240501_123000_"))
	require.True(t, strings.HasSuffix(d.Record.ImageKey, ".jpg"))
	require.Equal(t, entity.Treatment("Early blight"), d.Treatment)
	require.Len(t, d.Top, 3)
	require.Equal(t, "Early blight", d.Top[0].Label)

	require.Equal(t, 1, f.images.count())
	items, err := f.predictions.ListByUser(context.Background(), 7, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestDiagnose_LowConfidence(t *testing.T) {
	f := newDiagnosisFixture(fakeDetector{analysis: plant(40, 7)}, classification("Late blight", 0.20))

	d, err := f.svc.Diagnose(context.Background(), 1, leafUpload)
	require.NoError(t, err)
	require.Equal(t, entity.DiagnosisRejected, d.State)
	require.Equal(t, MsgLowConfidence, d.Reason)
	require.Equal(t, "Late blight", d.Classification.Label)
	require.Nil(t, d.Record)
	require.Zero(t, f.images.count())
}

func TestDiagnose_ConfidenceBoundary(t *testing.T) {
	f := newDiagnosisFixture(fakeDetector{analysis: plant(40, 7)}, classification("Leaf Mold", 0.30))

	d, err := f.svc.Diagnose(context.Background(), 1, leafUpload)
	require.NoError(t, err)
	require.True(t, d.Accepted())
	require.Equal(t, "Leaf Mold", d.Classification.Label)
	require.InDelta(t, 0.30, d.Classification.Confidence, 1e-9)
}

func TestClassificationFixture(t *testing.T) {
	for _, tc := range []struct {
		label      string
		confidence float64
	}{
		{"Early blight", 0.85},
		{"Late blight", 0.20},
		{"Leaf Mold", 0.30},
		{"Healthy", 0.9},
	} {
		c := classification(tc.label, tc.confidence)
		require.Len(t, c.Distribution, len(entity.DiseaseClasses), tc.label)
		require.Equal(t, tc.label, c.Label)
		require.InDelta(t, tc.confidence, c.Confidence, 1e-9, tc.label)

		var total float64
		for _, s := range c.Distribution {
			total += s.Probability
		}
		require.InDelta(t, 1.0, total, 1e-9, tc.label)
	}
}

func TestDiagnose_Failures(t *testing.T) {
	t.Run("model unavailable", func(t *testing.T) {
		svc := NewDiagnosisService(NewContentValidator(fakeDetector{analysis: plant(40, 7)}), nil,
			NewConfidenceGate(DefaultMinConfidence), storage.NewMemoryPredictionRepository(), newFakeImages())
		require.False(t, svc.Available())

		_, err := svc.Diagnose(context.Background(), 1, leafUpload)
		require.ErrorIs(t, err, ErrModelUnavailable)
	})

	t.Run("classifier error", func(t *testing.T) {
		f := newDiagnosisFixture(fakeDetector{analysis: plant(40, 7)}, nil)
		f.classifier.err = errors.New("inference failed")

		_, err := f.svc.Diagnose(context.Background(), 1, leafUpload)
		require.ErrorContains(t, err, "inference failed")
	})

	t.Run("image store error", func(t *testing.T) {
		f := newDiagnosisFixture(fakeDetector{analysis: plant(40, 7)}, classification("Healthy", 0.9))
		f.images.putErr = errors.New("disk full")

		_, err := f.svc.Diagnose(context.Background(), 1, leafUpload)
		require.ErrorContains(t, err, "disk full")

		count, err := f.predictions.CountByUser(context.Background(), 1)
		require.NoError(t, err)
		require.Zero(t, count)
	})

	t.Run("record error removes image", func(t *testing.T) {
		images := newFakeImages()
		svc := NewDiagnosisService(NewContentValidator(fakeDetector{analysis: plant(40, 7)}),
			&fakeClassifier{result: classification("Healthy", 0.9)},
			NewConfidenceGate(DefaultMinConfidence), failingPredictions{}, images)

		_, err := svc.Diagnose(context.Background(), 1, leafUpload)
		require.ErrorContains(t, err, "database is down")
		require.Zero(t, images.count())
	})
}

func TestImageKey(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	key := ImageKey(3, "Leaf.PNG", "image/png", now)
	require.True(t, strings.HasPrefix(key, "3/20240102_030405_"))
	require.True(t, strings.HasSuffix(key, ".png"))
	require.NotEqual(t, key, ImageKey(3, "Leaf.PNG", "image/png", now))

	require.True(t, strings.HasSuffix(ImageKey(3, "photo", "image/png", now), ".png"))
	require.True(t, strings.HasSuffix(ImageKey(3, "photo", "", now), ".jpg"))

	require.True(t, OwnsImage(3, key))
	require.False(t, OwnsImage(33, key))
	require.False(t, OwnsImage(3, "3/../4/x.png"))
}
