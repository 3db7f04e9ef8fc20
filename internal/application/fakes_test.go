package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"tomato-health/internal/domain/entity"
	"tomato-health/internal/domain/port"
)

type fakeDetector struct {
	analysis *entity.PlantAnalysis
	err      error
}

func (f fakeDetector) Analyze(ctx context.Context, imageData []byte) (*entity.PlantAnalysis, error) {
	return f.analysis, f.err
}

func plant(green, edges float64) *entity.PlantAnalysis {
	return &entity.PlantAnalysis{
		Width: 100, Height: 100, TotalPixels: 10000,
		GreenPercentage: green,
		EdgePercentage:  edges,
		IsPlant:         green > 15 && edges > 2,
	}
}

type fakeClassifier struct {
	result *entity.Classification
	err    error
	calls  int
}

func (f *fakeClassifier) Classify(ctx context.Context, imageData []byte) (*entity.Classification, error) {
	f.calls++
	return f.result, f.err
}

// classification распределяет остаток вероятности поровну между всеми
// прочими классами модели, label остаётся самым вероятным при confidence > 0.1.
func classification(label string, confidence float64) *entity.Classification {
	scores := []entity.ClassScore{{Label: label, Probability: confidence}}
	rest := (1 - confidence) / float64(len(entity.DiseaseClasses)-1)
	for _, other := range entity.DiseaseClasses {
		if other != label {
			scores = append(scores, entity.ClassScore{Label: other, Probability: rest})
		}
	}
	return entity.NewClassification(scores)
}

type fakeImages struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newFakeImages() *fakeImages {
	return &fakeImages{objects: map[string][]byte{}}
}

func (f *fakeImages) Put(ctx context.Context, key string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = data
	return nil
}

func (f *fakeImages) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, port.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeImages) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[key]; !ok {
		return port.ErrNotFound
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeImages) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// failingPredictions отказывает при сохранении записи
type failingPredictions struct {
	port.PredictionRepository
}

func (failingPredictions) Create(ctx context.Context, record *entity.PredictionRecord) error {
	return errors.New("database is down")
}
