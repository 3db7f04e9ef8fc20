package entity

import (
	"sort"
	"time"
)

// ClassScore вероятность одного класса в выходе классификатора.
type ClassScore struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// Classification распределение вероятностей по упорядоченному списку классов.
type Classification struct {
	Label        string       // top-1 класс
	Confidence   float64      // вероятность top-1 класса
	Distribution []ClassScore // все классы в порядке модели
}

// NewClassification выбирает top-1 класс из распределения.
// Пустое распределение даёт нулевую уверенность.
func NewClassification(distribution []ClassScore) *Classification {
	c := &Classification{Distribution: distribution}
	for i, s := range distribution {
		if i == 0 || s.Probability > c.Confidence {
			c.Label = s.Label
			c.Confidence = s.Probability
		}
	}
	return c
}

// Top возвращает n самых вероятных классов по убыванию вероятности.
func (c *Classification) Top(n int) []ClassScore {
	sorted := make([]ClassScore, len(c.Distribution))
	copy(sorted, c.Distribution)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Probability > sorted[j].Probability
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// PredictionRecord сохранённый результат диагностики.
type PredictionRecord struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	ImageKey   string    `json:"image_key"`
	Label      string    `json:"prediction"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"timestamp"`
}

// ConfidencePercent возвращает уверенность в процентах для отображения.
func (p PredictionRecord) ConfidencePercent() float64 {
	return p.Confidence * 100
}
