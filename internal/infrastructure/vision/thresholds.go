package vision

import "tomato-health/internal/domain/entity"

// Thresholds параметры эвристики «растение / не растение».
// Шкалы как в OpenCV: H 0..179, S и V 0..255, градиент 0..255.
type Thresholds struct {
	HueMin        uint8
	HueMax        uint8
	SatMin        uint8
	ValMin        uint8
	CannyLow      float64
	CannyHigh     float64
	GreenMinRatio float64 // порог доли зелёного, %, сравнение строгое
	EdgeMinRatio  float64 // порог доли границ, %, сравнение строгое
	MaxPixels     int     // предел размера изображения, 0 без предела
}

// DefaultThresholds возвращает эмпирические пороги исходной эвристики.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HueMin:        35,
		HueMax:        85,
		SatMin:        40,
		ValMin:        40,
		CannyLow:      50,
		CannyHigh:     150,
		GreenMinRatio: 15,
		EdgeMinRatio:  2,
		MaxPixels:     DefaultMaxPixels,
	}
}

// IsPlant применяет решающее правило к двум статистикам.
func (t Thresholds) IsPlant(greenPercentage, edgePercentage float64) bool {
	return greenPercentage > t.GreenMinRatio && edgePercentage > t.EdgeMinRatio
}

// inGreenBand проверяет пиксель HSV на попадание в зелёную полосу (границы включены).
func (t Thresholds) inGreenBand(h, s, v uint8) bool {
	return h >= t.HueMin && h <= t.HueMax && s >= t.SatMin && v >= t.ValMin
}

// buildAnalysis считает проценты и итог. Пустое изображение не считается растением.
func (t Thresholds) buildAnalysis(width, height, green, edges int) *entity.PlantAnalysis {
	a := &entity.PlantAnalysis{
		Width:       width,
		Height:      height,
		TotalPixels: width * height,
		GreenPixels: green,
		EdgePixels:  edges,
	}
	if a.TotalPixels <= 0 {
		return a
	}
	a.GreenPercentage = percentage(green, a.TotalPixels)
	a.EdgePercentage = percentage(edges, a.TotalPixels)
	a.IsPlant = t.IsPlant(a.GreenPercentage, a.EdgePercentage)
	return a
}

func percentage(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
