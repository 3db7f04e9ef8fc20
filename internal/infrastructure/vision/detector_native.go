//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"tomato-health/internal/domain/entity"
	"tomato-health/internal/domain/port"
)

// PlantDetector считает зелень и плотность границ на чистом Go (без OpenCV).
type PlantDetector struct {
	Thresholds Thresholds
}

// NewPlantDetector создаёт детектор с заданными порогами.
func NewPlantDetector(thresholds Thresholds) *PlantDetector {
	return &PlantDetector{Thresholds: thresholds}
}

// Analyze декодирует изображение и возвращает статистики эвристики.
func (d *PlantDetector) Analyze(ctx context.Context, imageData []byte) (*entity.PlantAnalysis, error) {
	_ = ctx
	if err := checkPixelLimit(imageData, d.Thresholds.MaxPixels); err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return d.AnalyzeImage(img), nil
}

// AnalyzeImage считает статистики по уже декодированному изображению.
func (d *PlantDetector) AnalyzeImage(img image.Image) *entity.PlantAnalysis {
	if img == nil {
		return d.Thresholds.buildAnalysis(0, 0, 0, 0)
	}
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	if width <= 0 || height <= 0 {
		return d.Thresholds.buildAnalysis(0, 0, 0, 0)
	}

	// Clone приводит любой формат к NRGBA без предумножения альфы.
	src := imaging.Clone(img)
	gray := make([]uint8, width*height)
	green := 0
	for y := 0; y < height; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+width*4]
		for x := 0; x < width; x++ {
			r, g, b := row[x*4], row[x*4+1], row[x*4+2]
			if d.Thresholds.inGreenBand(rgbToHSV(r, g, b)) {
				green++
			}
			gray[y*width+x] = rgbToGray(r, g, b)
		}
	}

	edges := canny(gray, width, height, d.Thresholds.CannyLow, d.Thresholds.CannyHigh)
	return d.Thresholds.buildAnalysis(width, height, green, edges)
}

// Проверка реализации интерфейса
var _ port.PlantDetector = (*PlantDetector)(nil)
