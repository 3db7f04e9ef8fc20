//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"tomato-health/internal/domain/entity"
	"tomato-health/internal/domain/port"
)

// PlantDetector считает зелень и плотность границ через OpenCV.
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
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if mat.Empty() || mat.Cols()*mat.Rows() == 0 {
		return d.Thresholds.buildAnalysis(0, 0, 0, 0), nil
	}

	// Зелёная полоса в HSV.
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(mat, &hsv, gocv.ColorBGRToHSV)

	lower := gocv.NewScalar(float64(d.Thresholds.HueMin), float64(d.Thresholds.SatMin), float64(d.Thresholds.ValMin), 0)
	upper := gocv.NewScalar(float64(d.Thresholds.HueMax), 255, 255, 0)
	greenMask := gocv.NewMat()
	defer greenMask.Close()
	gocv.InRangeWithScalar(hsv, lower, upper, &greenMask)

	// Границы по яркости.
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, float32(d.Thresholds.CannyLow), float32(d.Thresholds.CannyHigh))

	return d.Thresholds.buildAnalysis(
		mat.Cols(),
		mat.Rows(),
		gocv.CountNonZero(greenMask),
		gocv.CountNonZero(edges),
	), nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
// При ошибке возвращённый Mat использовать нельзя.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to decode image: %w", err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, errors.New("failed to decode image")
	}
	return mat, nil
}

// Проверка реализации интерфейса
var _ port.PlantDetector = (*PlantDetector)(nil)
