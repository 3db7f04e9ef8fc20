package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"tomato-health/internal/domain/entity"
)

const (
	LayoutNHWC = "NHWC"
	LayoutNCHW = "NCHW"
)

// Metadata описание входа и выхода модели
type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
	InputName   string   `json:"input_name"`
	OutputName  string   `json:"output_name"`
	Layout      string   `json:"layout"`
	// Scale множитель для значений пикселей 0..255; модель ждёт сырые значения при 1.
	Scale float32 `json:"scale"`
	// MaxPixels предел размера входного изображения до декодирования.
	MaxPixels int `json:"max_pixels"`
}

// DefaultMetadata соответствует модели 256x256 RGB с десятью классами.
func DefaultMetadata() Metadata {
	return Metadata{
		InputShape:  []int64{1, 256, 256, 3},
		OutputShape: []int64{1, int64(len(entity.DiseaseClasses))},
		Classes:     append([]string(nil), entity.DiseaseClasses...),
		ImageSize:   256,
		InputName:   "input",
		OutputName:  "output",
		Layout:      LayoutNHWC,
		Scale:       1,
		MaxPixels:   25_000_000,
	}
}

// LoadMetadata читает JSON поверх значений по умолчанию.
// Отсутствующий файл не ошибка.
func LoadMetadata(path string) (Metadata, error) {
	meta := DefaultMetadata()
	if path == "" {
		return meta, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return meta, nil
	}
	if err != nil {
		return meta, fmt.Errorf("read metadata: %w", err)
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return meta, fmt.Errorf("parse metadata: %w", err)
	}
	return meta, meta.validate()
}

func (m Metadata) validate() error {
	if m.Layout != LayoutNHWC && m.Layout != LayoutNCHW {
		return fmt.Errorf("unknown layout %q", m.Layout)
	}
	if m.ImageSize <= 0 {
		return fmt.Errorf("invalid image size %d", m.ImageSize)
	}
	if want := int64(m.ImageSize * m.ImageSize * 3); product(m.InputShape) != want {
		return fmt.Errorf("input shape %v does not match image size %d", m.InputShape, m.ImageSize)
	}
	if product(m.OutputShape) != int64(len(m.Classes)) {
		return fmt.Errorf("output shape %v does not match %d classes", m.OutputShape, len(m.Classes))
	}
	return nil
}

func product(shape []int64) int64 {
	if len(shape) == 0 {
		return 0
	}
	n := int64(1)
	for _, d := range shape {
		n *= d
	}
	return n
}
