package classifier

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"tomato-health/internal/domain/entity"
)

var ErrTooManyPixels = errors.New("image exceeds pixel limit")

// preprocess декодирует изображение и раскладывает его в тензор модели.
func preprocess(data []byte, meta Metadata) ([]float32, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image config: %w", err)
	}
	if meta.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(meta.MaxPixels) {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return tensorFromImage(img, meta), nil
}

func tensorFromImage(img image.Image, meta Metadata) []float32 {
	size := meta.ImageSize
	resized := imaging.Resize(img, size, size, imaging.CatmullRom)

	scale := meta.Scale
	if scale == 0 {
		scale = 1
	}

	plane := size * size
	out := make([]float32, plane*3)
	for y := 0; y < size; y++ {
		row := resized.Pix[y*resized.Stride:]
		for x := 0; x < size; x++ {
			px := row[x*4 : x*4+3]
			for c := 0; c < 3; c++ {
				v := float32(px[c]) * scale
				if meta.Layout == LayoutNCHW {
					out[c*plane+y*size+x] = v
				} else {
					out[(y*size+x)*3+c] = v
				}
			}
		}
	}
	return out
}

// distribution сопоставляет выход модели с классами.
func distribution(output []float32, classes []string) []entity.ClassScore {
	n := len(classes)
	if len(output) < n {
		n = len(output)
	}
	scores := make([]entity.ClassScore, n)
	for i := 0; i < n; i++ {
		scores[i] = entity.ClassScore{Label: classes[i], Probability: float64(output[i])}
	}
	return scores
}
