package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
)

// DefaultMaxPixels ограничивает размер декодируемого изображения (около 5000x5000).
const DefaultMaxPixels = 25_000_000

var ErrTooManyPixels = errors.New("image exceeds pixel limit")

// checkPixelLimit читает только заголовок изображения и отказывает до полного
// декодирования, если заявленных пикселей больше maxPixels. maxPixels <= 0 снимает предел.
func checkPixelLimit(imageData []byte, maxPixels int) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return fmt.Errorf("decode image config: %w", err)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}
	return nil
}
