package vision

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	leafGreen = color.NRGBA{G: 180, A: 255}
	black     = color.NRGBA{A: 255}
	midGray   = color.NRGBA{R: 128, G: 128, B: 128, A: 255}
)

// solidImage возвращает изображение одного цвета.
func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// stripedLeaf 100x100, зелёные полосы шириной 10 на чёрном фоне:
// 40% зелёных пикселей и 7 вертикальных границ (7% пикселей границ).
func stripedLeaf() *image.NRGBA {
	img := solidImage(100, 100, black)
	for y := 0; y < 100; y++ {
		for x := 0; x < 70; x++ {
			if (x/10)%2 == 0 {
				img.SetNRGBA(x, y, leafGreen)
			}
		}
	}
	return img
}

// checkerboard чёрно-белая доска с клеткой size.
func checkerboard(w, h, size int) *image.NRGBA {
	img := solidImage(w, h, black)
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/size+y/size)%2 == 0 {
				img.SetNRGBA(x, y, white)
			}
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
