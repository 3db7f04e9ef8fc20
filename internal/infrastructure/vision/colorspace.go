//go:build !gocv
// +build !gocv

package vision

import "math"

// Целочисленные преобразования повторяют 8-битные ветки OpenCV,
// чтобы пороги давали те же решения, что и сборка с тегом gocv.

const (
	hsvShift   = 12
	grayShift  = 14
	cannyShift = 15
	tg22       = 13573 // round(tan(22.5°) << cannyShift)
)

var (
	sdivTable [256]int
	hdivTable [256]int
)

func init() {
	for i := 1; i < 256; i++ {
		sdivTable[i] = int(math.Round(float64(255<<hsvShift) / float64(i)))
		hdivTable[i] = int(math.Round(float64(180<<hsvShift) / (6 * float64(i))))
	}
}

// rgbToHSV переводит пиксель в HSV со шкалами H 0..179, S и V 0..255.
func rgbToHSV(r, g, b uint8) (h, s, v uint8) {
	ri, gi, bi := int(r), int(g), int(b)
	vmax := max(ri, gi, bi)
	vmin := min(ri, gi, bi)
	diff := vmax - vmin

	var vr, vg int
	if vmax == ri {
		vr = -1
	}
	if vmax == gi {
		vg = -1
	}

	sat := (diff*sdivTable[vmax] + (1 << (hsvShift - 1))) >> hsvShift
	hue := (vr & (gi - bi)) + (^vr & ((vg & (bi - ri + 2*diff)) + (^vg & (ri - gi + 4*diff))))
	hue = (hue*hdivTable[diff] + (1 << (hsvShift - 1))) >> hsvShift
	if hue < 0 {
		hue += 180
	}

	return uint8(hue), uint8(sat), uint8(vmax)
}

// rgbToGray считает яркость с весами BT.601 в фиксированной точке.
func rgbToGray(r, g, b uint8) uint8 {
	y := (int(r)*4899 + int(g)*9617 + int(b)*1868 + (1 << (grayShift - 1))) >> grayShift
	return uint8(y)
}

// canny строит маску границ по яркости и возвращает число пикселей границ.
// Sobel 3x3 с повтором краёв, L1-норма градиента, подавление немаксимумов
// по четырём направлениям и гистерезис по 8-связности.
func canny(gray []uint8, width, height int, low, high float64) int {
	if width <= 0 || height <= 0 || len(gray) < width*height {
		return 0
	}
	lowT := int(math.Floor(low))
	highT := int(math.Floor(high))

	at := func(x, y int) int {
		x = min(max(x, 0), width-1)
		y = min(max(y, 0), height-1)
		return int(gray[y*width+x])
	}

	// |gx|, |gy| <= 4*255, поэтому хватает int16 для производных и int32 для модуля.
	n := width * height
	dx := make([]int16, n)
	dy := make([]int16, n)
	mag := make([]int32, n)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
			i := y*width + x
			dx[i], dy[i] = int16(gx), int16(gy)
			mag[i] = int32(abs(gx) + abs(gy))
		}
	}

	magAt := func(x, y int) int {
		if x < 0 || y < 0 || x >= width || y >= height {
			return 0
		}
		return int(mag[y*width+x])
	}

	const (
		notEdge   = 1
		candidate = 0
		edge      = 2
	)
	marks := make([]uint8, n)
	stack := make([]int, 0, n/8)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			m := int(mag[i])
			if m <= lowT || !isLocalMax(int(dx[i]), int(dy[i]), m, x, y, magAt) {
				marks[i] = notEdge
				continue
			}
			if m > highT {
				marks[i] = edge
				stack = append(stack, i)
				continue
			}
			marks[i] = candidate
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		for ny := y - 1; ny <= y+1; ny++ {
			for nx := x - 1; nx <= x+1; nx++ {
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				j := ny*width + nx
				if marks[j] == candidate {
					marks[j] = edge
					stack = append(stack, j)
				}
			}
		}
	}

	count := 0
	for _, v := range marks {
		if v == edge {
			count++
		}
	}
	return count
}

// isLocalMax сравнивает модуль градиента с соседями вдоль направления градиента.
func isLocalMax(gx, gy, m, x, y int, magAt func(x, y int) int) bool {
	ax := abs(gx)
	ay := abs(gy) << cannyShift
	tg22x := ax * tg22

	if ay < tg22x {
		return m > magAt(x-1, y) && m >= magAt(x+1, y)
	}
	tg67x := tg22x + (ax << (cannyShift + 1))
	if ay > tg67x {
		return m > magAt(x, y-1) && m >= magAt(x, y+1)
	}
	s := 1
	if (gx ^ gy) < 0 {
		s = -1
	}
	return m > magAt(x-s, y-1) && m > magAt(x+s, y+1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
