package entity

// PlantAnalysis хранит статистики, по которым решается, есть ли на снимке растение.
type PlantAnalysis struct {
	Width           int     // ширина изображения
	Height          int     // высота изображения
	TotalPixels     int     // общее число пикселей
	GreenPixels     int     // пиксели в зелёной полосе HSV
	EdgePixels      int     // пиксели границ после Canny
	GreenPercentage float64 // доля зелёных пикселей, %
	EdgePercentage  float64 // доля пикселей границ, %
	IsPlant         bool    // итог эвристики
}

// ValidationResult решение одного из фильтров конвейера.
type ValidationResult struct {
	Accepted bool
	Reason   string
}

// Accept возвращает положительное решение с сообщением.
func Accept(reason string) ValidationResult {
	return ValidationResult{Accepted: true, Reason: reason}
}

// Reject возвращает отказ с причиной, которую увидит пользователь.
func Reject(reason string) ValidationResult {
	return ValidationResult{Reason: reason}
}
