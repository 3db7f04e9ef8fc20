package entity

// DiseaseClasses классы модели в порядке её выходного слоя.
var DiseaseClasses = []string{
	"Bacterial spot",
	"Early blight",
	"Late blight",
	"Leaf Mold",
	"Septoria leaf spot",
	"Spider mites Two-spotted spider mite",
	"Target Spot",
	"Yellow Leaf Curl Virus",
	"Mosaic virus",
	"Healthy",
}

var treatments = map[string]string{
	"Bacterial spot":                       "Remove affected leaves and apply copper-based fungicides. Improve air circulation.",
	"Early blight":                         "Remove infected plant debris. Apply fungicides containing chlorothalonil or copper.",
	"Late blight":                          "Remove affected plants immediately. Apply fungicides and ensure good air circulation.",
	"Leaf Mold":                            "Reduce humidity and improve ventilation. Apply fungicides if necessary.",
	"Septoria leaf spot":                   "Remove lower leaves and apply fungicides. Avoid overhead watering.",
	"Spider mites Two-spotted spider mite": "Increase humidity around plants. Use miticides or beneficial insects.",
	"Target Spot":                          "Remove affected leaves and apply fungicides. Avoid overhead irrigation.",
	"Yellow Leaf Curl Virus":               "Remove infected plants. Control whitefly vectors with insecticides.",
	"Mosaic virus":                         "Remove infected plants. Control aphid vectors and use virus-free seeds.",
	"Healthy":                              "Your tomato plant looks healthy! Continue with proper care and monitoring.",
}

const defaultTreatment = "Consult a local agricultural extension service for a treatment plan."

// Treatment возвращает рекомендацию по лечению для класса.
func Treatment(label string) string {
	if t, ok := treatments[label]; ok {
		return t
	}
	return defaultTreatment
}
