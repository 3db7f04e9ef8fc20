package rest

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	app "tomato-health/internal/application"
	"tomato-health/internal/domain/entity"
)

const (
	uploadField = "file"

	msgNoFile      = "No file selected"
	msgInvalidType = "Invalid file type. Please upload JPG, JPEG, or PNG files."
	msgTooLarge    = "File is too large. Maximum size is 5 MB."
)

var allowedExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

type diagnosisResponse struct {
	Status            string                   `json:"status"`
	State             string                   `json:"state"`
	Reason            string                   `json:"reason,omitempty"`
	GreenPercentage   float64                  `json:"green_percentage"`
	EdgePercentage    float64                  `json:"edge_percentage"`
	Prediction        string                   `json:"prediction,omitempty"`
	Confidence        float64                  `json:"confidence,omitempty"`
	ConfidencePercent float64                  `json:"confidence_percent,omitempty"`
	Treatment         string                   `json:"treatment,omitempty"`
	TopPredictions    []entity.ClassScore      `json:"top_predictions,omitempty"`
	Record            *entity.PredictionRecord `json:"record,omitempty"`
}

func newDiagnosisResponse(d *entity.Diagnosis) diagnosisResponse {
	resp := diagnosisResponse{
		Status: "rejected",
		State:  string(d.State),
		Reason: d.Reason,
	}
	if d.Analysis != nil {
		resp.GreenPercentage = d.Analysis.GreenPercentage
		resp.EdgePercentage = d.Analysis.EdgePercentage
	}
	if d.Accepted() {
		resp.Status = "success"
		resp.Prediction = d.Record.Label
		resp.Confidence = d.Record.Confidence
		resp.ConfidencePercent = d.Record.ConfidencePercent()
		resp.Treatment = d.Treatment
		resp.TopPredictions = d.Top
		resp.Record = d.Record
	}
	return resp
}

// Predict принимает фото листа и прогоняет его через конвейер диагностики
func (h *Handler) Predict(c *gin.Context) {
	// Запас на служебные части multipart сверх размера файла
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+1<<20)

	header, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		fail(c, http.StatusBadRequest, msgNoFile)
		return
	}
	if header.Filename == "" {
		fail(c, http.StatusBadRequest, msgNoFile)
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := allowedExtensions[ext]
	if !ok {
		fail(c, http.StatusBadRequest, msgInvalidType)
		return
	}
	if header.Size > h.maxUpload {
		fail(c, http.StatusRequestEntityTooLarge, msgTooLarge)
		return
	}
	if !h.diagnosis.Available() {
		respondError(c, app.ErrModelUnavailable)
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, err)
		return
	}

	user := currentUser(c)
	diagnosis, err := h.diagnosis.Diagnose(c.Request.Context(), user.ID, app.Upload{
		Data:        data,
		Filename:    filepath.Base(header.Filename),
		ContentType: contentType,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if !diagnosis.Accepted() {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, newDiagnosisResponse(diagnosis))
}
