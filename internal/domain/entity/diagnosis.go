package entity

// DiagnosisState состояние запроса в конвейере проверки.
type DiagnosisState string

const (
	DiagnosisReceived          DiagnosisState = "received"
	DiagnosisContentChecked    DiagnosisState = "content_checked"
	DiagnosisClassified        DiagnosisState = "classified"
	DiagnosisConfidenceChecked DiagnosisState = "confidence_checked"
	DiagnosisRejected          DiagnosisState = "rejected"
	DiagnosisAccepted          DiagnosisState = "accepted"
)

// Terminal сообщает, завершён ли запрос.
func (s DiagnosisState) Terminal() bool {
	return s == DiagnosisRejected || s == DiagnosisAccepted
}

// Diagnosis итог прохождения конвейера для одной загрузки.
type Diagnosis struct {
	State          DiagnosisState
	Reason         string
	Analysis       *PlantAnalysis
	Classification *Classification
	Treatment      string
	Top            []ClassScore
	Record         *PredictionRecord
}

// Accepted сообщает, что диагноз принят и сохранён.
func (d *Diagnosis) Accepted() bool {
	return d.State == DiagnosisAccepted
}
