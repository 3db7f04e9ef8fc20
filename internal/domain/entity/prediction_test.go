package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClassification_PicksTopClass(t *testing.T) {
	c := NewClassification([]ClassScore{
		{Label: "Healthy", Probability: 0.1},
		{Label: "Early blight", Probability: 0.7},
		{Label: "Late blight", Probability: 0.2},
	})
	require.Equal(t, "Early blight", c.Label)
	require.InDelta(t, 0.7, c.Confidence, 1e-9)
}

func TestNewClassification_Empty(t *testing.T) {
	c := NewClassification(nil)
	require.Empty(t, c.Label)
	require.Zero(t, c.Confidence)
	require.Empty(t, c.Top(3))
}

func TestClassification_Top(t *testing.T) {
	c := NewClassification([]ClassScore{
		{Label: "a", Probability: 0.05},
		{Label: "b", Probability: 0.5},
		{Label: "c", Probability: 0.15},
		{Label: "d", Probability: 0.3},
	})
	top := c.Top(3)
	require.Len(t, top, 3)
	require.Equal(t, []string{"b", "d", "c"}, []string{top[0].Label, top[1].Label, top[2].Label})
	// исходный порядок не меняется
	require.Equal(t, "a", c.Distribution[0].Label)
}

func TestTreatment(t *testing.T) {
	require.Contains(t, Treatment("Early blight"), "chlorothalonil")
	require.Equal(t, defaultTreatment, Treatment("Unknown"))
	for _, class := range DiseaseClasses {
		require.NotEqual(t, defaultTreatment, Treatment(class), class)
	}
}

func TestPredictionRecord_ConfidencePercent(t *testing.T) {
	p := PredictionRecord{Confidence: 0.85}
	require.InDelta(t, 85.0, p.ConfidencePercent(), 1e-9)
}
