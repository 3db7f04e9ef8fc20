package app

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContentValidator(t *testing.T) {
	tests := []struct {
		name     string
		detector fakeDetector
		accepted bool
	}{
		{"plant", fakeDetector{analysis: plant(40, 7)}, true},
		{"no green", fakeDetector{analysis: plant(0, 30)}, false},
		{"green at threshold", fakeDetector{analysis: plant(15, 7)}, false},
		{"edges at threshold", fakeDetector{analysis: plant(40, 2)}, false},
		{"decode failure", fakeDetector{err: errors.New("decode image: unknown format")}, false},
		{"nil analysis", fakeDetector{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := NewContentValidator(tt.detector).Validate(context.Background(), []byte("img"))
			require.Equal(t, tt.accepted, result.Accepted)
			if tt.accepted {
				require.Equal(t, MsgValidationOK, result.Reason)
			} else {
				require.Equal(t, MsgNotPlant, result.Reason)
			}
		})
	}
}

func TestConfidenceGate(t *testing.T) {
	gate := NewConfidenceGate(DefaultMinConfidence)

	tests := []struct {
		confidence float64
		accepted   bool
	}{
		{0.0, false},
		{0.10, false},
		{0.2999, false},
		{0.30, true},
		{0.85, true},
		{1.0, true},
		{math.NaN(), false},
	}
	for _, tt := range tests {
		result := gate.Check(tt.confidence)
		require.Equal(t, tt.accepted, result.Accepted, "confidence %v", tt.confidence)
		if !tt.accepted {
			require.Equal(t, MsgLowConfidence, result.Reason)
		}
	}
}
