package severity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		confidence float64
		want       Level
	}{
		{1.0, High},
		{0.86, High},
		{0.8500001, High},
		{0.85, Medium},
		{0.66, Medium},
		{0.65, Low},
		{0.5, Low},
		{0.0, Low},
	}

	for _, tt := range tests {
		got, err := Classify(tt.confidence)
		require.NoError(t, err, "confidence %v", tt.confidence)
		assert.Equal(t, tt.want, got, "confidence %v", tt.confidence)
	}
}

func TestClassify_RejectsOutOfRange(t *testing.T) {
	for _, c := range []float64{-0.01, 1.0001, 42, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Classify(c)
		assert.ErrorIs(t, err, ErrInvalidArgument, "confidence %v", c)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		conf float64
		want int
	}{
		{0, 0},
		{0.333, 33},
		{0.666, 67},
		{0.7, 70},
		{0.92, 92},
		{1, 100},
	}
	for _, tt := range tests {
		got, err := Score(tt.conf)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "confidence %v", tt.conf)
	}

	for _, c := range []float64{-0.5, 1.5, math.NaN()} {
		_, err := Score(c)
		assert.ErrorIs(t, err, ErrInvalidArgument, "confidence %v", c)
	}
}
