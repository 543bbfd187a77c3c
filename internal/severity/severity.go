// Package severity buckets classifier confidence into display severities.
package severity

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is returned for confidences that are not probabilities.
var ErrInvalidArgument = errors.New("severity: invalid argument")

// Level is an ordinal severity used for UI emphasis.
type Level string

const (
	Low    Level = "low"
	Medium Level = "medium"
	High   Level = "high"
)

// Thresholds are exclusive: a confidence equal to a threshold falls into the
// lower bucket.
const (
	HighThreshold   = 0.85
	MediumThreshold = 0.65
)

// Classify maps a confidence in [0,1] to a Level. Values outside that range,
// including NaN, are rejected rather than clamped.
func Classify(confidence float64) (Level, error) {
	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		return "", fmt.Errorf("%w: confidence %v outside [0,1]", ErrInvalidArgument, confidence)
	}
	switch {
	case confidence > HighThreshold:
		return High, nil
	case confidence > MediumThreshold:
		return Medium, nil
	default:
		return Low, nil
	}
}

// Score maps a confidence in [0,1] to the 0-100 scale of the severity bar.
// It rejects the same inputs as Classify.
func Score(confidence float64) (int, error) {
	if _, err := Classify(confidence); err != nil {
		return 0, err
	}
	return int(math.Round(confidence * 100)), nil
}

func (l Level) String() string { return string(l) }
