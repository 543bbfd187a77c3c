package model

import (
	"context"
	"errors"
	"sort"
)

// ErrEmptyOutput is returned when the model produced no probabilities.
var ErrEmptyOutput = errors.New("model produced empty output")

// Predictor runs the image classifier on a preprocessed input tensor and
// returns one probability per class.
type Predictor interface {
	Predict(ctx context.Context, input []float32) ([]float32, error)
	Close() error
}

// ArgMax returns the index and value of the highest probability.
func ArgMax(probs []float32) (int, float32, error) {
	if len(probs) == 0 {
		return 0, 0, ErrEmptyOutput
	}
	maxIdx := 0
	maxVal := probs[0]
	for i, val := range probs {
		if val > maxVal {
			maxVal = val
			maxIdx = i
		}
	}
	return maxIdx, maxVal, nil
}

// TopK returns the k highest-scoring classes, best first. Ties keep index
// order.
func TopK(probs []float32, k int) []Score {
	scores := make([]Score, len(probs))
	for i, p := range probs {
		scores[i] = Score{Index: i, Probability: p}
	}
	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].Probability > scores[b].Probability
	})
	if k < 0 {
		k = 0
	}
	if k < len(scores) {
		scores = scores[:k]
	}
	return scores
}
