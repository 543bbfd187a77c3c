// Package modeltest provides a test double for model.Predictor. It returns
// canned probabilities and must never be wired into the serving path.
package modeltest

import (
	"context"
	"sync"

	"github.com/Brownie44l1/leafscan-api/internal/model"
)

// Predictor is a fake model.Predictor.
type Predictor struct {
	Probs []float32
	Err   error

	mu        sync.Mutex
	calls     int
	lastInput []float32
	closed    bool
}

var _ model.Predictor = (*Predictor)(nil)

// New returns a Predictor that always answers probs.
func New(probs ...float32) *Predictor {
	return &Predictor{Probs: probs}
}

// OneHot returns n probabilities where index idx holds conf and the rest of
// the mass is spread evenly.
func OneHot(n, idx int, conf float32) []float32 {
	out := make([]float32, n)
	if n == 0 {
		return out
	}
	rest := float32(0)
	if n > 1 {
		rest = (1 - conf) / float32(n-1)
	}
	for i := range out {
		out[i] = rest
	}
	out[idx] = conf
	return out
}

func (p *Predictor) Predict(ctx context.Context, input []float32) ([]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.lastInput = input
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Err != nil {
		return nil, p.Err
	}
	out := make([]float32, len(p.Probs))
	copy(out, p.Probs)
	return out, nil
}

func (p *Predictor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Calls reports how many times Predict ran.
func (p *Predictor) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// LastInput returns the tensor passed to the most recent Predict call.
func (p *Predictor) LastInput() []float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastInput
}

// Closed reports whether Close was called.
func (p *Predictor) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Metadata returns NCHW metadata for a size×size model over classes.
func Metadata(size int, classes ...string) model.Metadata {
	return model.Metadata{
		InputShape:  []int64{1, 3, int64(size), int64(size)},
		OutputShape: []int64{1, int64(len(classes))},
		Classes:     classes,
		ImageSize:   size,
		InputName:   "input",
		OutputName:  "output",
		Layout:      model.NCHW,
	}
}
