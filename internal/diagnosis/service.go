// Package diagnosis turns a leaf photo into a bilingual disease diagnosis.
// It owns the loaded model and class index and is shared by all request
// handlers.
package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/Brownie44l1/leafscan-api/internal/imaging"
	"github.com/Brownie44l1/leafscan-api/internal/label"
	"github.com/Brownie44l1/leafscan-api/internal/model"
	"github.com/Brownie44l1/leafscan-api/internal/severity"
)

// ErrNotReady is returned while the model or class index is unavailable.
var ErrNotReady = errors.New("diagnosis: model not ready")

// InputSizeError reports a raw input tensor whose length does not match the
// model input shape.
type InputSizeError struct {
	Want, Got int
}

func (e *InputSizeError) Error() string {
	return fmt.Sprintf("expected %d values, got %d", e.Want, e.Got)
}

// ModelLoader loads the classifier and its metadata.
type ModelLoader func(ctx context.Context) (model.Predictor, model.Metadata, error)

// ClassLoader loads the class index. meta is the zero value when the model
// itself has not loaded.
type ClassLoader func(ctx context.Context, meta model.Metadata) (*model.ClassIndex, error)

// Options configure a Service.
type Options struct {
	LoadModel   ModelLoader
	LoadClasses ClassLoader
	Resolver    *label.Resolver
	Logger      *slog.Logger
	// Alternatives is how many runner-up classes to report. Zero disables.
	Alternatives int
}

// Status reports which parts of the backend are loaded.
type Status struct {
	ModelLoaded   bool `json:"model_loaded"`
	ClassesLoaded bool `json:"class_indices_loaded"`
	NumClasses    int  `json:"num_classes"`
}

// Ready reports whether predictions can be served.
func (s Status) Ready() bool { return s.ModelLoaded && s.ClassesLoaded }

// Candidate is a runner-up class.
type Candidate struct {
	ClassID    string  `json:"class_id"`
	ClassEN    string  `json:"class_en"`
	ClassAR    string  `json:"class_ar"`
	Confidence float64 `json:"confidence"`
}

// Result is one diagnosis.
type Result struct {
	ClassID       string         `json:"class_id"`
	ClassEN       string         `json:"class_en"`
	ClassAR       string         `json:"class_ar"`
	Plant         string         `json:"plant,omitempty"`
	Disease       string         `json:"disease,omitempty"`
	Healthy       bool           `json:"healthy"`
	DescriptionEN string         `json:"description_en"`
	DescriptionAR string         `json:"description_ar"`
	Confidence    float64        `json:"confidence"`
	Severity      severity.Level `json:"severity"`
	SeverityScore int            `json:"severity_score"`
	Alternatives  []Candidate    `json:"alternatives,omitempty"`
}

// Service holds the loaded backend. Loading is explicit (Ensure) and may be
// retried after a failure; everything else is read-only.
type Service struct {
	opts   Options
	logger *slog.Logger

	loadMu sync.Mutex

	mu        sync.RWMutex
	predictor model.Predictor
	meta      model.Metadata
	classes   *model.ClassIndex
}

// New creates a Service. Nothing is loaded until Ensure is called.
func New(opts Options) *Service {
	if opts.Resolver == nil {
		opts.Resolver = label.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{opts: opts, logger: logger.With("component", "diagnosis")}
}

// Ensure loads whatever part of the backend is still missing. It returns nil
// once both the model and the class index are available.
func (s *Service) Ensure(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.RLock()
	havePredictor := s.predictor != nil
	haveClasses := s.classes != nil
	meta := s.meta
	s.mu.RUnlock()

	var (
		errs   []error
		loaded bool
	)

	if !havePredictor {
		if s.opts.LoadModel == nil {
			errs = append(errs, fmt.Errorf("load model: no loader configured"))
		} else if p, m, err := s.opts.LoadModel(ctx); err != nil {
			s.logger.Error("model load failed", "error", err)
			errs = append(errs, fmt.Errorf("load model: %w", err))
		} else {
			s.mu.Lock()
			s.predictor, s.meta = p, m
			s.mu.Unlock()
			meta, loaded = m, true
			s.logger.Info("model loaded",
				"image_size", m.ImageSize,
				"layout", m.Layout,
				"outputs", m.OutputSize())
		}
	}

	if !haveClasses {
		if s.opts.LoadClasses == nil {
			errs = append(errs, fmt.Errorf("load class index: no loader configured"))
		} else if c, err := s.opts.LoadClasses(ctx, meta); err != nil {
			s.logger.Error("class index load failed", "error", err)
			errs = append(errs, fmt.Errorf("load class index: %w", err))
		} else {
			s.mu.Lock()
			s.classes = c
			s.mu.Unlock()
			loaded = true
			s.logger.Info("class index loaded", "classes", c.Len())
		}
	}

	if loaded {
		s.checkClassCount()
	}
	return errors.Join(errs...)
}

// checkClassCount warns when the class index and the model output disagree;
// predictions past the end of the index resolve to Unknown.
func (s *Service) checkClassCount() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.predictor == nil || s.classes == nil {
		return
	}
	if outputs := s.meta.OutputSize(); outputs > 0 && outputs != s.classes.Len() {
		s.logger.Warn("class index size does not match model outputs",
			"classes", s.classes.Len(),
			"outputs", outputs)
	}
}

// Status returns the current load state.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		ModelLoaded:   s.predictor != nil,
		ClassesLoaded: s.classes != nil,
		NumClasses:    s.classes.Len(),
	}
}

// Resolver returns the label resolver used for diagnoses.
func (s *Service) Resolver() *label.Resolver {
	return s.opts.Resolver
}

// Diagnose classifies img.
func (s *Service) Diagnose(ctx context.Context, img image.Image) (Result, error) {
	s.mu.RLock()
	predictor, meta, classes := s.predictor, s.meta, s.classes
	s.mu.RUnlock()

	if predictor == nil || classes == nil {
		return Result{}, ErrNotReady
	}
	return s.run(ctx, predictor, classes, imaging.Tensor(img, meta.ImageSize, meta.Layout))
}

// DiagnoseTensor classifies an already preprocessed input tensor. The length
// must match the model input shape, otherwise an *InputSizeError is returned.
func (s *Service) DiagnoseTensor(ctx context.Context, input []float32) (Result, error) {
	s.mu.RLock()
	predictor, meta, classes := s.predictor, s.meta, s.classes
	s.mu.RUnlock()

	if predictor == nil || classes == nil {
		return Result{}, ErrNotReady
	}
	if want := meta.InputSize(); len(input) != want {
		return Result{}, &InputSizeError{Want: want, Got: len(input)}
	}
	return s.run(ctx, predictor, classes, input)
}

func (s *Service) run(ctx context.Context, predictor model.Predictor, classes *model.ClassIndex, input []float32) (Result, error) {
	probs, err := predictor.Predict(ctx, input)
	if err != nil {
		return Result{}, fmt.Errorf("predict: %w", err)
	}
	return s.interpret(classes, probs)
}

func (s *Service) interpret(classes *model.ClassIndex, probs []float32) (Result, error) {
	idx, conf, err := model.ArgMax(probs)
	if err != nil {
		return Result{}, err
	}

	confidence := float64(conf)
	level, err := severity.Classify(confidence)
	if err != nil {
		return Result{}, fmt.Errorf("model output is not a probability: %w", err)
	}
	score, err := severity.Score(confidence)
	if err != nil {
		return Result{}, fmt.Errorf("model output is not a probability: %w", err)
	}

	classID := classes.Lookup(idx)
	lbl := s.opts.Resolver.Resolve(classID)

	res := Result{
		ClassID:       classID,
		ClassEN:       lbl.ClassEN,
		ClassAR:       lbl.ClassAR,
		Plant:         lbl.Plant,
		Disease:       lbl.Disease,
		Healthy:       lbl.Healthy,
		DescriptionEN: lbl.DescriptionEN,
		DescriptionAR: lbl.DescriptionAR,
		Confidence:    confidence,
		Severity:      level,
		SeverityScore: score,
	}

	if s.opts.Alternatives > 0 {
		for _, sc := range model.TopK(probs, s.opts.Alternatives+1) {
			if sc.Index == idx {
				continue
			}
			id := classes.Lookup(sc.Index)
			alt := s.opts.Resolver.Resolve(id)
			res.Alternatives = append(res.Alternatives, Candidate{
				ClassID:    id,
				ClassEN:    alt.ClassEN,
				ClassAR:    alt.ClassAR,
				Confidence: float64(sc.Probability),
			})
		}
	}
	return res, nil
}

// CatalogEntry is one class the loaded model can emit.
type CatalogEntry struct {
	Index   int    `json:"index"`
	ClassID string `json:"class_id"`
	label.Result
}

// Catalog lists the classes of the loaded class index, or the built-in
// taxonomy when none is loaded yet.
func (s *Service) Catalog() []CatalogEntry {
	s.mu.RLock()
	classes := s.classes
	s.mu.RUnlock()

	if classes == nil {
		classes = model.NewClassIndex(s.opts.Resolver.Table().Classes())
	}

	indices := classes.Indices()
	out := make([]CatalogEntry, 0, len(indices))
	for _, i := range indices {
		id := classes.Lookup(i)
		out = append(out, CatalogEntry{Index: i, ClassID: id, Result: s.opts.Resolver.Resolve(id)})
	}
	return out
}

// Close releases the model.
func (s *Service) Close() error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.predictor == nil {
		return nil
	}
	err := s.predictor.Close()
	s.predictor = nil
	return err
}
