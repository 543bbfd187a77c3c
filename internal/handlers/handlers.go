package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Brownie44l1/leafscan-api/internal/diagnosis"
	"github.com/Brownie44l1/leafscan-api/internal/imaging"
	"github.com/Brownie44l1/leafscan-api/internal/metrics"
	"github.com/Brownie44l1/leafscan-api/internal/severity"
)

const defaultMaxUploadBytes = 10 << 20

// Options configure a Handler.
type Options struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	MaxUploadBytes int64
	CORSOrigin     string
}

type Handler struct {
	svc     *diagnosis.Service
	metrics *metrics.Metrics
	logger  *slog.Logger
	opts    Options
}

func NewHandler(svc *diagnosis.Service, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}
	return &Handler{
		svc:     svc,
		metrics: opts.Metrics,
		logger:  opts.Logger,
		opts:    opts,
	}
}

// Routes returns the full HTTP handler with middleware applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /predict", h.Predict)
	mux.HandleFunc("POST /predict/tensor", h.PredictTensor)
	mux.HandleFunc("GET /classes", h.Classes)
	mux.HandleFunc("GET /resolve", h.Resolve)
	mux.Handle("GET /metrics", h.metrics.Handler())

	return h.withRequestID(h.withAccessLog(withCORS(h.opts.CORSOrigin, mux)))
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type healthResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	NumClasses int    `json:"num_classes"`
}

type healthDetails struct {
	ModelLoaded   bool `json:"model_loaded"`
	ClassesLoaded bool `json:"class_indices_loaded"`
}

type prediction struct {
	diagnosis.Result
	Label       string `json:"label"`
	Description string `json:"description"`
	Language    string `json:"language"`
}

// tensorRequest carries a preprocessed input tensor.
type tensorRequest struct {
	Image []float32 `json:"image"`
}

type predictionResponse struct {
	Status     string     `json:"status"`
	Prediction prediction `json:"prediction"`
}

type resolution struct {
	ClassID       string         `json:"class_id"`
	ClassEN       string         `json:"class_en"`
	ClassAR       string         `json:"class_ar"`
	Plant         string         `json:"plant,omitempty"`
	Disease       string         `json:"disease,omitempty"`
	Healthy       bool           `json:"healthy"`
	DescriptionEN string         `json:"description_en"`
	DescriptionAR string         `json:"description_ar"`
	Severity      severity.Level `json:"severity,omitempty"`
	SeverityScore *int           `json:"severity_score,omitempty"`
	Label         string         `json:"label"`
	Description   string         `json:"description"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Status()
	if !st.Ready() {
		if err := h.svc.Ensure(r.Context()); err != nil {
			h.requestLogger(r).Warn("backend still not ready", "error", err)
		}
		st = h.svc.Status()
	}
	h.metrics.SetReady(st.Ready())

	if !st.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Status:  "error",
			Message: "API is not fully initialized",
			Details: healthDetails{ModelLoaded: st.ModelLoaded, ClassesLoaded: st.ClassesLoaded},
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Message:    "API is ready",
		NumClasses: st.NumClasses,
	})
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	logger := h.requestLogger(r)
	if !h.ready(w, r) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)

	img, source, err := readImage(r, h.opts.MaxUploadBytes)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "Image exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
		case errors.Is(err, errNoImage):
			writeError(w, http.StatusBadRequest, "No image provided")
		case errors.Is(err, imaging.ErrInvalidImage):
			writeError(w, http.StatusBadRequest, "Invalid image: supported formats are JPEG, PNG, GIF, BMP and WebP")
		default:
			writeError(w, http.StatusBadRequest, "Malformed request")
		}
		logger.Info("rejected prediction input", "error", err)
		return
	}

	logger.Debug("image received",
		"source", source,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())

	h.diagnose(w, r, func(ctx context.Context) (diagnosis.Result, error) {
		return h.svc.Diagnose(ctx, img)
	})
}

// PredictTensor classifies a preprocessed tensor sent as {"image": [...]}.
func (h *Handler) PredictTensor(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w, r) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)

	var req tensorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Tensor exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.diagnose(w, r, func(ctx context.Context) (diagnosis.Result, error) {
		return h.svc.DiagnoseTensor(ctx, req.Image)
	})
}

// ready loads the backend if needed and answers 503 when that fails.
func (h *Handler) ready(w http.ResponseWriter, r *http.Request) bool {
	if h.svc.Status().Ready() {
		return true
	}
	if err := h.svc.Ensure(r.Context()); err != nil {
		h.requestLogger(r).Error("model not ready", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Model is not ready")
		return false
	}
	h.metrics.SetReady(true)
	return true
}

func (h *Handler) diagnose(w http.ResponseWriter, r *http.Request, run func(context.Context) (diagnosis.Result, error)) {
	logger := h.requestLogger(r)

	start := time.Now()
	res, err := run(r.Context())
	if err != nil {
		var sizeErr *diagnosis.InputSizeError
		switch {
		case errors.As(err, &sizeErr):
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Expected %d values, got %d", sizeErr.Want, sizeErr.Got))
		case errors.Is(err, diagnosis.ErrNotReady):
			writeError(w, http.StatusServiceUnavailable, "Model is not ready")
		default:
			logger.Error("prediction error", "error", err)
			writeError(w, http.StatusInternalServerError, "Prediction failed")
		}
		return
	}
	took := time.Since(start)
	h.metrics.ObservePrediction(string(res.Severity), res.Healthy, took)

	lang := preferredLanguage(r)
	logger.Info("prediction served",
		"class_id", res.ClassID,
		"confidence", res.Confidence,
		"severity", res.Severity,
		"took", took)

	w.Header().Set("Content-Language", lang)
	writeJSON(w, http.StatusOK, predictionResponse{
		Status: "success",
		Prediction: prediction{
			Result:      res,
			Label:       pick(lang, res.ClassEN, res.ClassAR),
			Description: pick(lang, res.DescriptionEN, res.DescriptionAR),
			Language:    lang,
		},
	})
}

func (h *Handler) Classes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"classes": h.svc.Catalog(),
	})
}

// Resolve translates a raw class identifier without running the model.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("class") {
		writeError(w, http.StatusBadRequest, "Missing class parameter")
		return
	}
	id := q.Get("class")
	lbl := h.svc.Resolver().Resolve(id)
	lang := preferredLanguage(r)

	out := resolution{
		ClassID:       id,
		ClassEN:       lbl.ClassEN,
		ClassAR:       lbl.ClassAR,
		Plant:         lbl.Plant,
		Disease:       lbl.Disease,
		Healthy:       lbl.Healthy,
		DescriptionEN: lbl.DescriptionEN,
		DescriptionAR: lbl.DescriptionAR,
		Label:         pick(lang, lbl.ClassEN, lbl.ClassAR),
		Description:   pick(lang, lbl.DescriptionEN, lbl.DescriptionAR),
	}

	if c := q.Get("confidence"); c != "" {
		conf, err := strconv.ParseFloat(c, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "confidence must be a number")
			return
		}
		level, err := severity.Classify(conf)
		if err != nil {
			writeError(w, http.StatusBadRequest, "confidence must be within [0,1]")
			return
		}
		score, _ := severity.Score(conf)
		out.Severity, out.SeverityScore = level, &score
	}

	w.Header().Set("Content-Language", lang)
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "prediction": out})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Status: "error", Message: msg})
}
