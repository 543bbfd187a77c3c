package model

import (
	"context"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv guards the process-wide ONNX Runtime environment.
var ortEnv struct {
	once sync.Once
	err  error
}

func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// DestroyEnvironment tears down ONNX Runtime. Call once at process exit,
// after every Server has been closed.
func DestroyEnvironment() error {
	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}

// Options tune the ONNX Runtime session.
type Options struct {
	// LibraryPath is the onnxruntime shared library. Empty uses the
	// platform default lookup.
	LibraryPath    string
	IntraOpThreads int
}

// Server runs an ONNX image classifier. The input and output tensors are
// allocated once and reused, so calls to Predict are serialized.
type Server struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	Metadata     Metadata
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

// NewServer loads the model at modelPath using the shapes and tensor names
// from meta.
func NewServer(modelPath string, meta Metadata, opts Options) (*Server, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}
	if err := initORT(opts.LibraryPath); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	sessOpts, err := ort.NewSessionOptions()
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer sessOpts.Destroy()
	if opts.IntraOpThreads > 0 {
		if err := sessOpts.SetIntraOpNumThreads(opts.IntraOpThreads); err != nil {
			inputTensor.Destroy()
			outputTensor.Destroy()
			return nil, fmt.Errorf("failed to set intra-op threads: %w", err)
		}
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{meta.InputName}, []string{meta.OutputName},
		[]ort.Value{inputTensor}, []ort.Value{outputTensor},
		sessOpts)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &Server{
		session:      session,
		Metadata:     meta,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// Predict runs one inference and returns a copy of the output probabilities.
func (s *Server) Predict(ctx context.Context, inputData []float32) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, fmt.Errorf("inference failed: session closed")
	}
	dst := s.inputTensor.GetData()
	if len(inputData) != len(dst) {
		return nil, fmt.Errorf("inference failed: expected %d input values, got %d", len(dst), len(inputData))
	}
	copy(dst, inputData)

	if err := s.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	out := s.outputTensor.GetData()
	probs := make([]float32, len(out))
	copy(probs, out)
	return probs, nil
}

// Close releases the session and tensors. It does not tear down the
// ONNX Runtime environment; see DestroyEnvironment.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.session != nil {
		err = s.session.Destroy()
		s.session = nil
	}
	if s.inputTensor != nil {
		s.inputTensor.Destroy()
		s.inputTensor = nil
	}
	if s.outputTensor != nil {
		s.outputTensor.Destroy()
		s.outputTensor = nil
	}
	return err
}
