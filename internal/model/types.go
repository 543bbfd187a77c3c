package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// Layout is the pixel layout the model expects for its input tensor.
type Layout string

const (
	NCHW Layout = "nchw"
	NHWC Layout = "nhwc"
)

const (
	defaultImageSize  = 224
	defaultInputName  = "input"
	defaultOutputName = "output"
)

// Metadata describes the exported model. It is read from a JSON file shipped
// next to the .onnx file.
type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
	InputName   string   `json:"input_name"`
	OutputName  string   `json:"output_name"`
	Layout      Layout   `json:"layout"`
}

// LoadMetadata reads and validates model metadata from path.
func LoadMetadata(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}
	meta.applyDefaults()

	if err := meta.Validate(); err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

func (m *Metadata) applyDefaults() {
	if m.ImageSize == 0 {
		m.ImageSize = defaultImageSize
	}
	if m.InputName == "" {
		m.InputName = defaultInputName
	}
	if m.OutputName == "" {
		m.OutputName = defaultOutputName
	}
	if m.Layout == "" {
		m.Layout = NCHW
	}
	if len(m.OutputShape) == 0 && len(m.Classes) > 0 {
		m.OutputShape = []int64{1, int64(len(m.Classes))}
	}
	if len(m.InputShape) == 0 {
		if m.Layout == NHWC {
			m.InputShape = []int64{1, int64(m.ImageSize), int64(m.ImageSize), 3}
		} else {
			m.InputShape = []int64{1, 3, int64(m.ImageSize), int64(m.ImageSize)}
		}
	}
}

// Validate checks that the shapes and layout are consistent.
func (m Metadata) Validate() error {
	if m.Layout != NCHW && m.Layout != NHWC {
		return fmt.Errorf("metadata: unknown layout %q", m.Layout)
	}
	if len(m.InputShape) != 4 {
		return fmt.Errorf("metadata: expected 4D input shape, got %v", m.InputShape)
	}
	if len(m.OutputShape) == 0 {
		return fmt.Errorf("metadata: output_shape is required")
	}
	for _, d := range append(append([]int64{}, m.InputShape...), m.OutputShape...) {
		if d <= 0 {
			return fmt.Errorf("metadata: non-positive dimension in %v / %v", m.InputShape, m.OutputShape)
		}
	}
	want := 3 * m.ImageSize * m.ImageSize
	if got := m.InputSize(); got != want {
		return fmt.Errorf("metadata: input shape %v holds %d values, image_size %d needs %d",
			m.InputShape, got, m.ImageSize, want)
	}
	return nil
}

// InputSize is the number of float32 values in one input tensor.
func (m Metadata) InputSize() int {
	return product(m.InputShape)
}

// OutputSize is the number of class probabilities the model emits.
func (m Metadata) OutputSize() int {
	return product(m.OutputShape)
}

func product(shape []int64) int {
	if len(shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range shape {
		n *= int(d)
	}
	return n
}

// Score is a class index paired with its probability.
type Score struct {
	Index       int
	Probability float32
}
