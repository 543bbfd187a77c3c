package model

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMetadata_Defaults(t *testing.T) {
	path := writeFile(t, "meta.json", `{"classes": ["a___b", "a___healthy", "c___d"]}`)

	meta, err := LoadMetadata(path)
	require.NoError(t, err)

	assert.Equal(t, 224, meta.ImageSize)
	assert.Equal(t, "input", meta.InputName)
	assert.Equal(t, "output", meta.OutputName)
	assert.Equal(t, NCHW, meta.Layout)
	assert.Equal(t, []int64{1, 3, 224, 224}, meta.InputShape)
	assert.Equal(t, []int64{1, 3}, meta.OutputShape)
	assert.Equal(t, 3*224*224, meta.InputSize())
	assert.Equal(t, 3, meta.OutputSize())
}

func TestLoadMetadata_NHWC(t *testing.T) {
	path := writeFile(t, "meta.json", `{
		"image_size": 128,
		"layout": "nhwc",
		"output_shape": [1, 38],
		"input_name": "keras_input"
	}`)

	meta, err := LoadMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 128, 128, 3}, meta.InputShape)
	assert.Equal(t, "keras_input", meta.InputName)
}

func TestLoadMetadata_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad json":         `{`,
		"no output":        `{"image_size": 64}`,
		"bad layout":       `{"layout": "chw", "output_shape": [1, 2]}`,
		"shape mismatch":   `{"image_size": 64, "input_shape": [1, 3, 32, 32], "output_shape": [1, 2]}`,
		"not 4d":           `{"input_shape": [150528], "output_shape": [1, 2]}`,
		"zero dimension":   `{"image_size": 64, "input_shape": [1, 3, 64, 64], "output_shape": [1, 0]}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadMetadata(writeFile(t, "meta.json", content))
			assert.Error(t, err)
		})
	}

	_, err := LoadMetadata(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestClassIndex_Formats(t *testing.T) {
	arr, err := ParseClassIndex([]byte(`["Apple___Apple_scab", "Apple___healthy"]`))
	require.NoError(t, err)
	obj, err := ParseClassIndex([]byte(` {"1": "Apple___healthy", "0": "Apple___Apple_scab"} `))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.Equal(t, arr.Lookup(i), obj.Lookup(i), "index %d", i)
	}
	assert.Equal(t, "Apple___healthy", obj.Lookup(1))
	assert.Equal(t, UnknownClass, obj.Lookup(2))
	assert.Equal(t, UnknownClass, obj.Lookup(-1))
	assert.Equal(t, 2, arr.Len())
}

func TestClassIndex_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", `{"x": "a"}`, `{"-1": "a"}`, `[1, 2]`, `"a"`} {
		_, err := ParseClassIndex([]byte(in))
		assert.Error(t, err, "input %q", in)
	}

	_, err := LoadClassIndex(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestClassIndex_Nil(t *testing.T) {
	var c *ClassIndex
	assert.Equal(t, UnknownClass, c.Lookup(0))
	assert.Equal(t, 0, c.Len())
}

func TestLoadClassIndex(t *testing.T) {
	path := writeFile(t, "class_indices.json", `{"0": "Tomato___healthy"}`)
	c, err := LoadClassIndex(path)
	require.NoError(t, err)
	assert.Equal(t, "Tomato___healthy", c.Lookup(0))
}

func TestArgMax(t *testing.T) {
	idx, val, err := ArgMax([]float32{0.1, 0.7, 0.2})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.InDelta(t, 0.7, val, 1e-6)

	// First maximum wins.
	idx, _, err = ArgMax([]float32{0.5, 0.5})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	_, _, err = ArgMax(nil)
	assert.ErrorIs(t, err, ErrEmptyOutput)
}

func TestTopK(t *testing.T) {
	got := TopK([]float32{0.1, 0.6, 0.3}, 2)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, 2, got[1].Index)

	assert.Len(t, TopK([]float32{0.1}, 5), 1)
	assert.Empty(t, TopK([]float32{0.1}, -1))
}

const testModelPath = "../../models/model.onnx"
const testMetadataPath = "../../models/model_metadata.json"

func skipIfNoModel(t *testing.T) {
	t.Helper()
	for _, p := range []string{testModelPath, testMetadataPath} {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			t.Skip("model files not found; place model.onnx and model_metadata.json in models/")
		}
	}
}

func TestServerPredict(t *testing.T) {
	skipIfNoModel(t)

	meta, err := LoadMetadata(testMetadataPath)
	require.NoError(t, err)

	srv, err := NewServer(testModelPath, meta, Options{LibraryPath: os.Getenv("LEAFSCAN_ORT_LIBRARY")})
	require.NoError(t, err)
	defer srv.Close()

	probs, err := srv.Predict(context.Background(), make([]float32, meta.InputSize()))
	require.NoError(t, err)
	assert.Len(t, probs, meta.OutputSize())

	_, err = srv.Predict(context.Background(), make([]float32, 3))
	assert.Error(t, err)
}

func TestNewServer_MissingModel(t *testing.T) {
	meta := Metadata{OutputShape: []int64{1, 2}}
	meta.applyDefaults()

	_, err := NewServer(filepath.Join(t.TempDir(), "nope.onnx"), meta, Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
