package diagnosis

import (
	"context"
	"errors"

	"github.com/Brownie44l1/leafscan-api/internal/model"
)

// ONNXLoader loads an ONNX model and its metadata file.
func ONNXLoader(modelPath, metadataPath string, opts model.Options) ModelLoader {
	return func(ctx context.Context) (model.Predictor, model.Metadata, error) {
		if err := ctx.Err(); err != nil {
			return nil, model.Metadata{}, err
		}
		meta, err := model.LoadMetadata(metadataPath)
		if err != nil {
			return nil, model.Metadata{}, err
		}
		srv, err := model.NewServer(modelPath, meta, opts)
		if err != nil {
			return nil, model.Metadata{}, err
		}
		return srv, meta, nil
	}
}

// FileClassLoader reads the class index from path. With an empty path it
// falls back to the class list embedded in the model metadata.
func FileClassLoader(path string) ClassLoader {
	return func(ctx context.Context, meta model.Metadata) (*model.ClassIndex, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if path != "" {
			return model.LoadClassIndex(path)
		}
		if len(meta.Classes) == 0 {
			return nil, errors.New("no class index file configured and metadata lists no classes")
		}
		return model.NewClassIndex(meta.Classes), nil
	}
}
