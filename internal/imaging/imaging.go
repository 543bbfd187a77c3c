// Package imaging decodes uploaded leaf photos and converts them into model
// input tensors.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/Brownie44l1/leafscan-api/internal/model"
)

// ErrInvalidImage wraps every decoding failure caused by the client's input.
var ErrInvalidImage = errors.New("invalid image")

const dataURLPrefix = "data:image"

// Decode reads a JPEG, PNG, GIF, BMP or WebP image.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, format, nil
}

// DecodeBase64 decodes a base64 image, optionally wrapped in a data URL
// ("data:image/png;base64,....").
func DecodeBase64(s string) (image.Image, string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, dataURLPrefix) {
		_, payload, ok := strings.Cut(s, ",")
		if !ok {
			return nil, "", fmt.Errorf("%w: data URL has no payload", ErrInvalidImage)
		}
		s = payload
	}
	if s == "" {
		return nil, "", fmt.Errorf("%w: empty base64 payload", ErrInvalidImage)
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// Some clients strip the padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if err != nil {
			return nil, "", fmt.Errorf("%w: bad base64: %v", ErrInvalidImage, err)
		}
	}
	return Decode(bytes.NewReader(data))
}

// Tensor resizes img to size×size and returns RGB values scaled to [0,1] in
// the requested layout.
func Tensor(img image.Image, size int, layout model.Layout) []float32 {
	resized := resize.Resize(uint(size), uint(size), img, resize.Lanczos3)

	bounds := resized.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	plane := width * height

	const channels = 3
	inputData := make([]float32, channels*plane)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()

			rNorm := float32(r) / 65535.0
			gNorm := float32(g) / 65535.0
			bNorm := float32(b) / 65535.0

			pixelIndex := y*width + x
			if layout == model.NHWC {
				inputData[pixelIndex*channels] = rNorm
				inputData[pixelIndex*channels+1] = gNorm
				inputData[pixelIndex*channels+2] = bNorm
				continue
			}
			inputData[pixelIndex] = rNorm
			inputData[plane+pixelIndex] = gNorm
			inputData[2*plane+pixelIndex] = bNorm
		}
	}

	return inputData
}
