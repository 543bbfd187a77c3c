package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/leafscan-api/internal/model"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	img, format, err := Decode(bytes.NewReader(encodePNG(t, solid(4, 4, color.White))))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 4, img.Bounds().Dx())

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(8, 8, color.Black), nil))
	_, format, err = Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestDecode_Invalid(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("not an image")))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestDecodeBase64(t *testing.T) {
	raw := encodePNG(t, solid(3, 2, color.White))
	b64 := base64.StdEncoding.EncodeToString(raw)

	inputs := map[string]string{
		"plain":      b64,
		"data url":   "data:image/png;base64," + b64,
		"whitespace": "  " + b64 + "\n",
		"unpadded":   base64.RawStdEncoding.EncodeToString(raw),
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			img, format, err := DecodeBase64(in)
			require.NoError(t, err)
			assert.Equal(t, "png", format)
			assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
		})
	}
}

func TestDecodeBase64_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"data:image/png;base64",
		"data:image/png;base64,",
		"%%%not-base64%%%",
		base64.StdEncoding.EncodeToString([]byte("plain text")),
	} {
		_, _, err := DecodeBase64(in)
		assert.ErrorIs(t, err, ErrInvalidImage, "input %q", in)
	}
}

func TestTensor_NCHW(t *testing.T) {
	const size = 8
	data := Tensor(solid(20, 10, color.RGBA{R: 255, A: 255}), size, model.NCHW)
	require.Len(t, data, 3*size*size)

	plane := size * size
	for i := 0; i < plane; i++ {
		assert.InDelta(t, 1.0, data[i], 0.01)
		assert.InDelta(t, 0.0, data[plane+i], 0.01)
		assert.InDelta(t, 0.0, data[2*plane+i], 0.01)
	}
}

func TestTensor_NHWC(t *testing.T) {
	const size = 6
	data := Tensor(solid(12, 12, color.RGBA{B: 255, A: 255}), size, model.NHWC)
	require.Len(t, data, 3*size*size)

	for i := 0; i < size*size; i++ {
		assert.InDelta(t, 0.0, data[i*3], 0.01)
		assert.InDelta(t, 0.0, data[i*3+1], 0.01)
		assert.InDelta(t, 1.0, data[i*3+2], 0.01)
	}
}

func TestTensor_Range(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	for _, v := range Tensor(img, 10, model.NCHW) {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}
