package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"mime"
	"net/http"

	"github.com/Brownie44l1/leafscan-api/internal/imaging"
)

var errNoImage = errors.New("no image provided")

// readImage extracts the uploaded image from r. It accepts a multipart file
// in the "file" or "image" field, a base64 "image" form value, or a JSON
// body {"image": "<base64>"}. The second return value names the source.
func readImage(r *http.Request, maxMemory int64) (image.Image, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, "", fmt.Errorf("parse multipart form: %w", err)
		}
		for _, field := range []string{"file", "image"} {
			file, _, err := r.FormFile(field)
			if errors.Is(err, http.ErrMissingFile) {
				continue
			}
			if err != nil {
				return nil, "", fmt.Errorf("read %s field: %w", field, err)
			}
			defer file.Close()
			img, _, err := imaging.Decode(file)
			return img, "file:" + field, err
		}
		return decodeField(r.PostFormValue("image"))

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, "", fmt.Errorf("parse form: %w", err)
		}
		return decodeField(r.PostFormValue("image"))

	case "application/json":
		var body struct {
			Image string `json:"image"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, "", fmt.Errorf("decode json body: %w", err)
		}
		return decodeField(body.Image)
	}

	return nil, "", errNoImage
}

func decodeField(v string) (image.Image, string, error) {
	if v == "" {
		return nil, "", errNoImage
	}
	img, _, err := imaging.DecodeBase64(v)
	return img, "base64", err
}
