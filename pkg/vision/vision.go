// Package vision sends form images to a vision model and returns the text it reads off them.
//
// Two backends are provided: Gemini, which is prompted to answer with one "Field: value" line
// per form field, and Google Document AI, whose form parser output is flattened into the same
// line format. Either way the caller gets a single text blob for formparse.
package vision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrUnsupportedImage is returned for input that is not a recognizable image.
	ErrUnsupportedImage = errors.New("unsupported image")
	// ErrNoContent is returned when the model answered without any text.
	ErrNoContent = errors.New("no text content in model response")
)

// Extractor reads the text of a form image.
type Extractor interface {
	Extract(ctx context.Context, img Image) (string, error)
}

// Image is an encoded image and its detected MIME type.
type Image struct {
	Name     string
	MIMEType string
	Data     []byte
}

// NewImage detects the type of data and rejects anything that is not an image.
func NewImage(name string, data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: %s is empty", ErrUnsupportedImage, name)
	}
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return Image{}, fmt.Errorf("%w: %s is %s", ErrUnsupportedImage, name, mime.String())
	}
	return Image{Name: name, MIMEType: mime.String(), Data: data}, nil
}

// ReadImage loads the image at path.
func ReadImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image file: %w", err)
	}
	return NewImage(filepath.Base(path), data)
}
