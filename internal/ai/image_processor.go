package ai

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Register PNG decoder

	"github.com/disintegration/imaging"
)

const (
	// Stats screenshots only need to stay readable, not pretty.
	maxImageWidth = 1000 // px
	jpegQuality   = 75
)

// ImageProcessor shrinks user-supplied evidence images before they are
// attached to a model invocation.
type ImageProcessor struct{}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{}
}

// OptimizeForAI decodes, downscales and recompresses an image to JPEG so
// large uploads don't blow up request size.
func (p *ImageProcessor) OptimizeForAI(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var optimized image.Image = img
	if img.Bounds().Dx() > maxImageWidth {
		optimized = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, optimized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
