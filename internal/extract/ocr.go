// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdiddy/refine-engine/internal/container"
)

// DefaultTesseractImage is used when no image is configured.
const DefaultTesseractImage = "tesseract:latest"

// TesseractRecognizer runs OCR through a tesseract container whose
// entrypoint is the tesseract binary.
type TesseractRecognizer struct {
	runtime container.Runtime
	image   string
}

// NewTesseractRecognizer verifies that image exists in rt.
func NewTesseractRecognizer(rt container.Runtime, image string) (*TesseractRecognizer, error) {
	if image == "" {
		image = DefaultTesseractImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("tesseract image not available in %s: %w", rt.Name(), err)
	}
	return &TesseractRecognizer{runtime: rt, image: image}, nil
}

// MethodTesseract is reported for images read by tesseract.
const MethodTesseract = "tesseract"

func (t *TesseractRecognizer) Name() string { return MethodTesseract }

// Recognize pipes img to "tesseract stdin stdout" and returns the text.
func (t *TesseractRecognizer) Recognize(ctx context.Context, img []byte) (string, error) {
	var out bytes.Buffer
	job := container.Job{
		Image:  t.image,
		Args:   []string{"stdin", "stdout"},
		Stdin:  bytes.NewReader(img),
		Stdout: &out,
	}
	if err := t.runtime.Run(ctx, job); err != nil {
		return "", fmt.Errorf("tesseract OCR: %w", err)
	}
	return out.String(), nil
}
