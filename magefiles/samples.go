//go:build mage

package main

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
)

const samplesInputDir = "samples/inputs"

const sampleIdea = `Build a web dashboard for IoT telemetry. Must support real-time charts and alerting.
Should allow CSV export. Only use Postgres. Deliver a prototype by March.
- Provide API documentation
- Deadline: 6 weeks
Maybe add multi-tenant support?`

const sampleDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t>Requirements must include role-based access control.</w:t></w:r></w:p>
<w:p><w:r><w:t>Deliver a deployment guide.</w:t></w:r></w:p>
<w:p><w:r><w:t>Budget: $5,000 maximum.</w:t></w:r></w:p>
</w:body></w:document>`

// Samples writes the sample inputs used by Refine and Inspect: a text brief,
// a DOCX spec and a PNG wireframe. No PDF sample is generated.
func Samples() error {
	if err := os.MkdirAll(samplesInputDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", samplesInputDir, err)
	}

	docx, err := buildDOCX(sampleDocument)
	if err != nil {
		return err
	}
	wireframe, err := buildPNG(320, 200)
	if err != nil {
		return err
	}

	files := map[string][]byte{
		"text_idea.txt": []byte(sampleIdea + "\n"),
		"specs.docx":    docx,
		"wireframe.png": wireframe,
	}
	for name, data := range files {
		path := filepath.Join(samplesInputDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	fmt.Printf("Wrote %d samples to %s\n", len(files), samplesInputDir)
	return nil
}

func buildDOCX(document string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		return nil, fmt.Errorf("creating docx entry: %w", err)
	}
	if _, err := w.Write([]byte(document)); err != nil {
		return nil, fmt.Errorf("writing docx entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing docx: %w", err)
	}
	return buf.Bytes(), nil
}

// buildPNG draws a blank page with a grey header bar.
func buildPNG(w, h int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 255, G: 255, B: 255, A: 255}
			if y < h/8 {
				c = color.RGBA{R: 200, G: 200, B: 200, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
