// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
	"github.com/spf13/afero"
)

// PDFText reads the text layer of a PDF in process.
type PDFText struct {
	fs afero.Fs
}

// NewPDFText creates the native PDF converter.
func NewPDFText(fsys afero.Fs) *PDFText {
	return &PDFText{fs: fsys}
}

func (p *PDFText) Name() string { return "pdf-native" }

// Convert returns the concatenated plain text of every page. Malformed
// documents that make the parser panic are reported as errors.
func (p *PDFText) Convert(_ context.Context, path string) (text string, err error) {
	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return "", fmt.Errorf("reading PDF %s: %w", path, err)
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parsing PDF %s: %v", path, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("reading PDF text %s: %w", path, err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("reading PDF text %s: %w", path, err)
	}
	return string(b), nil
}
