// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/pdiddy/refine-engine/internal/container"
	"github.com/pdiddy/refine-engine/pkg/types"
)

// Seams replaced in tests.
var (
	detectRuntime = container.DetectRuntime
	dialVision    = func(ctx context.Context, creds string) (recognizerCloser, error) {
		return NewVisionRecognizer(ctx, creds)
	}
)

type recognizerCloser interface {
	Recognizer
	Close() error
}

// unavailable stands in for a backend that could not be set up. Every call
// returns the setup error, so only sources that need the backend fail.
type unavailable struct {
	name string
	err  error
}

func (u unavailable) Name() string { return u.name }

func (u unavailable) Convert(context.Context, string) (string, error) { return "", u.err }

func (u unavailable) Recognize(context.Context, []byte) (string, error) { return "", u.err }

// FromConfig builds an Extractor with the backends selected in cfg. A
// container runtime is detected only when a container backend is selected.
// Unknown backend names are configuration errors. A selected backend that
// cannot be set up (no container runtime, missing image, Vision dial
// failure) is logged and replaced by one that fails each affected source.
func FromConfig(ctx context.Context, fsys afero.Fs, cfg types.ExtractionConfig, log *zap.Logger) (*Extractor, error) {
	if log == nil {
		log = zap.NewNop()
	}
	opts := []Option{WithCacheSize(cfg.CacheSize), WithLogger(log)}

	var (
		rt    container.Runtime
		rtErr error
		tried bool
	)
	runtime := func() (container.Runtime, error) {
		if !tried {
			rt, rtErr = detectRuntime()
			tried = true
		}
		return rt, rtErr
	}

	degrade := func(name string, err error) unavailable {
		log.Warn("extraction backend unavailable", zap.String("backend", name), zap.Error(err))
		return unavailable{name: name, err: err}
	}

	markitdown := func(kind string) Converter {
		r, err := runtime()
		if err != nil {
			return degrade(MethodMarkitdown, fmt.Errorf("%s backend markitdown: %w", kind, err))
		}
		c, err := NewMarkitdownConverter(fsys, r, cfg.MarkitdownImage)
		if err != nil {
			return degrade(MethodMarkitdown, fmt.Errorf("%s backend markitdown: %w", kind, err))
		}
		return c
	}

	switch cfg.PDFBackend {
	case types.BackendNative, "":
	case types.BackendMarkitdown:
		opts = append(opts, WithPDFConverter(markitdown("pdf")))
	default:
		return nil, fmt.Errorf("unknown pdf backend %q", cfg.PDFBackend)
	}

	switch cfg.DOCXBackend {
	case types.BackendNative, "":
	case types.BackendMarkitdown:
		opts = append(opts, WithDOCXConverter(markitdown("docx")))
	default:
		return nil, fmt.Errorf("unknown docx backend %q", cfg.DOCXBackend)
	}

	switch cfg.OCR.Backend {
	case types.OCRNone, "":
	case types.OCRTesseract:
		r, err := runtime()
		if err != nil {
			opts = append(opts, WithRecognizer(degrade(MethodTesseract, fmt.Errorf("ocr backend tesseract: %w", err))))
			break
		}
		t, err := NewTesseractRecognizer(r, cfg.OCR.TesseractImage)
		if err != nil {
			opts = append(opts, WithRecognizer(degrade(MethodTesseract, fmt.Errorf("ocr backend tesseract: %w", err))))
			break
		}
		opts = append(opts, WithRecognizer(t))
	case types.OCRVision:
		v, err := dialVision(ctx, cfg.OCR.Credentials)
		if err != nil {
			opts = append(opts, WithRecognizer(degrade(MethodVision, fmt.Errorf("ocr backend vision: %w", err))))
			break
		}
		opts = append(opts, WithRecognizer(v), withCloser(v.Close))
	default:
		return nil, fmt.Errorf("unknown ocr backend %q", cfg.OCR.Backend)
	}

	return New(fsys, opts...)
}
