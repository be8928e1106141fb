// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns input artifacts (plain text, PDF, DOCX, images,
// inline strings) into raw text plus extraction metadata. Failures never
// surface as Go errors from Extract: they are folded into the Result status
// so a single bad input cannot abort a refinement run.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/pdiddy/refine-engine/pkg/types"
)

// Extraction method names reported in SourceMeta.extraction_method.
const (
	MethodRawText  = "raw_text"
	MethodFileText = "file-text"
	MethodNone     = "none"
)

const defaultCacheSize = 128

// Result is the outcome of extracting one artifact.
type Result struct {
	Text   string `json:"text" yaml:"text"`
	Method string `json:"extraction_method" yaml:"extraction_method"`
	Status string `json:"status" yaml:"status"`

	// Attributes carries format-specific details such as image dimensions.
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Failed reports whether the status records an extraction error.
func (r Result) Failed() bool {
	return strings.HasPrefix(r.Status, types.StatusErrorPrefix)
}

// Converter turns a document on disk into text.
type Converter interface {
	// Name is reported as the extraction method.
	Name() string
	Convert(ctx context.Context, path string) (string, error)
}

// Recognizer performs OCR on encoded image bytes.
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, img []byte) (string, error)
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tiff": true,
}

// DetectType classifies path by its extension only. Unknown extensions are
// treated as plain text.
func DetectType(path string) types.SourceType {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".pdf":
		return types.SourcePDF
	case ext == ".docx":
		return types.SourceDOCX
	case imageExtensions[ext]:
		return types.SourceImage
	default:
		return types.SourceText
	}
}

// FromString wraps inline text as an extraction result.
func FromString(s string) Result {
	return Result{Text: s, Method: MethodRawText, Status: types.StatusOK}
}

// Extractor dispatches files to the backend for their type. The zero value
// is not usable; construct with New.
type Extractor struct {
	fs     afero.Fs
	pdf    Converter
	docx   Converter
	ocr    Recognizer
	cache  *lru.Cache[string, Result]
	size   int
	log    *zap.Logger
	closer []func() error
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPDFConverter replaces the native PDF text reader.
func WithPDFConverter(c Converter) Option {
	return func(e *Extractor) { e.pdf = c }
}

// WithDOCXConverter replaces the native DOCX reader.
func WithDOCXConverter(c Converter) Option {
	return func(e *Extractor) { e.docx = c }
}

// WithRecognizer enables OCR for image sources.
func WithRecognizer(r Recognizer) Option {
	return func(e *Extractor) { e.ocr = r }
}

// WithCacheSize bounds the number of memoized results. Zero or negative
// keeps the default.
func WithCacheSize(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.size = n
		}
	}
}

// WithLogger sets the logger used for per-file diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.log = l
		}
	}
}

// withCloser registers a cleanup hook run by Close.
func withCloser(fn func() error) Option {
	return func(e *Extractor) { e.closer = append(e.closer, fn) }
}

// New builds an Extractor reading from fsys. Without options it uses the
// native PDF and DOCX readers and performs no OCR.
func New(fsys afero.Fs, opts ...Option) (*Extractor, error) {
	if fsys == nil {
		return nil, errors.New("extract: filesystem is required")
	}
	e := &Extractor{
		fs:   fsys,
		size: defaultCacheSize,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pdf == nil {
		e.pdf = NewPDFText(fsys)
	}
	if e.docx == nil {
		e.docx = NewDOCXText(fsys)
	}
	cache, err := lru.New[string, Result](e.size)
	if err != nil {
		return nil, fmt.Errorf("creating extraction cache: %w", err)
	}
	e.cache = cache
	return e, nil
}

// Close releases backend clients.
func (e *Extractor) Close() error {
	var errs []error
	for _, fn := range e.closer {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Extract reads path and returns its text and metadata. A missing file
// yields method "none" with an error status and no text.
func (e *Extractor) Extract(ctx context.Context, path string) Result {
	info, err := e.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{Method: MethodNone, Status: fmt.Sprintf("%sFile not found: %s", types.StatusErrorPrefix, path)}
		}
		return Result{Method: MethodNone, Status: errorStatus(err)}
	}
	if info.IsDir() {
		return Result{Method: MethodNone, Status: fmt.Sprintf("%sis a directory: %s", types.StatusErrorPrefix, path)}
	}

	key := fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
	if r, ok := e.cache.Get(key); ok {
		e.log.Debug("extraction cache hit", zap.String("path", path))
		return r
	}

	var r Result
	switch DetectType(path) {
	case types.SourcePDF:
		r = e.convert(ctx, e.pdf, path)
	case types.SourceDOCX:
		r = e.convert(ctx, e.docx, path)
	case types.SourceImage:
		r = e.readImage(ctx, path)
	default:
		r = e.text(path)
	}

	e.log.Debug("extracted",
		zap.String("path", path),
		zap.String("method", r.Method),
		zap.String("status", r.Status),
		zap.Int("chars", len(r.Text)),
	)
	e.cache.Add(key, r)
	return r
}

func (e *Extractor) convert(ctx context.Context, c Converter, path string) Result {
	text, err := c.Convert(ctx, path)
	if err != nil {
		return Result{Method: c.Name(), Status: errorStatus(err)}
	}
	return Result{Text: text, Method: c.Name(), Status: contentStatus(text)}
}

func (e *Extractor) text(path string) Result {
	data, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return Result{Method: MethodFileText, Status: errorStatus(err)}
	}
	return Result{Text: strings.ToValidUTF8(string(data), ""), Method: MethodFileText, Status: types.StatusOK}
}

// contentStatus is "ok" for text with any non-space content, else "partial".
func contentStatus(text string) string {
	if strings.TrimSpace(text) == "" {
		return types.StatusPartial
	}
	return types.StatusOK
}

func errorStatus(err error) string {
	return types.StatusErrorPrefix + err.Error()
}
