// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/pdiddy/refine-engine/pkg/types"
)

// MethodImageInfo is reported for images when no OCR backend is configured.
const MethodImageInfo = "image-info"

// readImage decodes the image header for attributes, runs OCR when a recognizer
// is configured, and falls back to the file stem as a weak text hint when
// nothing was recognized.
func (e *Extractor) readImage(ctx context.Context, path string) Result {
	method := MethodImageInfo
	if e.ocr != nil {
		method = e.ocr.Name()
	}

	data, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return Result{Method: method, Status: errorStatus(err)}
	}
	attrs, err := imageAttributes(data, path)
	if err != nil {
		return Result{Method: method, Status: errorStatus(err)}
	}

	r := Result{Method: method, Status: types.StatusOK, Attributes: attrs}
	if e.ocr != nil {
		text, err := e.ocr.Recognize(ctx, data)
		if err != nil {
			r.Status = errorStatus(err)
			return r
		}
		r.Text = text
		r.Status = contentStatus(text)
	}

	if strings.TrimSpace(r.Text) == "" {
		r.Text = stemHint(path)
	}
	return r
}

// stemHint turns "login_screen_v2.png" into "login screen v2".
func stemHint(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(stem, "_", " ")
}

func imageAttributes(data []byte, path string) (map[string]string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", path, err)
	}
	attrs := map[string]string{
		"format": strings.ToUpper(format),
		"width":  strconv.Itoa(cfg.Width),
		"height": strconv.Itoa(cfg.Height),
		"mode":   colorMode(cfg.ColorModel),
	}
	if format == "jpeg" {
		if x, err := exif.Decode(bytes.NewReader(data)); err == nil {
			exifAttributes(x, attrs)
		}
	}
	return attrs, nil
}

// colorMode names a color model the way common imaging tools label bands.
func colorMode(m color.Model) string {
	if _, ok := m.(color.Palette); ok {
		return "P"
	}
	switch m {
	case color.GrayModel:
		return "L"
	case color.Gray16Model:
		return "I;16"
	case color.YCbCrModel, color.NYCbCrAModel:
		return "RGB"
	case color.CMYKModel:
		return "CMYK"
	case color.RGBAModel, color.NRGBAModel, color.RGBA64Model, color.NRGBA64Model:
		return "RGBA"
	case color.AlphaModel, color.Alpha16Model:
		return "A"
	default:
		return "unknown"
	}
}

func exifAttributes(x *exif.Exif, attrs map[string]string) {
	if tm, err := x.DateTime(); err == nil {
		attrs["datetime"] = tm.UTC().Format(time.RFC3339)
	}
	if model, err := x.Get(exif.Model); err == nil {
		attrs["camera_model"] = cleanExif(model.String())
	}
	if mk, err := x.Get(exif.Make); err == nil {
		attrs["camera_make"] = cleanExif(mk.String())
	}
	if orient, err := x.Get(exif.Orientation); err == nil {
		attrs["orientation"] = cleanExif(orient.String())
	}
}

func cleanExif(v string) string {
	v = strings.TrimSpace(v)
	v = strings.Trim(v, `"`)
	return strings.TrimRight(v, "\x00")
}
