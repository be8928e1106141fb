// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

const docxBody = "word/document.xml"

// DOCXText reads paragraph text from the main part of a DOCX package.
type DOCXText struct {
	fs afero.Fs
}

// NewDOCXText creates the native DOCX converter.
func NewDOCXText(fsys afero.Fs) *DOCXText {
	return &DOCXText{fs: fsys}
}

func (d *DOCXText) Name() string { return "docx-native" }

// Convert returns one line per paragraph, in document order.
func (d *DOCXText) Convert(_ context.Context, path string) (string, error) {
	data, err := afero.ReadFile(d.fs, path)
	if err != nil {
		return "", fmt.Errorf("reading DOCX %s: %w", path, err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening DOCX %s: %w", path, err)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBody {
			body = f
			break
		}
	}
	if body == nil {
		return "", fmt.Errorf("opening DOCX %s: missing %s", path, docxBody)
	}

	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("opening %s in %s: %w", docxBody, path, err)
	}
	defer rc.Close()

	paragraphs, err := docxParagraphs(rc)
	if err != nil {
		return "", fmt.Errorf("parsing DOCX %s: %w", path, err)
	}
	return strings.Join(paragraphs, "\n"), nil
}

// docxParagraphs walks WordprocessingML and collects the text runs of each
// <w:p>. Paragraphs nested in text boxes are folded into their parent.
func docxParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	paragraphs := []string{}
	var cur strings.Builder
	depth := 0

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				depth++
			case "t":
				var s string
				if err := dec.DecodeElement(&s, &el); err != nil {
					return nil, err
				}
				cur.WriteString(s)
			case "tab":
				cur.WriteByte('\t')
			case "br", "cr":
				cur.WriteByte('\n')
			}
		case xml.EndElement:
			if el.Name.Local == "p" && depth > 0 {
				depth--
				if depth == 0 {
					paragraphs = append(paragraphs, cur.String())
					cur.Reset()
				}
			}
		}
	}
	return paragraphs, nil
}
