// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/pdiddy/refine-engine/internal/container"
)

// DefaultMarkitdownImage is used when no image is configured.
const DefaultMarkitdownImage = "markitdown:latest"

// MarkitdownConverter converts PDF and DOCX files by piping them through
// the markitdown container image. It depends on a container.Runtime
// (docker or podman) injected at construction time.
type MarkitdownConverter struct {
	fs      afero.Fs
	runtime container.Runtime
	image   string
}

// NewMarkitdownConverter creates a converter that uses rt to run image. It
// verifies that the image exists locally before returning.
func NewMarkitdownConverter(fsys afero.Fs, rt container.Runtime, image string) (*MarkitdownConverter, error) {
	if image == "" {
		image = DefaultMarkitdownImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownConverter{fs: fsys, runtime: rt, image: image}, nil
}

// MethodMarkitdown is reported for files converted by markitdown.
const MethodMarkitdown = "markitdown"

func (m *MarkitdownConverter) Name() string { return MethodMarkitdown }

// Convert streams the file at path into the container and returns the
// Markdown it prints.
func (m *MarkitdownConverter) Convert(ctx context.Context, path string) (string, error) {
	f, err := m.fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, container.Job{Image: m.image, Stdin: f, Stdout: &out}); err != nil {
		return "", fmt.Errorf("converting %s with markitdown: %w", path, err)
	}
	return out.String(), nil
}
