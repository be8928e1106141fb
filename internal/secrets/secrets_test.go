// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T, fsys afero.Fs) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T, fsys afero.Fs) string {
				dir := "secrets"
				writeFile(t, fsys, dir, "gcp-credentials", "  /etc/gcp/key.json  \n")
				writeFile(t, fsys, dir, "vision-project", "refine-ocr")
				return dir
			},
			want: map[string]string{
				"gcp-credentials": "/etc/gcp/key.json",
				"vision-project":  "refine-ocr",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T, fsys afero.Fs) string {
				return "does-not-exist"
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T, fsys afero.Fs) string {
				dir := "secrets"
				writeFile(t, fsys, dir, "gcp-credentials", "valid-key")
				writeFile(t, fsys, dir, "empty-key", "")
				writeFile(t, fsys, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				"gcp-credentials": "valid-key",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T, fsys afero.Fs) string {
				dir := "secrets"
				writeFile(t, fsys, dir, ".gitkeep", "")
				writeFile(t, fsys, dir, ".hidden-key", "secret")
				writeFile(t, fsys, dir, "gcp-credentials", "real")
				return dir
			},
			want: map[string]string{
				"gcp-credentials": "real",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T, fsys afero.Fs) string {
				dir := "secrets"
				writeFile(t, fsys, dir, "gcp-credentials", "ak_123")
				require.NoError(t, fsys.MkdirAll(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"gcp-credentials": "ak_123",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T, fsys afero.Fs) string {
				require.NoError(t, fsys.MkdirAll("secrets", 0o755))
				return "secrets"
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			dir := tt.setup(t, fsys)
			got, err := Load(fsys, dir, "", nil)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// unreadableFs fails every open of the named file.
type unreadableFs struct {
	afero.Fs
	name string
}

func (u unreadableFs) Open(name string) (afero.File, error) {
	if filepath.Base(name) == u.name {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return u.Fs.Open(name)
}

func TestLoadUnreadableFile(t *testing.T) {
	mem := afero.NewMemMapFs()
	writeFile(t, mem, "secrets", "good-key", "value123")
	writeFile(t, mem, "secrets", "bad-key", "secret")

	core, logs := observer.New(zap.WarnLevel)
	got, err := Load(unreadableFs{Fs: mem, name: "bad-key"}, "secrets", "", zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"good-key": "value123"}, got)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "bad-key", logs.All()[0].ContextMap()["key"])
}

func TestLoadEnvFile(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		env   string
		want  map[string]string
	}{
		{
			name: "dotenv fills missing keys",
			env:  "GCP_CREDENTIALS=/keys/sa.json\nVISION_PROJECT=\"refine-ocr\"\n",
			want: map[string]string{
				"gcp-credentials": "/keys/sa.json",
				"vision-project":  "refine-ocr",
			},
		},
		{
			name:  "key files win over dotenv",
			files: map[string]string{"gcp-credentials": "from-file"},
			env:   "GCP_CREDENTIALS=from-env\n",
			want:  map[string]string{"gcp-credentials": "from-file"},
		},
		{
			name: "blank dotenv values skipped",
			env:  "GCP_CREDENTIALS=\n# comment\n",
			want: map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			for name, content := range tt.files {
				writeFile(t, fsys, "secrets", name, content)
			}
			writeFile(t, fsys, ".", ".env", tt.env)

			got, err := Load(fsys, "secrets", ".env", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "secrets", "gcp-credentials", "k")
	got, err := Load(fsys, "secrets", "nope/.env", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"gcp-credentials": "k"}, got)
}

func writeFile(t *testing.T, fsys afero.Fs, dir, name, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(dir, name), []byte(content), 0o644))
}
