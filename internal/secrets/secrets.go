// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials for extraction backends from a directory
// of plain-text key files and, optionally, a dotenv file. In the directory
// each file is one secret: the filename is the key and the trimmed contents
// are the value. Dotenv entries use the same keys in upper snake case
// (GCP_CREDENTIALS for gcp-credentials).
//
// Supported keys: gcp-credentials.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// KeyGCPCredentials holds a service account JSON document or a path to one.
const KeyGCPCredentials = "gcp-credentials"

// Load reads every key file in dir on fsys and then fills missing keys from
// the dotenv file at envPath. Key files win over dotenv entries. A missing
// directory or dotenv file is not an error. Unreadable key files are
// logged and skipped.
func Load(fsys afero.Fs, dir, envPath string, log *zap.Logger) (map[string]string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	secrets, err := loadDir(fsys, dir, log)
	if err != nil {
		return nil, err
	}
	if envPath == "" {
		return secrets, nil
	}

	f, err := fsys.Open(envPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return secrets, nil
		}
		return nil, fmt.Errorf("opening env file %s: %w", envPath, err)
	}
	defer f.Close()

	env, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", envPath, err)
	}
	for k, v := range env {
		key := envKey(k)
		value := strings.TrimSpace(v)
		if _, ok := secrets[key]; ok || value == "" {
			continue
		}
		secrets[key] = value
	}
	return secrets, nil
}

func loadDir(fsys afero.Fs, dir string, log *zap.Logger) (map[string]string, error) {
	secrets := make(map[string]string)
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return secrets, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := afero.ReadFile(fsys, filepath.Join(dir, name))
		if err != nil {
			log.Warn("could not read secret", zap.String("key", name), zap.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// envKey maps GCP_CREDENTIALS to gcp-credentials.
func envKey(k string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(k)), "_", "-")
}
