// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials from a directory of plain-text files,
// one secret per file. The filename is the key and the trimmed contents are
// the value.
//
// Known keys: mousemine-token, aws-access-key-id, aws-secret-access-key.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Key names looked up by the CLI.
const (
	MouseMineToken     = "mousemine-token"
	AWSAccessKeyID     = "aws-access-key-id"
	AWSSecretAccessKey = "aws-secret-access-key"
)

// DefaultDir is the secrets directory used when none is configured.
const DefaultDir = ".secrets"

// Store holds the loaded secrets.
type Store map[string]string

// Get returns the value for key, or "" when it is not set.
func (s Store) Get(key string) string { return s[key] }

// Load reads every regular, non-hidden file in dir. A missing directory is
// an empty Store. Files that cannot be read are logged and skipped.
func Load(dir string) (Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(Store)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("skipping unreadable secret", "name", name, "error", err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	return out, nil
}
