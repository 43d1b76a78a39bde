// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Store
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, MouseMineToken, "  tok_abc123  \n")
				writeFile(t, dir, AWSAccessKeyID, "AKIAEXAMPLE")
				writeFile(t, dir, AWSSecretAccessKey, "s3cr3t\n")
				return dir
			},
			want: Store{
				MouseMineToken:     "tok_abc123",
				AWSAccessKeyID:     "AKIAEXAMPLE",
				AWSSecretAccessKey: "s3cr3t",
			},
		},
		{
			name: "missing directory is empty",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Store{},
		},
		{
			name: "skips blank files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, MouseMineToken, "valid")
				writeFile(t, dir, "empty", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: Store{MouseMineToken: "valid"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden", "secret")
				writeFile(t, dir, MouseMineToken, "real")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
				return dir
			},
			want: Store{MouseMineToken: "real"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	writeFile(t, filepath.Dir(path), "file", "x")

	_, err := Load(path)
	assert.ErrorContains(t, err, "reading secrets directory")
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	dir := t.TempDir()
	writeFile(t, dir, MouseMineToken, "value123")

	bad := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(bad, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(bad, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "value123", got.Get(MouseMineToken))
	assert.Empty(t, got.Get("bad-key"))
}

func TestStoreGet(t *testing.T) {
	s := Store{MouseMineToken: "t"}
	assert.Equal(t, "t", s.Get(MouseMineToken))
	assert.Equal(t, "", s.Get(AWSAccessKeyID))
	assert.Equal(t, "", Store(nil).Get(MouseMineToken))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
