// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/openie-engine/pkg/types"
)

func quiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Secrets
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, CoreNLPUsername, "  reader  \n")
				writeFile(t, dir, Neo4jPassword, "s3cret\n")
				return dir
			},
			want: Secrets{CoreNLPUsername: "reader", Neo4jPassword: "s3cret"},
		},
		{
			name: "returns empty secrets for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Secrets{},
		},
		{
			name: "skips empty files and dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, Neo4jPassword, "pw")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				return dir
			},
			want: Secrets{Neo4jPassword: "pw"},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, CoreNLPPassword, "cp")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Secrets{CoreNLPPassword: "cp"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), quiet())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir, quiet())
	require.NoError(t, err)
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func TestApply(t *testing.T) {
	s := Secrets{CoreNLPUsername: "u", CoreNLPPassword: "p", Neo4jPassword: "graph"}
	cfg := types.PipelineConfig{}
	cfg.Graph.Username = "neo4j"
	cfg.Parser.Password = "from-config"

	s.Apply(&cfg)
	assert.Equal(t, "u", cfg.Parser.Username)
	assert.Equal(t, "from-config", cfg.Parser.Password, "configured values win")
	assert.Equal(t, "neo4j", cfg.Graph.Username)
	assert.Equal(t, "graph", cfg.Graph.Password)
	assert.Equal(t, "fallback", s.Get("missing", "fallback"))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
