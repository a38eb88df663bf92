// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the file contents (trimmed) are the value.
//
// Known keys: corenlp-username, corenlp-password, neo4j-username,
// neo4j-password.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/openie-engine/pkg/types"
)

// Key names understood by Apply.
const (
	CoreNLPUsername = "corenlp-username"
	CoreNLPPassword = "corenlp-password"
	Neo4jUsername   = "neo4j-username"
	Neo4jPassword   = "neo4j-password"
)

// Secrets maps key names to values.
type Secrets map[string]string

// Get returns the value of key, or fallback when it is absent.
func (s Secrets) Get(key, fallback string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return fallback
}

// Apply fills credentials of cfg that the configuration left empty.
func (s Secrets) Apply(cfg *types.PipelineConfig) {
	if cfg.Parser.Username == "" {
		cfg.Parser.Username = s.Get(CoreNLPUsername, "")
	}
	if cfg.Parser.Password == "" {
		cfg.Parser.Password = s.Get(CoreNLPPassword, "")
	}
	if cfg.Graph.Username == "" {
		cfg.Graph.Username = s.Get(Neo4jUsername, "")
	}
	if cfg.Graph.Password == "" {
		cfg.Graph.Password = s.Get(Neo4jPassword, "")
	}
}

// Load reads all files in dir. A missing directory is not an error; Load
// returns empty Secrets. Unreadable files are logged and skipped.
func Load(dir string, log *logrus.Logger) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(Secrets)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.WithError(err).WithField("secret", name).Warn("could not read secret")
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}
