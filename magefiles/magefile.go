//go:build mage

// Package main contains Mage build targets for openie-engine developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the pipeline expects.
var projectDirs = []string{
	"text",
	"documents",
	"knowledge/extracted",
	"knowledge/index",
	".secrets",
}

// Init creates the project directory structure for the pipeline.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "openie"
	cmdPkg  = "./cmd/openie"
)

func binPath() string {
	return filepath.Join(binDir, binName)
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-tags", "sqlite_fts5", "-ldflags", ldflags, "-o", binPath(), cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", binPath(), version)
	return nil
}

// Test runs the unit tests with the FTS5 build tag the triple store needs.
func Test() error {
	return sh.RunV("go", "test", "-tags", "sqlite_fts5", "./...")
}

// Vet runs go vet over every package.
func Vet() error {
	return sh.RunV("go", "vet", "-tags", "sqlite_fts5", "./...")
}

// Check runs vet and the tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Stats prints Go line counts for production and test code and the word
// count of the top-level Markdown files.
func Stats() error {
	var prod, tests int
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != "." && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		n, err := nonBlankLines(path)
		if err != nil {
			return err
		}
		if strings.HasSuffix(path, "_test.go") {
			tests += n
		} else {
			prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	docs, err := filepath.Glob("*.md")
	if err != nil {
		return err
	}
	words := 0
	for _, path := range docs {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		words += len(bytes.Fields(data))
	}

	fmt.Printf("Go lines (production): %d\n", prod)
	fmt.Printf("Go lines (tests):      %d\n", tests)
	fmt.Printf("Markdown words:        %d\n", words)
	return nil
}

// skipDir reports whether a directory holds no project sources.
func skipDir(name string) bool {
	return name == ".git" || name == binDir || strings.HasPrefix(name, "_")
}

func nonBlankLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return n, nil
}
