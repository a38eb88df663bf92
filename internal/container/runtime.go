// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container runs parser images under docker or podman, piping text
// in on stdin and reading the parse from stdout.
package container

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// stderrLimit bounds how much container stderr is quoted in errors.
const stderrLimit = 512

// Runtime is a container engine able to run a parser image once per input.
type Runtime interface {
	// Name is the engine binary, "docker" or "podman".
	Name() string

	// Available reports whether the engine is installed and its daemon answers.
	Available(ctx context.Context) bool

	// ImageExists fails when the parser image has not been pulled or built.
	ImageExists(ctx context.Context, image string) error

	// Run starts a throwaway container of image with args after the
	// entrypoint, feeds it stdin and copies its stdout.
	Run(ctx context.Context, image string, args []string, stdin io.Reader, stdout io.Writer) error
}

// engine describes one supported container CLI.
type engine struct {
	bin string
	// imageCheck is the subcommand that exits 0 when an image is present.
	imageCheck []string
}

var (
	dockerEngine = engine{bin: "docker", imageCheck: []string{"image", "inspect"}}
	podmanEngine = engine{bin: "podman", imageCheck: []string{"image", "exists"}}

	// engines in detection order.
	engines = []engine{dockerEngine, podmanEngine}
)

// executor is the process boundary; tests replace it.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(ctx context.Context, name string, args ...string) error
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) RunSilent(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = stdin, stdout, stderr
	return cmd.Run()
}

type runtime struct {
	engine
	exec executor
}

func newRuntime(e engine, x executor) *runtime { return &runtime{engine: e, exec: x} }

func newDockerRuntime(x executor) *runtime { return newRuntime(dockerEngine, x) }

func newPodmanRuntime(x executor) *runtime { return newRuntime(podmanEngine, x) }

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available(ctx context.Context) bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(ctx, r.bin, "info") == nil
}

func (r *runtime) ImageExists(ctx context.Context, image string) error {
	args := append(append([]string(nil), r.imageCheck...), image)
	if err := r.exec.RunSilent(ctx, r.bin, args...); err != nil {
		return fmt.Errorf("parser image %s missing from %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Run(ctx context.Context, image string, args []string, stdin io.Reader, stdout io.Writer) error {
	argv := append([]string{"run", "--rm", "-i", image}, args...)
	var stderr bytes.Buffer
	err := r.exec.RunPiped(ctx, r.bin, argv, stdin, stdout, &stderr)
	if err == nil {
		return nil
	}
	if msg := stderrTail(stderr.String()); msg != "" {
		return fmt.Errorf("%s run %s: %w: %s", r.bin, image, err, msg)
	}
	return fmt.Errorf("%s run %s: %w", r.bin, image, err)
}

// stderrTail keeps the end of a container's stderr, where the JVM puts the
// exception that killed the parser.
func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrLimit {
		s = s[len(s)-stderrLimit:]
	}
	return s
}

// DetectRuntime returns the first engine that answers, docker before podman.
func DetectRuntime(ctx context.Context) (Runtime, error) {
	return detectRuntime(ctx, osExecutor{})
}

func detectRuntime(ctx context.Context, x executor) (Runtime, error) {
	names := make([]string, len(engines))
	for i, e := range engines {
		if rt := newRuntime(e, x); rt.Available(ctx) {
			return rt, nil
		}
		names[i] = e.bin
	}
	return nil, fmt.Errorf("no container runtime available: tried %s", strings.Join(names, ", "))
}
