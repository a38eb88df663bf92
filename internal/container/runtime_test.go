// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	runPipedFunc  func(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(_ context.Context, name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunPiped(_ context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if m.runPipedFunc != nil {
		return m.runPipedFunc(name, args, stdin, stdout, stderr)
	}
	return nil
}

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		wantName string
		wantErr  bool
	}{
		{
			name: "docker available",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true},
				runnableCmds:  map[string]bool{"docker info": true},
			},
			wantName: "docker",
		},
		{
			name: "podman fallback when docker missing",
			exec: &mockExecutor{
				availableBins: map[string]bool{"podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
		{
			name:    "neither available",
			exec:    &mockExecutor{},
			wantErr: true,
		},
		{
			name: "docker on PATH but info fails, podman works",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true, "podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detectRuntime(context.Background(), tt.exec)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "no container runtime available")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, rt.Name())
		})
	}
}

func TestImageExists(t *testing.T) {
	const image = "corenlp-json:latest"
	tests := []struct {
		name    string
		mkRT    func(*mockExecutor) Runtime
		cmds    map[string]bool
		wantErr bool
	}{
		{"docker image exists", func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			map[string]bool{"docker image inspect " + image: true}, false},
		{"docker image missing", func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			map[string]bool{}, true},
		{"podman image exists", func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			map[string]bool{"podman image exists " + image: true}, false},
		{"podman image missing", func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			map[string]bool{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mkRT(&mockExecutor{runnableCmds: tt.cmds}).ImageExists(context.Background(), image)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), image)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRun(t *testing.T) {
	var gotArgs []string
	exec := &mockExecutor{runPipedFunc: func(name string, args []string, stdin io.Reader, stdout, _ io.Writer) error {
		gotArgs = append([]string{name}, args...)
		data, _ := io.ReadAll(stdin)
		_, _ = stdout.Write([]byte(`{"text":"` + string(data) + `"}`))
		return nil
	}}

	var out bytes.Buffer
	err := newPodmanRuntime(exec).Run(context.Background(), "parser:1", []string{"-outputFormat", "json"},
		strings.NewReader("Cats purr."), &out)
	require.NoError(t, err)
	assert.Equal(t, `{"text":"Cats purr."}`, out.String())
	assert.Equal(t, []string{"podman", "run", "--rm", "-i", "parser:1", "-outputFormat", "json"}, gotArgs)
}

func TestRunFailureQuotesStderr(t *testing.T) {
	exec := &mockExecutor{runPipedFunc: func(_ string, _ []string, _ io.Reader, _, stderr io.Writer) error {
		_, _ = stderr.Write([]byte(strings.Repeat("x", 1000) + "OutOfMemoryError\n"))
		return errors.New("exit status 1")
	}}

	err := newDockerRuntime(exec).Run(context.Background(), "parser:1", nil, strings.NewReader(""), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 1")
	assert.Contains(t, err.Error(), "OutOfMemoryError")
	assert.Less(t, len(err.Error()), 700)
}

func TestRuntimeName(t *testing.T) {
	assert.Equal(t, "docker", newDockerRuntime(&mockExecutor{}).Name())
	assert.Equal(t, "podman", newPodmanRuntime(&mockExecutor{}).Name())
}

func TestStderrTail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "  \n", ""},
		{"short", "Exception in thread main\n", "Exception in thread main"},
		{"long keeps end", strings.Repeat("a", stderrLimit) + "END", strings.Repeat("a", stderrLimit-3) + "END"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stderrTail(tt.in))
		})
	}
}
