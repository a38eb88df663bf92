// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/openie-engine/internal/container"
	"github.com/pdiddy/openie-engine/pkg/types"
)

// DefaultImage is the parser image used when none is configured. It reads
// text on stdin and writes CoreNLP JSON to stdout.
const DefaultImage = "corenlp-json:latest"

// ContainerParser parses text by piping it through a parser image.
type ContainerParser struct {
	runtime container.Runtime
	image   string
	opts    Options
}

// NewContainerParser detects a container runtime and verifies image exists.
func NewContainerParser(ctx context.Context, image string, opts Options) (*ContainerParser, error) {
	rt, err := container.DetectRuntime(ctx)
	if err != nil {
		return nil, err
	}
	return NewContainerParserWithRuntime(ctx, rt, image, opts)
}

// NewContainerParserWithRuntime builds a parser on the given runtime.
func NewContainerParserWithRuntime(ctx context.Context, rt container.Runtime, image string, opts Options) (*ContainerParser, error) {
	if image == "" {
		image = DefaultImage
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("parser image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerParser{runtime: rt, image: image, opts: opts}, nil
}

// Args returns the parser arguments passed to the image.
func (p *ContainerParser) Args() []string {
	props := p.opts.Properties()
	keys := []string{"annotators", "outputFormat", "ssplit.eolonly"}
	var args []string
	for _, k := range keys {
		if v, ok := props[k]; ok {
			args = append(args, "-"+k, v)
		}
	}
	return args
}

// Parse runs the image over text and decodes its output.
func (p *ContainerParser) Parse(ctx context.Context, id, text string) (*types.Document, error) {
	var out bytes.Buffer
	if err := p.runtime.Run(ctx, p.image, p.Args(), strings.NewReader(text), &out); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", id, err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("parsing %s: %w", id, ErrEmptyOutput)
	}
	return DecodeCoreNLP(id, out.Bytes())
}
