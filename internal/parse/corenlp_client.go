// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/openie-engine/internal/httputil"
	"github.com/pdiddy/openie-engine/pkg/types"
)

const (
	defaultCoreNLPURL = "http://localhost:9000"
	defaultTimeout    = 2 * time.Minute
)

// CoreNLPClient parses text with a CoreNLP server.
type CoreNLPClient struct {
	baseURL    string
	userAgent  string
	username   string
	password   string
	maxRetries int
	opts       Options
	client     *http.Client
	log        *logrus.Logger
}

// NewCoreNLPClient returns a client for the server at cfg.URL.
func NewCoreNLPClient(cfg types.ParserConfig, opts Options, log *logrus.Logger) *CoreNLPClient {
	if log == nil {
		log = logrus.StandardLogger()
	}
	base := cfg.URL
	if base == "" {
		base = defaultCoreNLPURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &CoreNLPClient{
		baseURL:    strings.TrimRight(base, "/"),
		userAgent:  cfg.UserAgent,
		username:   cfg.Username,
		password:   cfg.Password,
		maxRetries: cfg.MaxRetries,
		opts:       opts,
		client:     &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Parse posts text to the server and decodes the JSON response.
func (c *CoreNLPClient) Parse(ctx context.Context, id, text string) (*types.Document, error) {
	props, err := json.Marshal(c.opts.Properties())
	if err != nil {
		return nil, fmt.Errorf("encoding properties: %w", err)
	}
	endpoint := c.baseURL + "/?properties=" + url.QueryEscape(string(props))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.maxRetries, c.log)
	if err != nil {
		return nil, fmt.Errorf("calling CoreNLP: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading CoreNLP response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CoreNLP returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	doc, err := DecodeCoreNLP(id, body)
	if err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{"doc": id, "sentences": len(doc.Sentences)}).Debug("parsed document")
	return doc, nil
}
