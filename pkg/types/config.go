// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "openie-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retries on rate-limited or busy responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ParserBackend identifies the tool that turns raw text into parsed documents.
type ParserBackend string

const (
	BackendCoreNLP   ParserBackend = "corenlp"
	BackendContainer ParserBackend = "container"
)

// ParserConfig holds settings for the parse stage.
type ParserConfig struct {
	HTTPConfig `yaml:",inline"`

	// Backend selects the parser: corenlp (HTTP server) or container.
	Backend ParserBackend `json:"backend" yaml:"backend"`

	// URL is the CoreNLP server base URL (default http://localhost:9000).
	URL string `json:"url" yaml:"url"`

	// Image is the container image used by the container backend.
	Image string `json:"image" yaml:"image"`

	// ResolveCoref adds the coreference annotators to the request.
	ResolveCoref bool `json:"resolve_coref" yaml:"resolve_coref"`

	// Username and Password authenticate against a protected CoreNLP server.
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// OutputFormat selects how triples are printed.
type OutputFormat string

const (
	FormatDefault OutputFormat = "default"
	FormatReverb  OutputFormat = "reverb"
	FormatOllie   OutputFormat = "ollie"
)

// OpenIEConfig holds settings for the extraction stage.
type OpenIEConfig struct {
	// SplitterThreshold is the minimum score for accepting a clause (default 0.1).
	SplitterThreshold float64 `json:"splitter_threshold" yaml:"splitter_threshold"`

	// SplitterDisable turns clause splitting off; only raw-graph triples remain.
	SplitterDisable bool `json:"splitter_disable" yaml:"splitter_disable"`

	// EntailmentsPerSentence bounds the forward entailer's output (default 1000).
	// Zero disables forward entailment.
	EntailmentsPerSentence int `json:"max_entailments_per_clause" yaml:"max_entailments_per_clause"`

	// IgnoreAffinity scores every deletion as certain.
	IgnoreAffinity bool `json:"ignore_affinity" yaml:"ignore_affinity"`

	// AffinityProbabilityCap is the affinity considered certain (default 1/3).
	AffinityProbabilityCap float64 `json:"affinity_probability_cap" yaml:"affinity_probability_cap"`

	// Strict only yields triples that consume the whole fragment (default true).
	Strict bool `json:"triple_strict" yaml:"triple_strict"`

	// AllNominals extracts nominal relations for all nouns, not only named entities.
	AllNominals bool `json:"triple_all_nominals" yaml:"triple_all_nominals"`

	// ResolveCoref replaces pronouns with their canonical mention before extraction.
	ResolveCoref bool `json:"resolve_coref" yaml:"resolve_coref"`

	// Format selects the triple output format.
	Format OutputFormat `json:"format" yaml:"format"`

	// Workers is the number of documents processed concurrently (default 1).
	Workers int `json:"workers" yaml:"workers"`

	// DocumentsDir holds parsed documents (*.yaml, *.json).
	DocumentsDir string `json:"documents_dir" yaml:"documents_dir"`

	// KnowledgeDir is the base directory for extraction output (contains extracted/).
	KnowledgeDir string `json:"knowledge_dir" yaml:"knowledge_dir"`
}

// DefaultOpenIEConfig returns the extraction settings used when nothing is configured.
func DefaultOpenIEConfig() OpenIEConfig {
	return OpenIEConfig{
		SplitterThreshold:      0.1,
		EntailmentsPerSentence: 1000,
		AffinityProbabilityCap: 1.0 / 3.0,
		Strict:                 true,
		Format:                 FormatDefault,
		Workers:                1,
		DocumentsDir:           "documents",
		KnowledgeDir:           "knowledge",
	}
}

// KnowledgeBaseConfig holds settings for the knowledge base stage.
type KnowledgeBaseConfig struct {
	// KnowledgeDir is the base directory for knowledge (contains extracted/, index/).
	KnowledgeDir string `json:"knowledge_dir" yaml:"knowledge_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// GraphConfig holds the Neo4j connection used to export triples as a graph.
type GraphConfig struct {
	URI      string `json:"uri" yaml:"uri"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	Database string `json:"database,omitempty" yaml:"database,omitempty"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Parser        ParserConfig        `json:"parser" yaml:"parser"`
	OpenIE        OpenIEConfig        `json:"openie" yaml:"openie"`
	KnowledgeBase KnowledgeBaseConfig `json:"knowledge_base" yaml:"knowledge_base"`
	Graph         GraphConfig         `json:"graph" yaml:"graph"`
}
