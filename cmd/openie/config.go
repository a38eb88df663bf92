// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/openie-engine/pkg/types"
)

const defaultUserAgent = "openie-engine/0.1"

// bindFlags binds each viper key to the named flag of fs.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func setDefaults() {
	d := types.DefaultOpenIEConfig()
	viper.SetDefault("splitter.threshold", d.SplitterThreshold)
	viper.SetDefault("splitter.disable", d.SplitterDisable)
	viper.SetDefault("max_entailments_per_clause", d.EntailmentsPerSentence)
	viper.SetDefault("affinity_probability_cap", d.AffinityProbabilityCap)
	viper.SetDefault("triple.strict", d.Strict)
	viper.SetDefault("format", string(d.Format))
	viper.SetDefault("workers", d.Workers)
	viper.SetDefault("parser.max_retries", 5)
	viper.SetDefault("parser.user_agent", defaultUserAgent)
	viper.SetDefault("knowledge.max_results", 20)
}

// loadConfig assembles the pipeline configuration from flags, environment,
// config file and secrets, in that order of precedence.
func loadConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		Parser: types.ParserConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:    viper.GetDuration("parser.timeout"),
				UserAgent:  viper.GetString("parser.user_agent"),
				MaxRetries: viper.GetInt("parser.max_retries"),
			},
			Backend:      types.ParserBackend(viper.GetString("parser.backend")),
			URL:          viper.GetString("parser.url"),
			Image:        viper.GetString("parser.image"),
			ResolveCoref: viper.GetBool("resolve_coref"),
			Username:     viper.GetString("parser.username"),
			Password:     viper.GetString("parser.password"),
		},
		OpenIE: types.OpenIEConfig{
			SplitterThreshold:      viper.GetFloat64("splitter.threshold"),
			SplitterDisable:        viper.GetBool("splitter.disable"),
			EntailmentsPerSentence: viper.GetInt("max_entailments_per_clause"),
			IgnoreAffinity:         viper.GetBool("ignore_affinity"),
			AffinityProbabilityCap: viper.GetFloat64("affinity_probability_cap"),
			Strict:                 viper.GetBool("triple.strict"),
			AllNominals:            viper.GetBool("triple.all_nominals"),
			ResolveCoref:           viper.GetBool("resolve_coref"),
			Format:                 types.OutputFormat(viper.GetString("format")),
			Workers:                viper.GetInt("workers"),
			DocumentsDir:           viper.GetString("documents_dir"),
			KnowledgeDir:           viper.GetString("knowledge_dir"),
		},
		KnowledgeBase: types.KnowledgeBaseConfig{
			KnowledgeDir: viper.GetString("knowledge_dir"),
			MaxResults:   viper.GetInt("knowledge.max_results"),
		},
		Graph: types.GraphConfig{
			URI:      viper.GetString("graph.uri"),
			Username: viper.GetString("graph.username"),
			Password: viper.GetString("graph.password"),
			Database: viper.GetString("graph.database"),
		},
	}
	loadedSecrets.Apply(&cfg)
	return cfg
}
