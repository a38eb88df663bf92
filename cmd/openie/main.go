// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the openie CLI: parse text, extract
// relation triples from parsed documents, and manage the triple store.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/openie-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// log is the process logger, configured from --log-level and --log-json.
var log = logrus.StandardLogger()

// rootCmd is the base command for the openie CLI.
var rootCmd = &cobra.Command{
	Use:   "openie",
	Short: "Natural-logic open information extraction",
	Long: `openie extracts (subject; relation; object) triples from parsed sentences.
It splits sentences into clauses, shortens each clause into the fragments
it entails, and segments every fragment into a triple.

Stages are subcommands: parse turns text into parsed documents, extract
produces triples, and knowledge indexes, queries and exports them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := configureLogging(); err != nil {
			return err
		}
		s, err := secrets.Load(".secrets/", log)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log.WithField("keys", keys).Debug("loaded secrets")
		}
		startMetrics(viper.GetString("metrics_addr"))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./openie.yaml or ~/.config/openie/openie.yaml)")
	pf.String("log-level", "info", "logging level: debug, info, warn, error")
	pf.Bool("log-json", false, "log as JSON")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	pf.String("documents-dir", "documents", "directory of parsed documents")
	pf.String("knowledge-dir", "knowledge", "base directory for knowledge (contains extracted/, index/)")
	pf.Bool("resolve-coref", false, "replace pronouns with their canonical mention")
	pf.String("parser-backend", "corenlp", "parser backend: corenlp or container")
	pf.String("parser-url", "http://localhost:9000", "CoreNLP server URL")
	pf.String("parser-image", "", "parser container image")

	bindFlags(pf, map[string]string{
		"log_level":      "log-level",
		"log_json":       "log-json",
		"metrics_addr":   "metrics-addr",
		"documents_dir":  "documents-dir",
		"knowledge_dir":  "knowledge-dir",
		"resolve_coref":  "resolve-coref",
		"parser.backend": "parser-backend",
		"parser.url":     "parser-url",
		"parser.image":   "parser-image",
	})
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("openie")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "openie"))
		}
	}

	setDefaults()
	viper.SetEnvPrefix("OPENIE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func configureLogging() error {
	level, err := logrus.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	if viper.GetBool("log_json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func startMetrics(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.WithField("addr", addr).Info("serving metrics")
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.WithError(err).Error("metrics server stopped")
		}
	}()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
