//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Parse turns text/*.txt into parsed documents with the configured parser.
func Parse() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "parse")
}

// Extract runs triple extraction over every parsed document.
func Extract() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "extract", "--batch")
}

// Index ingests extracted triples into the SQLite triple store.
func Index() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "knowledge", "store")
}

// Pipeline runs parse, extract and index in order.
func Pipeline() {
	mg.SerialDeps(Parse, Extract, Index)
}
