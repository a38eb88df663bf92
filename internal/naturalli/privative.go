// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package naturalli

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// privativeAdjectives negate or hedge the noun they modify: a former
// president is not a president, a fake gun is not a gun.
var privativeAdjectives = mapset.NewThreadUnsafeSet[string](
	"believed", "debatable", "disputed", "dubious", "hypothetical", "impossible",
	"improbable", "plausible", "putative", "questionable", "so-called", "supposed",
	"suspicious", "theoretical", "uncertain", "unlikely", "would-be", "apparent",
	"arguable", "assumed", "likely", "ostensible", "possible", "potential",
	"predicted", "presumed", "probable", "seeming", "alleged", "anti", "fake",
	"fictional", "fictitious", "imaginary", "mythical", "phony", "false",
	"artificial", "erroneous", "mistaken", "mock", "pseudo", "simulated",
	"spurious", "counterfeit", "deputy", "faulty", "virtual", "doubtful",
	"erstwhile", "ex", "expected", "former", "future", "onetime", "past",
	"proposed",
)

// IsPrivative reports whether word, case-insensitively, is a privative adjective.
func IsPrivative(word string) bool {
	return privativeAdjectives.Contains(strings.ToLower(word))
}
