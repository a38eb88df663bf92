// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fragment holds sentence fragments: subgraphs of a sentence that
// are asserted (or denied) on their own, together with a confidence.
package fragment

import (
	"crypto/sha256"
	"fmt"

	"github.com/pdiddy/openie-engine/internal/depgraph"
)

// Fragment is an extraction unit. Identity is the structure of Graph plus
// AssumedTruth; Score is not part of it, so the same fragment reached along
// two paths with different confidences is one fragment.
type Fragment struct {
	Graph         *depgraph.Graph
	AssumedTruth  bool
	Score         float64
	WholeSentence bool
}

// New returns a fragment with score 1.
func New(g *depgraph.Graph, assumedTruth, wholeSentence bool) Fragment {
	return Fragment{Graph: g, AssumedTruth: assumedTruth, Score: 1.0, WholeSentence: wholeSentence}
}

// WithScore returns a copy of f carrying the given score.
func (f Fragment) WithScore(score float64) Fragment {
	f.Score = score
	return f
}

// Key is the canonical serialization of the fragment's identity.
func (f Fragment) Key() string {
	return fmt.Sprintf("%t|%s", f.AssumedTruth, f.Graph.Key())
}

// Fingerprint hashes Key.
func (f Fragment) Fingerprint() [sha256.Size]byte {
	return sha256.Sum256([]byte(f.Key()))
}

// Equal reports whether f and o are the same fragment, ignoring score.
func (f Fragment) Equal(o Fragment) bool {
	return f.AssumedTruth == o.AssumedTruth && f.Graph.Equal(o.Graph)
}

func (f Fragment) String() string {
	return f.Graph.Text()
}

// Set collects fragments, keeping the first of each structurally equal group
// and the order of first insertion.
type Set struct {
	seen  map[[sha256.Size]byte]int
	items []Fragment
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{seen: make(map[[sha256.Size]byte]int)}
}

// Add inserts f and reports whether it was new.
func (s *Set) Add(f Fragment) bool {
	k := f.Fingerprint()
	if _, ok := s.seen[k]; ok {
		return false
	}
	s.seen[k] = len(s.items)
	s.items = append(s.items, f)
	return true
}

// AddAll inserts every fragment of fs.
func (s *Set) AddAll(fs []Fragment) {
	for _, f := range fs {
		s.Add(f)
	}
}

// Contains reports whether a fragment structurally equal to f is present.
func (s *Set) Contains(f Fragment) bool {
	_, ok := s.seen[f.Fingerprint()]
	return ok
}

// Len returns the number of distinct fragments.
func (s *Set) Len() int { return len(s.items) }

// Items returns the fragments in insertion order.
func (s *Set) Items() []Fragment {
	return append([]Fragment(nil), s.items...)
}
