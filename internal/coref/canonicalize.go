// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package coref

import (
	"strings"

	"github.com/pdiddy/openie-engine/internal/depgraph"
)

const (
	pronounTagPrefix = "PRP"
	compoundRelation = "compound"
	compoundWeight   = 1.0
)

func isPronoun(tag string) bool {
	return strings.HasPrefix(tag, pronounTagPrefix)
}

// Canonicalize returns a copy of g in which every pronoun with a canonical
// mention is replaced by that mention. The mention's last token takes the
// pronoun's place and edges; the remaining tokens hang off it as compound
// modifiers at positions just before it. g itself is never modified.
func Canonicalize(g *depgraph.Graph, mentions MentionMap) *depgraph.Graph {
	out := g.Copy()
	if mentions.Len() == 0 {
		return out
	}

	// Vertices returns a snapshot, so rewriting inside the loop is safe and
	// spliced nodes are never revisited.
	for _, node := range out.Vertices() {
		if !isPronoun(node.Tag) {
			continue
		}
		mention, ok := mentions.Get(node.ID)
		if !ok || len(mention.Tokens) == 0 {
			continue
		}

		incoming := out.Incoming(node)
		outgoing := out.Outgoing(node)
		wasRoot := out.IsRoot(node)
		out.RemoveVertex(node)

		last := len(mention.Tokens) - 1
		head := depgraph.NewNode(mention.Sentence, mention.Tokens[last], node.Pos)
		out.AddVertex(head)
		if wasRoot {
			out.AddRoot(head)
		}
		for _, e := range incoming {
			if e.Gov.Pos == node.Pos {
				continue
			}
			out.AddEdge(e.Gov, head, e.Rel, e.Weight, e.Extra)
		}
		for _, e := range outgoing {
			if e.Dep.Pos == node.Pos {
				continue
			}
			out.AddEdge(head, e.Dep, e.Rel, e.Weight, e.Extra)
		}

		for i, k := last-1, 1; i >= 0; i, k = i-1, k+1 {
			dep := depgraph.NewNode(mention.Sentence, mention.Tokens[i], head.Pos.Before(k))
			out.AddEdge(head, dep, compoundRelation, compoundWeight, false)
		}
	}
	return out
}
