// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package depgraph

import (
	"fmt"
	"strings"

	"github.com/pdiddy/openie-engine/pkg/types"
)

// Polarity is the monotonicity of a token's context.
type Polarity int

const (
	PolarityUnknown Polarity = iota
	PolarityUp
	PolarityDown
	PolarityFlat
)

// ParsePolarity maps a token's polarity annotation to a Polarity.
func ParsePolarity(s string) Polarity {
	switch strings.ToLower(s) {
	case types.PolarityUp, "upward", "up_monotone":
		return PolarityUp
	case types.PolarityDown, "downward", "down_monotone":
		return PolarityDown
	case types.PolarityFlat, "non-monotone", "nonmonotone":
		return PolarityFlat
	default:
		return PolarityUnknown
	}
}

// IsUpwards reports whether substituting a more general term preserves truth.
func (p Polarity) IsUpwards() bool { return p == PolarityUp }

func (p Polarity) String() string {
	switch p {
	case PolarityUp:
		return types.PolarityUp
	case PolarityDown:
		return types.PolarityDown
	case PolarityFlat:
		return types.PolarityFlat
	default:
		return ""
	}
}

// Node is a token placed in a dependency graph. Its Position is its identity
// within the graph; ID points back at the document token it was built from.
type Node struct {
	ID       types.TokenID
	Word     string
	Lemma    string
	Tag      string
	NER      string
	Polarity Polarity
	Pos      Position
}

// NewNode builds a node for a document token at the given position.
func NewNode(sentence int, tok types.Token, pos Position) *Node {
	return &Node{
		ID:       types.TokenID{Sentence: sentence, Index: tok.Index},
		Word:     tok.Word,
		Lemma:    tok.Lemma,
		Tag:      tok.Tag,
		NER:      tok.NER,
		Polarity: ParsePolarity(tok.Polarity),
		Pos:      pos,
	}
}

// Clone returns a copy of n that shares no state with it.
func (n *Node) Clone() *Node {
	c := *n
	return &c
}

// AsWord returns the node as a triple word.
func (n *Node) AsWord() types.Word {
	return types.Word{Index: n.Pos.Index(), Text: n.Word}
}

func (n *Node) String() string {
	return fmt.Sprintf("%s-%s", n.Word, n.Pos)
}
