// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package depgraph

import (
	"strconv"
	"strings"
)

// Position orders a node within its sentence. Parsed tokens sit at whole
// positions. A node spliced in before an existing node extends that node's
// path with a negative step, so any number of nodes can be inserted between
// two neighbours, at any depth, without renumbering and without running out
// of precision.
//
// Positions compare index first, then path element by element, treating a
// missing element as zero. For p = At(5):
//
//	At(4) < p.Before(2) < p.Before(1).Before(1) < p.Before(1) < p < At(6)
type Position struct {
	index int
	path  string // encoded steps, see steps()
}

// At returns the position of the parsed token with the given index.
func At(index int) Position {
	return Position{index: index}
}

// Index returns the whole token position this position is anchored to.
func (p Position) Index() int { return p.index }

// Spliced reports whether the position was created by Before rather than At.
func (p Position) Spliced() bool { return p.path != "" }

// Before returns the k-th position (k >= 1) immediately preceding p. Larger
// k is further left; every result sorts after anything that sorted before p.
func (p Position) Before(k int) Position {
	if k < 1 {
		k = 1
	}
	step := strconv.Itoa(-k)
	if p.path == "" {
		return Position{index: p.index, path: step}
	}
	return Position{index: p.index, path: p.path + "." + step}
}

func (p Position) steps() []int {
	if p.path == "" {
		return nil
	}
	parts := strings.Split(p.path, ".")
	out := make([]int, len(parts))
	for i, s := range parts {
		out[i], _ = strconv.Atoi(s)
	}
	return out
}

// Compare returns -1, 0 or 1 as p sorts before, equal to, or after q.
func (p Position) Compare(q Position) int {
	switch {
	case p.index < q.index:
		return -1
	case p.index > q.index:
		return 1
	}
	if p.path == q.path {
		return 0
	}
	ps, qs := p.steps(), q.steps()
	n := len(ps)
	if len(qs) > n {
		n = len(qs)
	}
	for i := 0; i < n; i++ {
		var a, b int
		if i < len(ps) {
			a = ps[i]
		}
		if i < len(qs) {
			b = qs[i]
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	}
	return 0
}

// Less reports whether p sorts strictly before q.
func (p Position) Less(q Position) bool { return p.Compare(q) < 0 }

func (p Position) String() string {
	if p.path == "" {
		return strconv.Itoa(p.index)
	}
	return strconv.Itoa(p.index) + "." + p.path
}
