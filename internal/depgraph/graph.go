// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package depgraph is the mutable dependency graph the extractor rewrites:
// nodes keyed by Position, labeled weighted edges, and designated roots.
// Every edge's endpoints are vertices of the graph; removing a vertex removes
// every edge touching it.
package depgraph

import (
	"crypto/sha256"
	"fmt"
	"math"
	"sort"
	"strings"
)

// WeightCertain is the sentinel weight for structurally certain edges.
var WeightCertain = math.Inf(-1)

// Edge is a directed, labeled dependency from Gov to Dep.
type Edge struct {
	Gov    *Node
	Dep    *Node
	Rel    string
	Weight float64

	// Extra marks a secondary (collapsed) dependency rather than a tree edge.
	Extra bool
}

func (e *Edge) String() string {
	return fmt.Sprintf("%s -%s-> %s", e.Gov, e.Rel, e.Dep)
}

func (e *Edge) same(gov, dep Position, rel string) bool {
	return e.Gov.Pos == gov && e.Dep.Pos == dep && e.Rel == rel
}

// Graph is a dependency graph over the tokens of one sentence (or a
// fragment of one).
type Graph struct {
	nodes map[Position]*Node
	out   map[Position][]*Edge
	in    map[Position][]*Edge
	roots []Position
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[Position]*Node),
		out:   make(map[Position][]*Edge),
		in:    make(map[Position][]*Edge),
	}
}

// Size returns the number of vertices.
func (g *Graph) Size() int { return len(g.nodes) }

// IsEmpty reports whether the graph has no vertices.
func (g *Graph) IsEmpty() bool { return len(g.nodes) == 0 }

// Contains reports whether n (by position) is a vertex of g.
func (g *Graph) Contains(n *Node) bool {
	_, ok := g.nodes[n.Pos]
	return ok
}

// Node returns the vertex at pos.
func (g *Graph) Node(pos Position) (*Node, bool) {
	n, ok := g.nodes[pos]
	return n, ok
}

// AddVertex inserts n. It returns false when a vertex already occupies n's position.
func (g *Graph) AddVertex(n *Node) bool {
	if _, ok := g.nodes[n.Pos]; ok {
		return false
	}
	g.nodes[n.Pos] = n
	return true
}

// RemoveVertex deletes n and every edge touching it.
func (g *Graph) RemoveVertex(n *Node) bool {
	pos := n.Pos
	if _, ok := g.nodes[pos]; !ok {
		return false
	}
	for _, e := range g.out[pos] {
		g.in[e.Dep.Pos] = dropEdge(g.in[e.Dep.Pos], e)
	}
	for _, e := range g.in[pos] {
		g.out[e.Gov.Pos] = dropEdge(g.out[e.Gov.Pos], e)
	}
	delete(g.out, pos)
	delete(g.in, pos)
	delete(g.nodes, pos)
	for i, r := range g.roots {
		if r == pos {
			g.roots = append(g.roots[:i:i], g.roots[i+1:]...)
			break
		}
	}
	return true
}

func dropEdge(edges []*Edge, target *Edge) []*Edge {
	out := edges[:0:0]
	for _, e := range edges {
		if e != target {
			out = append(out, e)
		}
	}
	return out
}

// AddEdge links gov to dep. Endpoints that are not yet vertices are added
// first. Adding an edge that already exists (same endpoints and relation)
// returns the existing edge unchanged.
func (g *Graph) AddEdge(gov, dep *Node, rel string, weight float64, extra bool) *Edge {
	if existing, ok := g.nodes[gov.Pos]; ok {
		gov = existing
	} else {
		g.nodes[gov.Pos] = gov
	}
	if existing, ok := g.nodes[dep.Pos]; ok {
		dep = existing
	} else {
		g.nodes[dep.Pos] = dep
	}
	for _, e := range g.out[gov.Pos] {
		if e.same(gov.Pos, dep.Pos, rel) {
			return e
		}
	}
	e := &Edge{Gov: gov, Dep: dep, Rel: rel, Weight: weight, Extra: extra}
	g.out[gov.Pos] = append(g.out[gov.Pos], e)
	g.in[dep.Pos] = append(g.in[dep.Pos], e)
	return e
}

// RemoveEdge deletes e (matched by endpoints and relation).
func (g *Graph) RemoveEdge(e *Edge) bool {
	for _, cand := range g.out[e.Gov.Pos] {
		if cand.same(e.Gov.Pos, e.Dep.Pos, e.Rel) {
			g.out[e.Gov.Pos] = dropEdge(g.out[e.Gov.Pos], cand)
			g.in[e.Dep.Pos] = dropEdge(g.in[e.Dep.Pos], cand)
			return true
		}
	}
	return false
}

// AddRoot marks n as a root, adding it as a vertex if needed.
func (g *Graph) AddRoot(n *Node) {
	g.AddVertex(n)
	for _, r := range g.roots {
		if r == n.Pos {
			return
		}
	}
	g.roots = append(g.roots, n.Pos)
}

// Roots returns the root vertices in position order.
func (g *Graph) Roots() []*Node {
	out := make([]*Node, 0, len(g.roots))
	for _, r := range g.roots {
		out = append(out, g.nodes[r])
	}
	sortNodes(out)
	return out
}

// Root returns the first root, or nil when the graph has none.
func (g *Graph) Root() *Node {
	roots := g.Roots()
	if len(roots) == 0 {
		return nil
	}
	return roots[0]
}

// IsRoot reports whether n is a designated root.
func (g *Graph) IsRoot(n *Node) bool {
	for _, r := range g.roots {
		if r == n.Pos {
			return true
		}
	}
	return false
}

// Vertices returns a snapshot of the vertices in position order. The slice
// is safe to iterate while mutating the graph.
func (g *Graph) Vertices() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sortNodes(out)
	return out
}

// Edges returns a snapshot of all edges ordered by governor, dependent, relation.
func (g *Graph) Edges() []*Edge {
	var out []*Edge
	for _, edges := range g.out {
		out = append(out, edges...)
	}
	sortEdges(out)
	return out
}

// Outgoing returns a snapshot of n's outgoing edges in dependent order.
func (g *Graph) Outgoing(n *Node) []*Edge {
	out := append([]*Edge(nil), g.out[n.Pos]...)
	sortEdges(out)
	return out
}

// Incoming returns a snapshot of n's incoming edges in governor order.
func (g *Graph) Incoming(n *Node) []*Edge {
	in := append([]*Edge(nil), g.in[n.Pos]...)
	sortEdges(in)
	return in
}

// Children returns the dependents of n in position order.
func (g *Graph) Children(n *Node) []*Node {
	var out []*Node
	seen := make(map[Position]bool)
	for _, e := range g.out[n.Pos] {
		if !seen[e.Dep.Pos] {
			seen[e.Dep.Pos] = true
			out = append(out, e.Dep)
		}
	}
	sortNodes(out)
	return out
}

// Descendants returns n and every node reachable from it, in position order.
func (g *Graph) Descendants(n *Node) []*Node {
	seen := map[Position]bool{n.Pos: true}
	stack := []*Node{n}
	out := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range g.out[cur.Pos] {
			if seen[e.Dep.Pos] {
				continue
			}
			seen[e.Dep.Pos] = true
			out = append(out, e.Dep)
			stack = append(stack, e.Dep)
		}
	}
	sortNodes(out)
	return out
}

// Copy returns a deep copy of g. Nodes and edges are fresh values, so
// mutating the copy never affects g.
func (g *Graph) Copy() *Graph {
	c := New()
	for pos, n := range g.nodes {
		c.nodes[pos] = n.Clone()
	}
	for pos, edges := range g.out {
		for _, e := range edges {
			ne := &Edge{Gov: c.nodes[pos], Dep: c.nodes[e.Dep.Pos], Rel: e.Rel, Weight: e.Weight, Extra: e.Extra}
			c.out[pos] = append(c.out[pos], ne)
			c.in[e.Dep.Pos] = append(c.in[e.Dep.Pos], ne)
		}
	}
	c.roots = append([]Position(nil), g.roots...)
	return c
}

// Key is the canonical serialization of g: sorted vertices, sorted edges
// and roots. Weights are not part of a graph's identity.
func (g *Graph) Key() string {
	var b strings.Builder
	for _, n := range g.Vertices() {
		fmt.Fprintf(&b, "%s/%s/%s ", n.Pos, n.Word, n.Tag)
	}
	b.WriteByte('|')
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "%s>%s>%s ", e.Gov.Pos, e.Rel, e.Dep.Pos)
	}
	b.WriteByte('|')
	for _, r := range g.Roots() {
		fmt.Fprintf(&b, "%s ", r.Pos)
	}
	return b.String()
}

// Fingerprint hashes Key for set membership.
func (g *Graph) Fingerprint() [sha256.Size]byte {
	return sha256.Sum256([]byte(g.Key()))
}

// Equal reports whether g and o have the same vertices, edges and roots.
func (g *Graph) Equal(o *Graph) bool {
	if g.Size() != o.Size() {
		return false
	}
	return g.Key() == o.Key()
}

// Text returns the words of g in position order.
func (g *Graph) Text() string {
	nodes := g.Vertices()
	words := make([]string, len(nodes))
	for i, n := range nodes {
		words[i] = n.Word
	}
	return strings.Join(words, " ")
}

func (g *Graph) String() string { return g.Text() }

func sortNodes(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Pos.Less(nodes[j].Pos) })
}

func sortEdges(edges []*Edge) {
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if c := a.Gov.Pos.Compare(b.Gov.Pos); c != 0 {
			return c < 0
		}
		if c := a.Dep.Pos.Compare(b.Dep.Pos); c != 0 {
			return c < 0
		}
		return a.Rel < b.Rel
	})
}

// Subgraph returns a deep copy of the part of g reachable from root, with
// root as its only root.
func (g *Graph) Subgraph(root *Node) *Graph {
	keep := make(map[Position]bool)
	for _, n := range g.Descendants(root) {
		keep[n.Pos] = true
	}
	c := New()
	for pos := range keep {
		c.nodes[pos] = g.nodes[pos].Clone()
	}
	for pos := range keep {
		for _, e := range g.out[pos] {
			if !keep[e.Dep.Pos] {
				continue
			}
			ne := &Edge{Gov: c.nodes[pos], Dep: c.nodes[e.Dep.Pos], Rel: e.Rel, Weight: e.Weight, Extra: e.Extra}
			c.out[pos] = append(c.out[pos], ne)
			c.in[e.Dep.Pos] = append(c.in[e.Dep.Pos], ne)
		}
	}
	c.roots = []Position{root.Pos}
	return c
}

// Without returns a deep copy of g with n removed, together with every
// descendant of n that is no longer reachable from a root.
func (g *Graph) Without(n *Node) *Graph {
	c := g.Copy()
	target, ok := c.nodes[n.Pos]
	if !ok {
		return c
	}
	orphans := c.Descendants(target)
	c.RemoveVertex(target)

	reachable := make(map[Position]bool)
	for _, r := range c.Roots() {
		for _, d := range c.Descendants(r) {
			reachable[d.Pos] = true
		}
	}
	for _, d := range orphans {
		if !reachable[d.Pos] {
			c.RemoveVertex(d)
		}
	}
	return c
}
