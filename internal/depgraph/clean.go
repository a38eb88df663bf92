// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package depgraph

// PunctRelation labels punctuation attachments.
const PunctRelation = "punct"

// Clean repairs a freshly parsed graph in place and returns it:
//   - self loops are dropped;
//   - punctuation arcs are dropped, and punctuation leaves left isolated go with them;
//   - of several arcs between the same governor and dependent, a tree arc is
//     kept over an extra one, otherwise the first by relation;
//   - a graph without a root gets one: the leftmost vertex with no incoming tree arc.
func Clean(g *Graph) *Graph {
	for _, e := range g.Edges() {
		if e.Gov.Pos == e.Dep.Pos {
			g.RemoveEdge(e)
		}
	}

	for _, e := range g.Edges() {
		if e.Rel != PunctRelation {
			continue
		}
		g.RemoveEdge(e)
		dep := e.Dep
		if len(g.in[dep.Pos]) == 0 && len(g.out[dep.Pos]) == 0 && !g.IsRoot(dep) {
			g.RemoveVertex(dep)
		}
	}

	type pair struct{ gov, dep Position }
	kept := make(map[pair]*Edge)
	for _, e := range g.Edges() {
		k := pair{e.Gov.Pos, e.Dep.Pos}
		prev, ok := kept[k]
		if !ok {
			kept[k] = e
			continue
		}
		if prev.Extra && !e.Extra {
			g.RemoveEdge(prev)
			kept[k] = e
			continue
		}
		g.RemoveEdge(e)
	}

	if len(g.roots) == 0 {
		for _, n := range g.Vertices() {
			if !hasTreeParent(g, n) {
				g.AddRoot(n)
				break
			}
		}
	}
	return g
}

func hasTreeParent(g *Graph, n *Node) bool {
	for _, e := range g.in[n.Pos] {
		if !e.Extra {
			return true
		}
	}
	return false
}
