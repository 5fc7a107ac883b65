package dag

import "slices"

type Graph struct {
	Edges   [][]NodeID // Edges[from] = []to
	Indeg   []int      // входящие степени для Kahn (учитывает только присутствующие узлы)
	Present []bool     // узел объявлен, а не только упомянут в Before
}

// BuildGraph wires nodes through idx. Edges to names that were never
// declared are kept but do not count towards in-degrees, self edges and
// duplicates are dropped.
func BuildGraph(idx Index, nodes []Node) Graph {
	count := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]NodeID, count),
		Indeg:   make([]int, count),
		Present: make([]bool, count),
	}
	for _, n := range nodes {
		if id, ok := idx.NameToID[n.Name]; ok {
			g.Present[int(id)] = true
		}
	}
	for _, n := range nodes {
		from, ok := idx.NameToID[n.Name]
		if !ok {
			continue
		}
		for _, name := range n.Before {
			to, ok := idx.NameToID[name]
			if !ok || to == from || slices.Contains(g.Edges[int(from)], to) {
				continue
			}
			g.Edges[int(from)] = append(g.Edges[int(from)], to)
			if g.Present[int(to)] {
				g.Indeg[int(to)]++
			}
		}
		slices.Sort(g.Edges[int(from)])
	}
	return g
}
