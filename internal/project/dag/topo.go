package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Topo is the result of ToposortKahn.
type Topo struct {
	Order   []NodeID   // declared nodes, batch by batch
	Batches [][]NodeID // волны: узлы одной волны не зависят друг от друга
	Cyclic  bool
	Cycles  []NodeID // declared nodes never released, sorted
}

// ToposortKahn peels off zero in-degree nodes wave by wave. Each wave is
// sorted by id, so the order is deterministic for a given Index.
func ToposortKahn(g Graph) *Topo {
	indeg := slices.Clone(g.Indeg)
	topo := &Topo{Order: make([]NodeID, 0, len(g.Edges))}

	var wave []NodeID
	for i, present := range g.Present {
		if present && indeg[i] == 0 {
			wave = append(wave, nodeID(i))
		}
	}

	for len(wave) > 0 {
		topo.Batches = append(topo.Batches, wave)
		topo.Order = append(topo.Order, wave...)
		var next []NodeID
		for _, from := range wave {
			for _, to := range g.Edges[from] {
				if !g.Present[to] {
					continue
				}
				if indeg[to]--; indeg[to] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		wave = next
	}

	for i, present := range g.Present {
		if present && indeg[i] > 0 {
			topo.Cycles = append(topo.Cycles, nodeID(i))
		}
	}
	topo.Cyclic = len(topo.Cycles) > 0
	return topo
}

func nodeID(i int) NodeID {
	id, err := safecast.Conv[NodeID](i)
	if err != nil {
		panic(fmt.Errorf("node id overflow: %w", err))
	}
	return id
}

// Sort orders declared nodes so every node precedes the nodes in its Before
// list. blocked lists the nodes left unordered by a cycle, nil when there is
// none.
func Sort(nodes []Node) (order, blocked []string) {
	idx := BuildIndex(nodes)
	topo := ToposortKahn(BuildGraph(idx, nodes))
	order = idx.Names(topo.Order)
	if topo.Cyclic {
		blocked = idx.Names(topo.Cycles)
	}
	return order, blocked
}
