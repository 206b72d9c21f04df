// Package graph builds the time-expanded graph from a parsed schedule and
// indexes it for dense adjacency lookups. Encoding time into the node,
// rather than onto the edge, makes the enumerator a standard graph walk —
// it never has to solve a time constraint mid-traversal.
package graph

import (
	"sort"

	"github.com/oiangu/trenbide/internal/core/domain"
)

// Policy is the builder's transfer-edge configuration. It is always an
// explicit input, never inferred from the schedule document itself.
type Policy struct {
	MinConnectMinutes int
	MaxWaitMinutes    int
}

// Build constructs the full time-expanded graph (nodes, travel edges,
// transfer edges) and its adjacency index from a train table, per spec §4.c/d.
func Build(trains map[string]domain.Train, directions map[string][]int, policy Policy) *domain.Snapshot {
	trainIDs := make([]string, 0, len(trains))
	for id := range trains {
		trainIDs = append(trainIDs, id)
	}
	sort.Strings(trainIDs) // deterministic node ordering across builds

	var nodes []domain.Node
	// nodeIndex[trainID][stopPos] = dense node index, for wiring travel edges.
	nodeIndex := make(map[string][]int, len(trainIDs))

	for _, id := range trainIDs {
		tr := trains[id]
		positions := make([]int, len(tr.Stops))
		for i, st := range tr.Stops {
			positions[i] = len(nodes)
			nodes = append(nodes, domain.Node{Station: st.Station, Train: id, Minute: st.Minute})
		}
		nodeIndex[id] = positions
	}

	adjacency := make([][]domain.AdjacencyEntry, len(nodes))

	// Travel edges: consecutive stops of the same train.
	for _, id := range trainIDs {
		tr := trains[id]
		positions := nodeIndex[id]
		for i := 0; i+1 < len(positions); i++ {
			from, to := positions[i], positions[i+1]
			d := minutesBetween(tr.Stops[i].Minute, tr.Stops[i+1].Minute)
			if d <= 0 {
				continue // spec §4.c: emit no travel edges of zero duration
			}
			adjacency[from] = append(adjacency[from], domain.AdjacencyEntry{
				Target: to, Kind: domain.EdgeTravel, Duration: d,
			})
		}
	}

	// Transfer edges: ordered pairs of distinct-train nodes at the same
	// station, within [MinConnect, MaxWait].
	byStation := make(map[string][]int)
	for i, n := range nodes {
		byStation[n.Station] = append(byStation[n.Station], i)
	}

	for _, idxs := range byStation {
		for _, u := range idxs {
			for _, v := range idxs {
				if u == v {
					continue
				}
				if nodes[u].Train == nodes[v].Train {
					continue
				}
				d := minutesBetween(nodes[u].Minute, nodes[v].Minute)
				if d < policy.MinConnectMinutes || d > policy.MaxWaitMinutes {
					continue
				}
				adjacency[u] = append(adjacency[u], domain.AdjacencyEntry{
					Target: v, Kind: domain.EdgeTransfer, Duration: d,
				})
			}
		}
	}

	return domain.NewSnapshot("", nodes, adjacency, trains, directions)
}

func minutesBetween(a, b int) int {
	d := (b - a) % 1440
	if d < 0 {
		d += 1440
	}
	return d
}
