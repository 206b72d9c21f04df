package graph

import (
	"github.com/oiangu/trenbide/internal/core/domain"
	"github.com/oiangu/trenbide/internal/core/schedule"
)

// BuildFromFastGraph indexes a pre-built graph document directly, skipping
// the builder stage entirely (spec §6's "optional alternative"). Edges
// referencing a node absent from the node list are silently dropped — a
// loader invariant, defensive by design (spec §4.d).
func BuildFromFastGraph(doc *schedule.FastGraphDocument, trains map[string]domain.Train, directions map[string][]int) *domain.Snapshot {
	index := make(map[domain.Node]int, len(doc.Nodes))
	for i, n := range doc.Nodes {
		index[n] = i
	}

	adjacency := make([][]domain.AdjacencyEntry, len(doc.Nodes))
	for _, e := range doc.Edges {
		from, ok := index[e.From]
		if !ok {
			continue
		}
		to, ok := index[e.To]
		if !ok {
			continue
		}
		adjacency[from] = append(adjacency[from], domain.AdjacencyEntry{
			Target: to, Kind: e.Kind, Duration: e.Duration,
		})
	}

	return domain.NewSnapshot("", doc.Nodes, adjacency, trains, directions)
}
