package schedule

import (
	"encoding/json"

	"github.com/oiangu/trenbide/internal/core/domain"
	"github.com/oiangu/trenbide/internal/pkg/timeutil"
)

// rawFastGraph mirrors the alternative pre-built graph document of spec §6:
// nodes are [station, train, "HH:MM"] triples, edges carry an explicit
// weight/segment_travel_time and a kind.
type rawFastGraph struct {
	Nodes [][3]string    `json:"nodes"`
	Edges []rawFastEdge  `json:"edges"`
}

type rawFastEdge struct {
	From              [3]string `json:"from"`
	To                [3]string `json:"to"`
	Weight            *int      `json:"weight"`
	SegmentTravelTime *int      `json:"segment_travel_time"`
	Type              string    `json:"type"`
}

func (e rawFastEdge) duration() int {
	if e.Weight != nil {
		return *e.Weight
	}
	if e.SegmentTravelTime != nil {
		return *e.SegmentTravelTime
	}
	return 0
}

// FastGraphDocument holds a pre-built graph, ready for direct adjacency
// indexing without running the builder (spec §6, "optional alternative to
// building from schedule").
type FastGraphDocument struct {
	Nodes []domain.Node
	Edges []FastGraphEdge
}

// FastGraphEdge references nodes by value; graph.BuildFromFastGraph
// resolves them into dense indices once, at adjacency-build time.
type FastGraphEdge struct {
	From, To domain.Node
	Kind     domain.EdgeKind
	Duration int
}

// ParseFastGraph parses the alternative pre-built graph document.
func ParseFastGraph(data []byte) (*FastGraphDocument, error) {
	var raw rawFastGraph
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, domain.WrapError(domain.ErrLoader, err, "malformed fast-graph document")
	}

	nodes := make([]domain.Node, 0, len(raw.Nodes))
	for i, rn := range raw.Nodes {
		n, err := parseFastGraphNode(rn)
		if err != nil {
			return nil, domain.WrapError(domain.ErrLoader, err, "fast-graph node %d", i)
		}
		nodes = append(nodes, n)
	}

	edges := make([]FastGraphEdge, 0, len(raw.Edges))
	for i, re := range raw.Edges {
		from, err := parseFastGraphNode(re.From)
		if err != nil {
			return nil, domain.WrapError(domain.ErrLoader, err, "fast-graph edge %d from", i)
		}
		to, err := parseFastGraphNode(re.To)
		if err != nil {
			return nil, domain.WrapError(domain.ErrLoader, err, "fast-graph edge %d to", i)
		}
		kind := domain.EdgeTravel
		if re.Type == string(domain.EdgeTransfer) {
			kind = domain.EdgeTransfer
		}
		d := re.duration()
		if d <= 0 {
			// Invariant: duration > 0 — drop the edge rather than
			// admit a zero/negative-weight shortcut into the graph.
			continue
		}
		edges = append(edges, FastGraphEdge{From: from, To: to, Kind: kind, Duration: d})
	}

	return &FastGraphDocument{Nodes: nodes, Edges: edges}, nil
}

func parseFastGraphNode(triple [3]string) (domain.Node, error) {
	minute, err := timeutil.Parse(triple[2])
	if err != nil {
		return domain.Node{}, err
	}
	return domain.Node{Station: triple[0], Train: triple[1], Minute: minute}, nil
}
