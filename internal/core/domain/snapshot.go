package domain

import "sort"

// Snapshot is the immutable, fully-built graph plus the metadata the
// enumerator and facade need. It is constructed once — at startup, or on
// reload — and never mutated after publication; concurrent readers need no
// synchronization.
type Snapshot struct {
	Version      string
	Nodes        []Node
	Adjacency    [][]AdjacencyEntry
	Trains       map[string]Train
	DirectionMap map[string][]int
	Stations     []string // sorted, unique

	byStation map[string][]int
}

// NewSnapshot builds the station index from Nodes and returns a
// ready-to-use Snapshot.
func NewSnapshot(version string, nodes []Node, adjacency [][]AdjacencyEntry, trains map[string]Train, directions map[string][]int) *Snapshot {
	byStation := make(map[string][]int)
	stationSet := make(map[string]struct{})
	for i, n := range nodes {
		byStation[n.Station] = append(byStation[n.Station], i)
		stationSet[n.Station] = struct{}{}
	}

	stations := make([]string, 0, len(stationSet))
	for s := range stationSet {
		stations = append(stations, s)
	}
	sort.Strings(stations)

	return &Snapshot{
		Version:      version,
		Nodes:        nodes,
		Adjacency:    adjacency,
		Trains:       trains,
		DirectionMap: directions,
		Stations:     stations,
		byStation:    byStation,
	}
}

// NodesAtStation returns the dense indices of every node at a station.
func (s *Snapshot) NodesAtStation(station string) []int {
	return s.byStation[station]
}

// HasStation reports whether the station appears anywhere in the schedule.
func (s *Snapshot) HasStation(station string) bool {
	_, ok := s.byStation[station]
	return ok
}
