package graph_test

import (
	"testing"

	"github.com/oiangu/trenbide/internal/core/domain"
	"github.com/oiangu/trenbide/internal/core/graph"
)

func train(id string, fast bool, stops ...domain.Stop) domain.Train {
	return domain.Train{ID: id, Fast: fast, Stops: stops}
}

func stop(station string, minute int) domain.Stop {
	return domain.Stop{Station: station, Minute: minute}
}

func TestBuild_TravelEdges(t *testing.T) {
	trains := map[string]domain.Train{
		"T1": train("T1", true, stop("X", 480), stop("Y", 510), stop("Z", 540)),
	}
	snap := graph.Build(trains, nil, graph.Policy{MinConnectMinutes: 1, MaxWaitMinutes: 120})

	if len(snap.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(snap.Nodes))
	}
	// node 0 -> node 1 travel edge, 30 min
	found := false
	for _, e := range snap.Adjacency[0] {
		if e.Target == 1 && e.Kind == domain.EdgeTravel && e.Duration == 30 {
			found = true
		}
	}
	if !found {
		t.Error("expected travel edge X->Y with duration 30")
	}
	// last stop has no outgoing travel edge
	if len(snap.Adjacency[2]) != 0 {
		t.Errorf("expected no outgoing edges from last stop, got %v", snap.Adjacency[2])
	}
}

func TestBuild_TransferEdgesWithinPolicy(t *testing.T) {
	trains := map[string]domain.Train{
		"T1": train("T1", false, stop("X", 480), stop("Y", 510)),
		"T2": train("T2", false, stop("Y", 520), stop("Z", 550)),
	}
	snap := graph.Build(trains, nil, graph.Policy{MinConnectMinutes: 1, MaxWaitMinutes: 30})

	// Y@510 (T1 arrival) -> Y@520 (T2 departure): wait=10, within policy
	yT1 := findNode(snap, "Y", "T1", 510)
	yT2 := findNode(snap, "Y", "T2", 520)
	if yT1 < 0 || yT2 < 0 {
		t.Fatal("expected to find Y nodes for both trains")
	}
	found := false
	for _, e := range snap.Adjacency[yT1] {
		if e.Target == yT2 && e.Kind == domain.EdgeTransfer && e.Duration == 10 {
			found = true
		}
	}
	if !found {
		t.Error("expected transfer edge from T1's Y arrival to T2's Y departure")
	}
}

func TestBuild_TransferEdgesOutsidePolicyExcluded(t *testing.T) {
	trains := map[string]domain.Train{
		"T1": train("T1", false, stop("X", 480), stop("Y", 510)),
		"T2": train("T2", false, stop("Y", 520), stop("Z", 550)),
	}
	// max_wait too small to admit the 10-minute connection
	snap := graph.Build(trains, nil, graph.Policy{MinConnectMinutes: 1, MaxWaitMinutes: 5})

	yT1 := findNode(snap, "Y", "T1", 510)
	yT2 := findNode(snap, "Y", "T2", 520)
	for _, e := range snap.Adjacency[yT1] {
		if e.Target == yT2 {
			t.Error("transfer edge should have been excluded by max_wait policy")
		}
	}
}

func findNode(snap *domain.Snapshot, station, train string, minute int) int {
	for i, n := range snap.Nodes {
		if n.Station == station && n.Train == train && n.Minute == minute {
			return i
		}
	}
	return -1
}
