package enumerate_test

import (
	"context"
	"testing"

	"github.com/oiangu/trenbide/internal/core/domain"
	"github.com/oiangu/trenbide/internal/core/enumerate"
	"github.com/oiangu/trenbide/internal/core/graph"
)

func tr(id string, fast bool, dir []int, stops ...domain.Stop) domain.Train {
	return domain.Train{ID: id, Fast: fast, DirectionVector: dir, Stops: stops}
}

func st(station string, minute int) domain.Stop {
	return domain.Stop{Station: station, Minute: minute}
}

// Scenario A — Direct only.
func TestFindPaths_Direct(t *testing.T) {
	trains := map[string]domain.Train{
		"T1": tr("T1", true, nil, st("X", 480), st("Y", 510), st("Z", 540)),
	}
	snap := graph.Build(trains, nil, graph.Policy{MinConnectMinutes: 1, MaxWaitMinutes: 120})

	paths, _, err := enumerate.FindPaths(context.Background(), snap, enumerate.Request{
		StartStation: "X", EndStation: "Z", MaxTransfers: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected 1 path, got %d: %+v", len(paths), paths)
	}
	p := paths[0]
	if p.Type != domain.PathDirect || p.TotalMinutes != 60 || p.DepartureTime != "08:00" || p.ArrivalTime != "09:00" {
		t.Errorf("unexpected summary: %+v", p)
	}
	if !p.IsFast || p.TransferCount != 0 || len(p.TransferDetails) != 0 {
		t.Errorf("unexpected fast/transfer fields: %+v", p)
	}
	if p.TotalTime != "1h 0m" {
		t.Errorf("unexpected total_time: %s", p.TotalTime)
	}
}

// Scenario B — One transfer with a single option.
func TestFindPaths_OneTransfer(t *testing.T) {
	trains := map[string]domain.Train{
		"T1": tr("T1", false, nil, st("X", 480), st("Y", 510)),
		"T2": tr("T2", false, nil, st("Y", 520), st("Z", 550)),
	}
	snap := graph.Build(trains, nil, graph.Policy{MinConnectMinutes: 1, MaxWaitMinutes: 30})

	paths, _, err := enumerate.FindPaths(context.Background(), snap, enumerate.Request{
		StartStation: "X", EndStation: "Z", MaxTransfers: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(paths))
	}
	p := paths[0]
	if p.Type != domain.PathTransfer || p.TotalMinutes != 70 || p.TransferCount != 1 {
		t.Fatalf("unexpected summary: %+v", p)
	}
	want := domain.TransferDetail{Station: "Y", ArrivalTime: "08:30", DepartureTime: "08:40", WaitMinutes: 10}
	if len(p.TransferDetails) != 1 || p.TransferDetails[0] != want {
		t.Errorf("unexpected transfer detail: %+v", p.TransferDetails)
	}
}

// Scenario D — Direction incompatibility rejects a path.
func TestFindPaths_DirectionIncompatible(t *testing.T) {
	trains := map[string]domain.Train{
		"T1": tr("T1", false, []int{1, 0}, st("X", 480), st("Y", 510)),
		"T2": tr("T2", false, []int{-1, 0}, st("Y", 520), st("Z", 550)),
	}
	directions := map[string][]int{"T1": {1, 0}, "T2": {-1, 0}}
	snap := graph.Build(trains, directions, graph.Policy{MinConnectMinutes: 1, MaxWaitMinutes: 30})

	paths, stats, err := enumerate.FindPaths(context.Background(), snap, enumerate.Request{
		StartStation: "X", EndStation: "Z", MaxTransfers: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected no paths, got %d", len(paths))
	}
	if stats.SkippedDirectionIncompatible != 1 {
		t.Errorf("expected 1 skipped-direction-incompatible, got %d", stats.SkippedDirectionIncompatible)
	}
}

// Scenario E — same-station consecutive transfer policy.
func TestFindPaths_SameStationConsecutiveTransfersExcluded(t *testing.T) {
	trains := map[string]domain.Train{
		"T1": tr("T1", false, nil, st("A", 480), st("Y", 500)),
		"T2": tr("T2", false, nil, st("Y", 505), st("Y2", 510)),
		"T3": tr("T3", false, nil, st("Y2", 515), st("Z", 540)),
		// An alternative T2' that transfers back at Y, producing two
		// consecutive transfers that both happen at station Y.
		"T2b": tr("T2b", false, nil, st("Y", 505), st("Y", 508)),
		"T3b": tr("T3b", false, nil, st("Y", 512), st("Z", 540)),
	}
	snap := graph.Build(trains, nil, graph.Policy{MinConnectMinutes: 1, MaxWaitMinutes: 30})

	paths, stats, err := enumerate.FindPaths(context.Background(), snap, enumerate.Request{
		StartStation: "A", EndStation: "Z", MaxTransfers: 2,
		AllowSameStationConsecutiveTransfers: false,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range paths {
		seen := map[string]int{}
		for _, d := range p.TransferDetails {
			seen[d.Station]++
			if seen[d.Station] > 1 {
				t.Errorf("path has two transfers at the same station: %+v", p)
			}
		}
	}
	_ = stats
}

func TestFindPaths_UnknownStartStationReturnsEmpty(t *testing.T) {
	trains := map[string]domain.Train{
		"T1": tr("T1", false, nil, st("X", 480), st("Y", 510)),
	}
	snap := graph.Build(trains, nil, graph.Policy{MinConnectMinutes: 1, MaxWaitMinutes: 30})

	paths, _, err := enumerate.FindPaths(context.Background(), snap, enumerate.Request{
		StartStation: "Nowhere", EndStation: "Y", MaxTransfers: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("expected no paths, got %d", len(paths))
	}
}

func TestFindPaths_CancelledContext(t *testing.T) {
	trains := map[string]domain.Train{
		"T1": tr("T1", false, nil, st("X", 480), st("Y", 510)),
	}
	snap := graph.Build(trains, nil, graph.Policy{MinConnectMinutes: 1, MaxWaitMinutes: 30})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := enumerate.FindPaths(ctx, snap, enumerate.Request{
		StartStation: "X", EndStation: "Y", MaxTransfers: 2,
	})
	if err == nil {
		t.Fatal("expected a timeout/cancellation error")
	}
	var appErr *domain.AppError
	if !asAppError(err, &appErr) || appErr.Kind != domain.ErrTimeout {
		t.Errorf("expected ErrTimeout kind, got %v", err)
	}
}

func asAppError(err error, target **domain.AppError) bool {
	ae, ok := err.(*domain.AppError)
	if ok {
		*target = ae
	}
	return ok
}
