// Package enumerate implements the bounded-depth DFS path enumerator of
// spec §4.e: from every node at the start station, walk the adjacency
// index subject to a transfer-count cap, a repeat-station-transfer policy,
// and direction-vector compatibility, emitting one PathSummary per
// completed itinerary.
package enumerate

import (
	"context"
	"sort"

	"github.com/oiangu/trenbide/internal/core/domain"
	"github.com/oiangu/trenbide/internal/pkg/timeutil"
)

// HardCap is the maximum transfer count the enumerator will ever honor,
// regardless of what a caller requests.
const HardCap = 2

// Request parameterizes one enumeration.
type Request struct {
	StartStation                           string
	EndStation                             string
	MaxTransfers                           int
	AllowSameStationConsecutiveTransfers bool
}

// trace is the per-DFS-branch state. Every field here is per-request —
// nothing escapes a single call to FindPaths.
type trace struct {
	current             int
	elapsed             int
	startMinute         int
	transfers           int
	visited             map[int]bool
	edges               []edgeStep
	trains              []string
	lastTransferStation string
	hasTransferStation  bool
}

type edgeStep struct {
	fromStation string
	kind        domain.EdgeKind
	duration    int
}

// FindPaths runs the bounded DFS described in spec §4.e. It is cancellable
// between DFS step iterations: ctx.Err() is checked at the top of every
// step, so a timeout aborts promptly without leaving partial results.
func FindPaths(ctx context.Context, snap *domain.Snapshot, req Request) ([]domain.PathSummary, domain.Stats, error) {
	var stats domain.Stats

	if req.MaxTransfers > HardCap {
		req.MaxTransfers = HardCap
	}

	starts := snap.NodesAtStation(req.StartStation)
	if len(starts) == 0 {
		return nil, stats, nil
	}

	var paths []domain.PathSummary

	for _, s := range starts {
		if err := ctx.Err(); err != nil {
			return nil, stats, domain.WrapError(domain.ErrTimeout, err, "enumeration cancelled")
		}

		t := &trace{
			current:     s,
			elapsed:     snap.Nodes[s].Minute,
			startMinute: snap.Nodes[s].Minute,
			transfers:   0,
			visited:     map[int]bool{s: true},
			trains:      []string{snap.Nodes[s].Train},
		}

		if err := step(ctx, snap, req, t, &paths, &stats); err != nil {
			return nil, stats, err
		}
	}

	sort.SliceStable(paths, func(i, j int) bool {
		if paths[i].TotalMinutes != paths[j].TotalMinutes {
			return paths[i].TotalMinutes < paths[j].TotalMinutes
		}
		return paths[i].DepartureTime < paths[j].DepartureTime
	})

	return paths, stats, nil
}

func step(ctx context.Context, snap *domain.Snapshot, req Request, t *trace, paths *[]domain.PathSummary, stats *domain.Stats) error {
	if err := ctx.Err(); err != nil {
		return domain.WrapError(domain.ErrTimeout, err, "enumeration cancelled")
	}
	stats.NodesVisited++

	node := snap.Nodes[t.current]

	if node.Station == req.EndStation && len(t.edges) > 0 {
		summary, err := buildSummary(snap, t)
		if err != nil {
			return err
		}
		if summary.TransferCount > 0 && !directionsCompatible(snap, t.trains) {
			stats.SkippedDirectionIncompatible++
			return nil
		}
		stats.PathsEnumerated++
		*paths = append(*paths, *summary)
		return nil
	}

	for _, adj := range snap.Adjacency[t.current] {
		if t.visited[adj.Target] {
			continue
		}
		if adj.Duration <= 0 {
			continue
		}

		targetNode := snap.Nodes[adj.Target]
		isTransfer := adj.Kind == domain.EdgeTransfer || targetNode.Train != node.Train

		if isTransfer && !req.AllowSameStationConsecutiveTransfers &&
			t.hasTransferStation && node.Station == t.lastTransferStation {
			stats.SkippedSameStationTransfers++
			continue
		}

		newTransfers := t.transfers
		if isTransfer {
			newTransfers++
		}
		if newTransfers > req.MaxTransfers {
			continue
		}

		newTrains := t.trains
		if targetNode.Train != t.trains[len(t.trains)-1] {
			newTrains = append(append([]string{}, t.trains...), targetNode.Train)
		}

		t.visited[adj.Target] = true
		t.edges = append(t.edges, edgeStep{fromStation: node.Station, kind: adj.Kind, duration: adj.Duration})
		prevLastStation, prevHasTransfer := t.lastTransferStation, t.hasTransferStation
		prevTransfers := t.transfers
		prevTrains := t.trains
		prevCurrent, prevElapsed := t.current, t.elapsed

		t.current = adj.Target
		t.elapsed += adj.Duration
		t.transfers = newTransfers
		t.trains = newTrains
		if isTransfer {
			t.lastTransferStation = node.Station
			t.hasTransferStation = true
		}

		if err := step(ctx, snap, req, t, paths, stats); err != nil {
			return err
		}

		// backtrack
		t.current, t.elapsed = prevCurrent, prevElapsed
		t.transfers = prevTransfers
		t.trains = prevTrains
		t.lastTransferStation, t.hasTransferStation = prevLastStation, prevHasTransfer
		t.edges = t.edges[:len(t.edges)-1]
		delete(t.visited, adj.Target)
	}

	return nil
}

func buildSummary(snap *domain.Snapshot, t *trace) (*domain.PathSummary, error) {
	timeline := t.startMinute
	var details []domain.TransferDetail

	for _, e := range t.edges {
		before := timeline
		timeline += e.duration
		if e.kind == domain.EdgeTransfer {
			details = append(details, domain.TransferDetail{
				Station:       e.fromStation,
				ArrivalTime:   timeutil.Format(before),
				DepartureTime: timeutil.Format(before + e.duration),
				WaitMinutes:   e.duration,
			})
		}
	}

	totalMinutes := timeutil.Duration(t.startMinute, timeline)
	summed := 0
	for _, e := range t.edges {
		summed += e.duration
	}
	if summed != totalMinutes {
		return nil, domain.NewError(domain.ErrInternal, "path duration invariant violated: accumulated %d, timeline delta %d", summed, totalMinutes)
	}

	isFast := false
	for _, trainID := range t.trains {
		if tr, ok := snap.Trains[trainID]; ok && tr.Fast {
			isFast = true
			break
		}
	}

	pathType := domain.PathDirect
	if len(t.trains) > 1 {
		pathType = domain.PathTransfer
	}

	if details == nil {
		details = []domain.TransferDetail{}
	}

	return &domain.PathSummary{
		Type:            pathType,
		TrainSequence:   append([]string{}, t.trains...),
		TransferDetails: details,
		DepartureTime:   timeutil.Format(t.startMinute),
		ArrivalTime:     timeutil.Format(timeline),
		TotalMinutes:    totalMinutes,
		TotalTime:       timeutil.FormatDuration(totalMinutes),
		IsFast:          isFast,
		TransferCount:   len(details),
	}, nil
}

// directionsCompatible implements spec §4.e's Direction Compatibility check:
// for every adjacent pair of trains in the sequence, if both carry a
// direction vector, no line index may have opposing non-zero signs.
func directionsCompatible(snap *domain.Snapshot, trainSequence []string) bool {
	for k := 0; k+1 < len(trainSequence); k++ {
		a, aok := snap.DirectionMap[trainSequence[k]]
		b, bok := snap.DirectionMap[trainSequence[k+1]]
		if !aok || !bok {
			continue
		}
		n := len(a)
		if len(b) < n {
			n = len(b)
		}
		for l := 0; l < n; l++ {
			if a[l] != 0 && b[l] != 0 && a[l] == -b[l] {
				return false
			}
		}
	}
	return true
}
