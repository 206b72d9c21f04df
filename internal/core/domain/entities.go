// Package domain holds the data model shared across the itinerary engine:
// trains, the time-expanded graph, and the path summaries the enumerator
// and post-processor produce.
package domain

// Train is a single scheduled service, identified by an opaque id unique
// within a schedule document.
type Train struct {
	ID              string
	Fast            bool
	DirectionVector []int // per-line +1/0/-1; nil if the train carries none
	Stops           []Stop
}

// Stop is one scheduled visit of a train to a station.
type Stop struct {
	Station string
	Minute  int // minute-of-day; "00:00" is pre-normalized to 1440 by the loader
}

// EdgeKind distinguishes travel along a train from a transfer between
// trains at a shared station.
type EdgeKind string

const (
	EdgeTravel   EdgeKind = "travel"
	EdgeTransfer EdgeKind = "transfer"
)

// Node is a time-expanded graph vertex: a train's presence at a station at
// a specific minute-of-day. Its position in Snapshot.Nodes is its dense
// index; Station/Train/Minute is its logical identity.
type Node struct {
	Station string
	Train   string
	Minute  int
}

// AdjacencyEntry is one outbound edge from a node, referencing the target
// by its dense index.
type AdjacencyEntry struct {
	Target   int
	Kind     EdgeKind
	Duration int // minutes, always > 0
}

// TransferDetail records one boarding-to-boarding connection inside a path.
type TransferDetail struct {
	Station       string
	ArrivalTime   string
	DepartureTime string
	WaitMinutes   int
}

// PathType classifies a PathSummary by whether it boards more than one train.
type PathType string

const (
	PathDirect   PathType = "Direct"
	PathTransfer PathType = "Transfer"
)

// PathSummary is one enumerated, feasible itinerary.
type PathSummary struct {
	ID              int
	Type            PathType
	TrainSequence   []string
	TransferDetails []TransferDetail
	DepartureTime   string
	ArrivalTime     string
	TotalMinutes    int
	TotalTime       string
	IsFast          bool
	TransferCount   int
}

// TransferOption is one transfer step's observed realizations after
// merging itineraries that share a train sequence.
type TransferOption struct {
	Step    int
	Options []TransferDetail
}

// MergedPath is the post-processor's output: a PathSummary plus the
// collapsed alternative transfer realizations for each transfer step.
type MergedPath struct {
	PathSummary
	TransferOptions []TransferOption
}

// Stats accumulates enumerator-side counters for observability.
type Stats struct {
	PathsEnumerated              int
	NodesVisited                 int
	SkippedSameStationTransfers  int
	SkippedDirectionIncompatible int
}
