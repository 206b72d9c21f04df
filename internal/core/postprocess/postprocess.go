// Package postprocess turns a raw list of enumerated PathSummary values into
// the response-ready MergedPath list: window filtering, stable sort,
// train-sequence merge, and final id assignment.
package postprocess

import (
	"sort"
	"strings"

	"github.com/oiangu/trenbide/internal/core/domain"
)

// Result bundles the merged output with the counters the response summary
// needs (§6's summary block).
type Result struct {
	Paths         []domain.MergedPath
	FastestMinutes int
	FilteredPaths  int
	MergedPaths    int
}

// Run executes the four post-processing stages in order: window filter,
// stable sort, merge-by-train-sequence, then id assignment.
func Run(paths []domain.PathSummary, windowMinutes int) Result {
	if windowMinutes < 0 {
		windowMinutes = 0
	}

	if len(paths) == 0 {
		return Result{Paths: []domain.MergedPath{}}
	}

	fastest := paths[0].TotalMinutes
	for _, p := range paths {
		if p.TotalMinutes < fastest {
			fastest = p.TotalMinutes
		}
	}

	filtered := make([]domain.PathSummary, 0, len(paths))
	for _, p := range paths {
		if p.TotalMinutes <= fastest+windowMinutes {
			filtered = append(filtered, p)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].TotalMinutes != filtered[j].TotalMinutes {
			return filtered[i].TotalMinutes < filtered[j].TotalMinutes
		}
		return filtered[i].DepartureTime < filtered[j].DepartureTime
	})

	merged := merge(filtered)

	for i := range merged {
		merged[i].ID = i + 1
	}

	return Result{
		Paths:          merged,
		FastestMinutes: fastest,
		FilteredPaths:  len(filtered),
		MergedPaths:    len(merged),
	}
}

// mergeKey is the tuple spec §4.f designates as the merge identity.
type mergeKey struct {
	trainSequence string
	pathType      domain.PathType
	transferCount int
	departure     string
	arrival       string
	totalMinutes  int
}

func keyOf(p domain.PathSummary) mergeKey {
	return mergeKey{
		trainSequence: strings.Join(p.TrainSequence, "|"),
		pathType:      p.Type,
		transferCount: p.TransferCount,
		departure:     p.DepartureTime,
		arrival:       p.ArrivalTime,
		totalMinutes:  p.TotalMinutes,
	}
}

// merge groups filtered, sorted paths by mergeKey, collapsing each group's
// transfer detail into per-step alternative options while preserving the
// representative's (first-seen) timing exactly.
func merge(paths []domain.PathSummary) []domain.MergedPath {
	order := make([]mergeKey, 0)
	groups := make(map[mergeKey][]domain.PathSummary)

	for _, p := range paths {
		k := keyOf(p)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], p)
	}

	out := make([]domain.MergedPath, 0, len(order))
	for _, k := range order {
		group := groups[k]
		representative := group[0]

		options := make([]TransferOptionBuilder, representative.TransferCount)
		for step := range options {
			options[step] = TransferOptionBuilder{step: step + 1}
		}
		for _, p := range group {
			for step, detail := range p.TransferDetails {
				if step >= len(options) {
					break
				}
				options[step].add(detail)
			}
		}

		transferOptions := make([]domain.TransferOption, len(options))
		representativeDetails := make([]domain.TransferDetail, len(options))
		for i, b := range options {
			transferOptions[i] = domain.TransferOption{Step: b.step, Options: b.options}
			if len(b.options) > 0 {
				representativeDetails[i] = b.options[0]
			}
		}
		if len(representativeDetails) == 0 {
			representativeDetails = []domain.TransferDetail{}
		}
		if len(transferOptions) == 0 {
			transferOptions = []domain.TransferOption{}
		}

		representative.TransferDetails = representativeDetails

		out = append(out, domain.MergedPath{
			PathSummary:     representative,
			TransferOptions: transferOptions,
		})
	}

	return out
}

// TransferOptionBuilder accumulates de-duplicated TransferDetail values for
// one transfer step across a merge group, preserving first-seen order.
type TransferOptionBuilder struct {
	step    int
	options []domain.TransferDetail
	seen    map[domain.TransferDetail]bool
}

func (b *TransferOptionBuilder) add(d domain.TransferDetail) {
	if b.seen == nil {
		b.seen = make(map[domain.TransferDetail]bool)
	}
	if b.seen[d] {
		return
	}
	b.seen[d] = true
	b.options = append(b.options, d)
}
