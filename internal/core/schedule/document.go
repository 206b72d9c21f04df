// Package schedule parses the persisted schedule document and the
// alternative pre-built fast-graph document (spec §6) into the engine's
// domain types. Parsing is a pure function of the input bytes: no I/O, no
// global state, fully unit-testable.
package schedule

import (
	"encoding/json"
	"sort"

	"github.com/oiangu/trenbide/internal/core/domain"
	"github.com/oiangu/trenbide/internal/pkg/timeutil"
)

// rawDocument mirrors the on-disk schedule document shape of spec §6.
type rawDocument struct {
	Train []rawTrain `json:"train"`
}

type rawTrain struct {
	ID            string  `json:"id"`
	IsFast        bool    `json:"is_fast"`
	Directionality []int  `json:"directionality"`
	Stops         []rawStop `json:"stops"`
}

type rawStop struct {
	Station string `json:"station"`
	Time    string `json:"time"`
}

// Document is the parsed, validated schedule: every train's stops with
// minute-of-day already resolved, plus the derived station directory and
// direction map.
type Document struct {
	Trains       map[string]domain.Train
	Stations     []string
	DirectionMap map[string][]int
}

// ParseDocument parses and validates a schedule document, per spec §4.b.
// Error modes: malformed JSON, missing required fields, stops whose
// minute-of-day does not strictly increase, duplicate train ids — each
// wrapped as an ErrLoader AppError. A wrap past midnight is not accepted:
// the only midnight value allowed is "00:00", which parses to 1440 and so
// can only be a train's last stop.
func ParseDocument(data []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, domain.WrapError(domain.ErrLoader, err, "malformed schedule document")
	}

	trains := make(map[string]domain.Train, len(raw.Train))
	directions := make(map[string][]int)
	stationSet := make(map[string]struct{})

	for _, rt := range raw.Train {
		if rt.ID == "" {
			return nil, domain.NewError(domain.ErrLoader, "train missing id")
		}
		if _, dup := trains[rt.ID]; dup {
			return nil, domain.NewError(domain.ErrLoader, "duplicate train id %q", rt.ID)
		}
		if len(rt.Stops) < 2 {
			return nil, domain.NewError(domain.ErrLoader, "train %q has fewer than 2 stops", rt.ID)
		}

		stops := make([]domain.Stop, 0, len(rt.Stops))
		prevMinute := -1
		for i, rs := range rt.Stops {
			if rs.Station == "" {
				return nil, domain.NewError(domain.ErrLoader, "train %q stop %d missing station", rt.ID, i)
			}
			minute, err := timeutil.Parse(rs.Time)
			if err != nil {
				return nil, domain.WrapError(domain.ErrLoader, err, "train %q stop %d has invalid time %q", rt.ID, i, rs.Time)
			}
			if i > 0 && minute <= prevMinute {
				return nil, domain.NewError(domain.ErrLoader, "train %q stops are not strictly monotonic at index %d", rt.ID, i)
			}
			prevMinute = minute

			stops = append(stops, domain.Stop{Station: rs.Station, Minute: minute})
			stationSet[rs.Station] = struct{}{}
		}

		trains[rt.ID] = domain.Train{
			ID:              rt.ID,
			Fast:            rt.IsFast,
			DirectionVector: rt.Directionality,
			Stops:           stops,
		}
		if len(rt.Directionality) > 0 {
			directions[rt.ID] = rt.Directionality
		}
	}

	stations := make([]string, 0, len(stationSet))
	for s := range stationSet {
		stations = append(stations, s)
	}
	sort.Strings(stations)

	return &Document{Trains: trains, Stations: stations, DirectionMap: directions}, nil
}
