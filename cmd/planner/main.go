// Command planner is an offline CLI harness for the itinerary engine: it
// loads a schedule document, builds the graph, and prints the JSON
// response for a single path query — the same payload the HTTP facade
// returns, without a server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/oiangu/trenbide/internal/core/domain"
	"github.com/oiangu/trenbide/internal/core/graph"
	"github.com/oiangu/trenbide/internal/core/schedule"
	"github.com/oiangu/trenbide/internal/core/usecases"
)

// Exit codes per the documented CLI harness contract: 0 success, 1
// validation error, 2 data load error, 3 internal error.
const (
	exitOK         = 0
	exitValidation = 1
	exitLoadError  = 2
	exitInternal   = 3
)

// defaultWindowMinutesFlag mirrors config.QueryConfig's default; the CLI
// harness has no config file, so it hardcodes the same operational default.
const defaultWindowMinutesFlag = 120

func main() {
	os.Exit(run())
}

func run() int {
	var (
		scheduleFile      string
		start             string
		end               string
		maxTransfers      int
		windowMinutes     int
		allowSameStation  bool
		minConnectMinutes int
		maxWaitMinutes    int
	)

	cmd := &cobra.Command{
		Use:   "planner",
		Short: "Find itineraries between two stations from a schedule document",
	}
	cmd.Flags().StringVar(&scheduleFile, "schedule", "schedule.json", "path to the schedule document")
	cmd.Flags().StringVar(&start, "start", "", "start station (required)")
	cmd.Flags().StringVar(&end, "end", "", "end station (required)")
	cmd.Flags().IntVar(&maxTransfers, "max-transfers", usecases.DefaultMaxTransfers, "maximum transfers, 0-2")
	cmd.Flags().IntVar(&windowMinutes, "window-minutes", defaultWindowMinutesFlag, "window above the fastest path, minutes")
	cmd.Flags().BoolVar(&allowSameStation, "allow-same-station-transfers", false, "allow consecutive transfers at the same station")
	cmd.Flags().IntVar(&minConnectMinutes, "min-connect-minutes", 1, "minimum minutes required to transfer")
	cmd.Flags().IntVar(&maxWaitMinutes, "max-wait-minutes", 60, "maximum minutes to wait for a transfer")

	exitCode := exitOK
	cmd.RunE = func(_ *cobra.Command, _ []string) error {
		if start == "" || end == "" {
			exitCode = exitValidation
			return errors.New("--start and --end are required")
		}

		data, err := os.ReadFile(scheduleFile)
		if err != nil {
			exitCode = exitLoadError
			return fmt.Errorf("read schedule: %w", err)
		}

		doc, err := schedule.ParseDocument(data)
		if err != nil {
			exitCode = exitLoadError
			return fmt.Errorf("parse schedule: %w", err)
		}

		snap := graph.Build(doc.Trains, doc.DirectionMap, graph.Policy{
			MinConnectMinutes: minConnectMinutes,
			MaxWaitMinutes:    maxWaitMinutes,
		})

		snapshot := &atomic.Pointer[domain.Snapshot]{}
		snapshot.Store(snap)

		svc := usecases.NewItineraryService(snapshot, nil, 0, 0, defaultWindowMinutesFlag)

		mt := maxTransfers
		wm := windowMinutes
		resp, err := svc.FindPath(context.Background(), usecases.RawPathRequest{
			StartStation:                         start,
			EndStation:                           end,
			MaxTransfers:                         &mt,
			WindowMinutes:                        &wm,
			AllowSameStationConsecutiveTransfers: &allowSameStation,
		})
		if err != nil {
			var appErr *domain.AppError
			if errors.As(err, &appErr) {
				switch appErr.Kind {
				case domain.ErrBadRequest, domain.ErrUnknownStation:
					exitCode = exitValidation
				case domain.ErrDataNotLoaded, domain.ErrLoader:
					exitCode = exitLoadError
				default:
					exitCode = exitInternal
				}
			} else {
				exitCode = exitInternal
			}
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if exitCode == exitOK {
			exitCode = exitInternal
		}
		return exitCode
	}
	return exitOK
}
