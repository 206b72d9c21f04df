package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/oiangu/trenbide/internal/core/domain"
)

// DataLoaded mirrors spec §6's GET /health data_loaded block: which pieces
// of the immutable snapshot are present.
type DataLoaded struct {
	Graph             bool `json:"graph"`
	Schedule          bool `json:"schedule"`
	TrainInfo         bool `json:"train_info"`
	DirectionalityMap bool `json:"directionality_map"`
	Adjacency         bool `json:"adjacency"`
	Nodes             bool `json:"nodes"`
	StationsList      bool `json:"stations_list"`
}

// HealthResponse is the GET /health payload.
type HealthResponse struct {
	Status     string     `json:"status"`
	DataLoaded DataLoaded `json:"data_loaded"`
	Timestamp  string     `json:"timestamp"`
}

// HealthHandler reports whether the currently-published snapshot is usable.
func HealthHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap := deps.Itinerary.Snapshot()

		loaded := snap != nil
		data := DataLoaded{
			Graph:             loaded && len(snap.Adjacency) > 0,
			Schedule:          loaded && len(snap.Trains) > 0,
			TrainInfo:         loaded && len(snap.Trains) > 0,
			DirectionalityMap: loaded && len(snap.DirectionMap) > 0,
			Adjacency:         loaded && hasAnyEdge(snap.Adjacency),
			Nodes:             loaded && len(snap.Nodes) > 0,
			StationsList:      loaded && len(snap.Stations) > 0,
		}

		status := "unhealthy"
		if data.Graph && data.Nodes && data.StationsList {
			status = "healthy"
		}

		return c.JSON(HealthResponse{
			Status:     status,
			DataLoaded: data,
			Timestamp:  time.Now().Format(time.RFC3339),
		})
	}
}

// hasAnyEdge reports whether any node has at least one outgoing edge
// (travel or transfer). The outer slice is always allocated to len(nodes)
// regardless of edge count, so a plain nil/len check on adjacency itself
// would report true even for a graph with zero edges.
func hasAnyEdge(adjacency [][]domain.AdjacencyEntry) bool {
	for _, edges := range adjacency {
		if len(edges) > 0 {
			return true
		}
	}
	return false
}

// StationsResponse is the GET /stations payload.
type StationsResponse struct {
	Stations  []string `json:"stations"`
	Count     int      `json:"count"`
	Timestamp string   `json:"timestamp"`
}

// StationsHandler lists every known station, per spec §6. The station
// directory is read-through cached by the itinerary service, keyed on
// snapshot version.
func StationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := deps.Itinerary.Stations(c.UserContext())
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(StationsResponse{
			Stations:  result.Stations,
			Count:     result.Count,
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}
}
