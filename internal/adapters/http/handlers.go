package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/oiangu/trenbide/internal/core/usecases"
)

// pathRequestBody is the POST /path request body, per spec §6.
type pathRequestBody struct {
	StartStation                          string `json:"start_station"`
	EndStation                            string `json:"end_station"`
	MaxTransfers                          *int   `json:"max_transfers"`
	WindowMinutes                         *int   `json:"window_minutes"`
	AllowSameStationConsecutiveTransfers *bool  `json:"allow_same_station_consecutive_transfers"`
}

// PathHandler finds itineraries between two stations.
func PathHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body pathRequestBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "malformed request body")
		}

		timeout := 30 * time.Second
		if deps.RequestTimeoutSeconds > 0 {
			timeout = time.Duration(deps.RequestTimeoutSeconds) * time.Second
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()

		resp, err := deps.Itinerary.FindPath(ctx, usecases.RawPathRequest{
			StartStation:                          body.StartStation,
			EndStation:                            body.EndStation,
			MaxTransfers:                          body.MaxTransfers,
			WindowMinutes:                         body.WindowMinutes,
			AllowSameStationConsecutiveTransfers: body.AllowSameStationConsecutiveTransfers,
		})
		if err != nil {
			return writeAppError(c, err)
		}

		return c.JSON(resp)
	}
}
