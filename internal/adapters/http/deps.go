package http

import (
	"github.com/oiangu/trenbide/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Itinerary             *usecases.ItineraryService
	RequestTimeoutSeconds int
}
