package http_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"

	httpadapter "github.com/oiangu/trenbide/internal/adapters/http"
	"github.com/oiangu/trenbide/internal/core/domain"
	"github.com/oiangu/trenbide/internal/core/graph"
	"github.com/oiangu/trenbide/internal/core/usecases"
)

func testApp(t *testing.T) *fiber.App {
	t.Helper()
	trains := map[string]domain.Train{
		"T1": {ID: "T1", Fast: true, Stops: []domain.Stop{
			{Station: "X", Minute: 480}, {Station: "Y", Minute: 510}, {Station: "Z", Minute: 540},
		}},
	}
	snap := graph.Build(trains, nil, graph.Policy{MinConnectMinutes: 1, MaxWaitMinutes: 60})

	ptr := &atomic.Pointer[domain.Snapshot]{}
	ptr.Store(snap)
	svc := usecases.NewItineraryService(ptr, nil, 30, 0, 0)

	app := fiber.New()
	httpadapter.SetupRoutes(app, &httpadapter.Dependencies{Itinerary: svc})
	return app
}

func TestHealthHandler(t *testing.T) {
	app := testApp(t)
	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body httpadapter.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("expected healthy, got %s", body.Status)
	}
}

func TestStationsHandler(t *testing.T) {
	app := testApp(t)
	req := httptest.NewRequest("GET", "/stations", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var body httpadapter.StationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 3 {
		t.Errorf("expected 3 stations, got %d: %v", body.Count, body.Stations)
	}
}

func TestPathHandler_ValidRequest(t *testing.T) {
	app := testApp(t)
	payload, _ := json.Marshal(map[string]any{
		"start_station": "X", "end_station": "Z",
	})
	req := httptest.NewRequest("POST", "/path", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body usecases.Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(body.Paths))
	}
}

func TestPathHandler_UnknownStationReturns404(t *testing.T) {
	app := testApp(t)
	payload, _ := json.Marshal(map[string]any{
		"start_station": "X", "end_station": "Nowhere",
	})
	req := httptest.NewRequest("POST", "/path", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestPathHandler_MissingFieldsReturns400(t *testing.T) {
	app := testApp(t)
	payload, _ := json.Marshal(map[string]any{"start_station": "X"})
	req := httptest.NewRequest("POST", "/path", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
