package optimizer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"route-visualizer/internal/domain"
)

const okBody = `{
  "routes": [
    {"vehicle_id": 0, "stops": [0, 1, 2, 0], "distance": 12.5, "time": 0.8, "load": 150, "load_utilization": 50},
    {"vehicle_id": 1, "stops": [0, 3, 0], "distance": 7.0, "time": 0.4, "load": 90, "load_utilization": 30}
  ],
  "costs": {"total": 100, "fuel": 40, "labor": 30, "maintenance": 20, "carbon": 10},
  "summary": {"total_distance": 19.5, "total_time": 1.2, "vehicles_used": 2}
}`

func testRequest() *domain.OptimizationRequest {
	return &domain.OptimizationRequest{
		Depot: domain.GeoPoint{Name: "Main Depot", Lat: -1.2921, Lng: 36.8219},
		Deliveries: []domain.GeoPoint{
			{ID: 0, Name: "A", Lat: -1.28, Lng: 36.82, Demand: 100},
			{ID: 1, Name: "B", Lat: -1.29, Lng: 36.80, Demand: 50},
			{ID: 2, Name: "C", Lat: -1.30, Lng: 36.83, Demand: 90},
		},
		Vehicles: []domain.Vehicle{{Capacity: 300, CostPerKm: 0.5}, {Capacity: 300, CostPerKm: 0.5}},
		Strategy: domain.StrategyCostOptimized,
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/", 0)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func asOptimizationError(t *testing.T, err error) *domain.OptimizationError {
	t.Helper()
	var oe *domain.OptimizationError
	if !errors.As(err, &oe) {
		t.Fatalf("expected *domain.OptimizationError, got %T: %v", err, err)
	}
	return oe
}

func TestClient_SubmitSuccess(t *testing.T) {
	var got domain.OptimizationRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/optimize" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, okBody)
	})

	res, err := c.Submit(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if len(got.Deliveries) != 3 || len(got.Vehicles) != 2 || got.Strategy != domain.StrategyCostOptimized {
		t.Fatalf("service received unexpected request: %+v", got)
	}
	if got.Depot.Name != "Main Depot" {
		t.Fatalf("expected depot to be sent, got %+v", got.Depot)
	}

	if len(res.Routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(res.Routes))
	}
	if res.Routes[0].StopCount() != 2 || res.Routes[1].LoadUtilization != 30 {
		t.Fatalf("unexpected routes: %+v", res.Routes)
	}
	if res.Costs.Total != 100 || res.Summary.VehiclesUsed != 2 {
		t.Fatalf("unexpected costs/summary: %+v %+v", res.Costs, res.Summary)
	}
}

func TestClient_RequestWireFormat(t *testing.T) {
	var raw map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		io.WriteString(w, okBody)
	})

	if _, err := c.Submit(context.Background(), testRequest()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	for _, k := range []string{"depot", "deliveries", "vehicles", "strategy"} {
		if _, ok := raw[k]; !ok {
			t.Fatalf("request body missing %q: %v", k, raw)
		}
	}
	v := raw["vehicles"].([]any)[0].(map[string]any)
	if _, ok := v["cost_per_km"]; !ok {
		t.Fatalf("vehicle missing cost_per_km: %v", v)
	}
	d := raw["deliveries"].([]any)[0].(map[string]any)
	for _, k := range []string{"id", "name", "lat", "lng", "demand"} {
		if _, ok := d[k]; !ok {
			t.Fatalf("delivery missing %q: %v", k, d)
		}
	}
}

func TestClient_ServiceErrorMessageIsSurfaced(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error": "No feasible solution for 2 vehicles"}`)
	})

	_, err := c.Submit(context.Background(), testRequest())
	oe := asOptimizationError(t, err)
	if oe.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", oe.StatusCode)
	}
	if oe.Message != "No feasible solution for 2 vehicles" {
		t.Fatalf("expected service message, got %q", oe.Message)
	}
}

func TestClient_ServerErrorWithoutBody(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Submit(context.Background(), testRequest())
	oe := asOptimizationError(t, err)
	if oe.StatusCode != http.StatusServiceUnavailable || oe.Message != "Service Unavailable" {
		t.Fatalf("unexpected error: %+v", oe)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one attempt, got %d", calls)
	}
}

func TestClient_MalformedResponses(t *testing.T) {
	cases := map[string]string{
		"not json":        `<html>oops</html>`,
		"missing routes":  `{"costs": {"total": 1}, "summary": {"vehicles_used": 1}}`,
		"missing costs":   `{"routes": [], "summary": {"vehicles_used": 0}}`,
		"missing summary": `{"routes": [], "costs": {"total": 0}}`,
		"null routes":     `{"routes": null, "costs": {"total": 0}, "summary": {}}`,
		"route no stops":  `{"routes": [{"distance": 1}], "costs": {"total": 0}, "summary": {}}`,
		"trailing data":   okBody + `{"extra": true}`,
		"truncated":       okBody[:40],
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, body)
			})

			res, err := c.Submit(context.Background(), testRequest())
			if res != nil {
				t.Fatalf("expected no result, got %+v", res)
			}
			oe := asOptimizationError(t, err)
			if oe.Op != "decode" {
				t.Fatalf("expected decode op, got %q (%v)", oe.Op, err)
			}
		})
	}
}

func TestClient_EmptyRoutesIsValid(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"routes": [], "costs": {"total": 0}, "summary": {"vehicles_used": 0}}`+"\n")
	})

	res, err := c.Submit(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(res.Routes) != 0 {
		t.Fatalf("expected no routes, got %d", len(res.Routes))
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = c.Submit(context.Background(), testRequest())
	oe := asOptimizationError(t, err)
	if oe.StatusCode != 0 || !strings.Contains(oe.Message, "unreachable") {
		t.Fatalf("unexpected error: %+v", oe)
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Submit(ctx, testRequest())
	asOptimizationError(t, err)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded in chain, got %v", err)
	}
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient("", 0); err == nil {
		t.Fatalf("expected error for empty url")
	}
	if _, err := NewClient("localhost:5000", 0); err == nil {
		t.Fatalf("expected error for url without scheme")
	}
	if _, err := NewClient("http://localhost:5000", -time.Second); err == nil {
		t.Fatalf("expected error for negative timeout")
	}
}

func TestMockOptimizer(t *testing.T) {
	canned := &domain.OptimizationResult{
		Routes: []domain.Route{{Stops: []int{0, 1, 0}}},
		Costs:  domain.Costs{Total: 5},
	}
	m := NewMockOptimizer(canned)

	res, err := m.Submit(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	res.Routes[0].Stops[1] = 99
	if canned.Routes[0].Stops[1] != 1 {
		t.Fatalf("mock returned shared stops slice")
	}
	if n := len(m.Requests()); n != 1 {
		t.Fatalf("expected 1 recorded request, got %d", n)
	}

	boom := &domain.OptimizationError{Op: "submit", Message: "boom"}
	if _, err := NewFailingOptimizer(boom).Submit(context.Background(), testRequest()); !errors.Is(err, boom) {
		t.Fatalf("expected canned error, got %v", err)
	}
}
