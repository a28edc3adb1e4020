package osrm

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lintang-b-s/waypointx/pkg"
	"github.com/lintang-b-s/waypointx/pkg/geo"
	"github.com/lintang-b-s/waypointx/pkg/routing"
	"go.uber.org/zap"
)

func fixtureResponse() routeResponse {
	geometry := geo.EncodePolyline([]geo.Position{
		geo.NewPosition(110.37749, -7.77138),
		geo.NewPosition(110.37810, -7.77201),
		geo.NewPosition(110.37925, -7.77355),
	})
	stepGeometry := geo.EncodePolyline([]geo.Position{
		geo.NewPosition(110.37749, -7.77138),
		geo.NewPosition(110.37810, -7.77201),
	})

	return routeResponse{
		Code: "Ok",
		Routes: []osrmRoute{
			{
				Distance: 284.5,
				Duration: 41.2,
				Geometry: geometry,
				Legs: []osrmLeg{
					{
						Steps: []osrmStep{
							{
								Distance: 180.1,
								Duration: 25.9,
								Geometry: stepGeometry,
								Name:     "Jalan Kaliurang",
								Maneuver: osrmManeuver{Type: "depart"},
							},
							{
								Distance: 104.4,
								Duration: 15.3,
								Geometry: stepGeometry,
								Name:     "Jalan Colombo",
								Maneuver: osrmManeuver{Type: "turn", Modifier: "left"},
							},
							{
								Geometry: stepGeometry,
								Maneuver: osrmManeuver{Type: "arrive"},
							},
						},
					},
				},
			},
		},
	}
}

func twoCoordinates() []geo.Coordinate {
	return []geo.Coordinate{
		geo.NewCoordinate(-7.77138, 110.37749),
		geo.NewCoordinate(-7.77355, 110.37925),
	}
}

func TestRouteParsesResponse(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(fixtureResponse())
	}))
	defer srv.Close()

	c := NewClient(zap.NewNop(), srv.URL)
	route, err := c.Route(context.Background(), routing.DirectionsRequest{
		Coordinates: twoCoordinates(),
		Profile:     "cycling",
	})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if route == nil {
		t.Fatal("expected a route")
	}

	if gotPath != "/route/v1/cycling/110.377490,-7.771380;110.379250,-7.773550" {
		t.Errorf("request path = %s", gotPath)
	}

	if route.DistanceMeters != 284.5 || route.DurationSeconds != 41.2 {
		t.Errorf("totals = %f, %f", route.DistanceMeters, route.DurationSeconds)
	}
	if len(route.Geometry) != 3 {
		t.Fatalf("geometry points = %d, want 3", len(route.Geometry))
	}
	if math.Abs(route.Geometry[0].Lat()-(-7.77138)) > 1e-5 {
		t.Errorf("first geometry point lat = %f", route.Geometry[0].Lat())
	}

	if len(route.Steps) != 3 {
		t.Fatalf("steps = %d, want 3", len(route.Steps))
	}
	if route.Steps[0].ManeuverType != string(pkg.MANEUVER_DEPART) {
		t.Errorf("step 0 maneuver = %s", route.Steps[0].ManeuverType)
	}
	if route.Steps[0].Instruction != "Head toward Jalan Kaliurang" {
		t.Errorf("step 0 instruction = %q", route.Steps[0].Instruction)
	}
	if route.Steps[1].ManeuverType != string(pkg.MANEUVER_TURN_LEFT) {
		t.Errorf("step 1 maneuver = %s", route.Steps[1].ManeuverType)
	}
	if route.Steps[1].Instruction != "Turn left onto Jalan Colombo" {
		t.Errorf("step 1 instruction = %q", route.Steps[1].Instruction)
	}
	if route.Steps[2].ManeuverType != string(pkg.MANEUVER_ARRIVE) {
		t.Errorf("step 2 maneuver = %s", route.Steps[2].ManeuverType)
	}
}

func TestRouteNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(routeResponse{Code: "NoRoute", Message: "Impossible route"})
	}))
	defer srv.Close()

	c := NewClient(zap.NewNop(), srv.URL)
	route, err := c.Route(context.Background(), routing.DirectionsRequest{
		Coordinates: twoCoordinates(),
	})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if route != nil {
		t.Error("NoRoute should map to a nil route without an error")
	}
}

func TestRouteInvalidQueryCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(routeResponse{Code: "InvalidQuery", Message: "Query string malformed"})
	}))
	defer srv.Close()

	c := NewClient(zap.NewNop(), srv.URL)
	_, err := c.Route(context.Background(), routing.DirectionsRequest{
		Coordinates: twoCoordinates(),
	})
	if err == nil {
		t.Error("expected an error for a non-Ok code")
	}
}

func TestRouteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(zap.NewNop(), srv.URL)
	_, err := c.Route(context.Background(), routing.DirectionsRequest{
		Coordinates: twoCoordinates(),
	})
	if err == nil {
		t.Error("expected an error for a 5xx response")
	}
}

func TestRouteTooFewCoordinates(t *testing.T) {
	serverHit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverHit = true
	}))
	defer srv.Close()

	c := NewClient(zap.NewNop(), srv.URL)
	route, err := c.Route(context.Background(), routing.DirectionsRequest{
		Coordinates: twoCoordinates()[:1],
	})
	if err != nil || route != nil {
		t.Errorf("route=%v err=%v, want nil, nil", route, err)
	}
	if serverHit {
		t.Error("the endpoint should not be contacted below the coordinate minimum")
	}
}

func TestTranslateManeuver(t *testing.T) {
	testCases := []struct {
		name     string
		maneuver osrmManeuver
		want     string
	}{
		{name: "depart", maneuver: osrmManeuver{Type: "depart"}, want: "depart"},
		{name: "arrive", maneuver: osrmManeuver{Type: "arrive"}, want: "arrive"},
		{name: "turn left", maneuver: osrmManeuver{Type: "turn", Modifier: "left"}, want: "turn-left"},
		{name: "turn sharp right", maneuver: osrmManeuver{Type: "turn", Modifier: "sharp right"}, want: "turn-sharp-right"},
		{name: "turn straight", maneuver: osrmManeuver{Type: "turn", Modifier: "straight"}, want: "continue"},
		{name: "turn with odd modifier", maneuver: osrmManeuver{Type: "turn", Modifier: "sideways"}, want: "unknown"},
		{name: "continue uturn", maneuver: osrmManeuver{Type: "continue", Modifier: "uturn"}, want: "uturn"},
		{name: "new name", maneuver: osrmManeuver{Type: "new name"}, want: "continue"},
		{name: "merge", maneuver: osrmManeuver{Type: "merge", Modifier: "slight left"}, want: "merge"},
		{name: "fork left", maneuver: osrmManeuver{Type: "fork", Modifier: "slight left"}, want: "fork-left"},
		{name: "fork right", maneuver: osrmManeuver{Type: "fork", Modifier: "right"}, want: "fork-right"},
		{name: "rotary", maneuver: osrmManeuver{Type: "rotary"}, want: "roundabout"},
		{name: "exit roundabout", maneuver: osrmManeuver{Type: "exit roundabout"}, want: "exit-roundabout"},
		{name: "notification", maneuver: osrmManeuver{Type: "notification"}, want: "notification"},
		{name: "opaque passthrough", maneuver: osrmManeuver{Type: "on ramp", Modifier: "right"}, want: "on ramp"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := translateManeuver(tt.maneuver)
			if got != tt.want {
				t.Errorf("translateManeuver(%+v) = %s, want %s", tt.maneuver, got, tt.want)
			}
		})
	}
}

func TestStepInstructionRoundabout(t *testing.T) {
	step := osrmStep{Maneuver: osrmManeuver{Type: "roundabout", Exit: 2}}
	got := stepInstruction(step, translateManeuver(step.Maneuver))
	if got != "At the roundabout, take exit 2" {
		t.Errorf("instruction = %q", got)
	}
}

func TestAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(zap.NewNop(), srv.URL)
	if !c.Available(context.Background()) {
		t.Error("reachable endpoint should report available")
	}

	down := NewClient(zap.NewNop(), "http://127.0.0.1:1")
	if down.Available(context.Background()) {
		t.Error("unreachable endpoint should report unavailable")
	}
}
