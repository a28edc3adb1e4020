package greatcircle

import (
	"context"
	"math"
	"testing"

	"github.com/lintang-b-s/waypointx/pkg"
	"github.com/lintang-b-s/waypointx/pkg/geo"
	"github.com/lintang-b-s/waypointx/pkg/routing"
)

func TestRouteTwoWaypoints(t *testing.T) {
	s := New(WithAverageSpeedKmh(36)) // 10 m/s

	from := geo.NewCoordinate(0, 0)
	to := geo.NewCoordinate(0, 1)
	route, err := s.Route(context.Background(), routing.DirectionsRequest{
		Coordinates: []geo.Coordinate{from, to},
	})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if route == nil {
		t.Fatal("expected a route")
	}

	wantDistance := geo.HaversineDistance(from, to)
	if math.Abs(route.DistanceMeters-wantDistance) > wantDistance*0.001 {
		t.Errorf("DistanceMeters = %f, want ~%f", route.DistanceMeters, wantDistance)
	}
	wantDuration := route.DistanceMeters / 10.0
	if math.Abs(route.DurationSeconds-wantDuration) > 1e-6 {
		t.Errorf("DurationSeconds = %f, want %f", route.DurationSeconds, wantDuration)
	}

	// one leg plus the arrival step
	if len(route.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(route.Steps))
	}
	if route.Steps[0].ManeuverType != string(pkg.MANEUVER_DEPART) {
		t.Errorf("first maneuver = %s, want depart", route.Steps[0].ManeuverType)
	}
	if route.Steps[0].Instruction != "Head East" {
		t.Errorf("depart instruction = %q", route.Steps[0].Instruction)
	}
	if route.Steps[len(route.Steps)-1].ManeuverType != string(pkg.MANEUVER_ARRIVE) {
		t.Error("last step should be the arrival")
	}

	// geometry runs from origin to destination with sampled points between
	if len(route.Geometry) < 2 {
		t.Fatalf("geometry has %d points", len(route.Geometry))
	}
	first := route.Geometry[0]
	last := route.Geometry[len(route.Geometry)-1]
	if first.Lon() != 0 || first.Lat() != 0 {
		t.Errorf("geometry starts at (%f, %f)", first.Lon(), first.Lat())
	}
	if math.Abs(last.Lon()-1) > 1e-9 || math.Abs(last.Lat()) > 1e-9 {
		t.Errorf("geometry ends at (%f, %f)", last.Lon(), last.Lat())
	}
}

func TestRouteTooFewWaypoints(t *testing.T) {
	s := New()

	route, err := s.Route(context.Background(), routing.DirectionsRequest{
		Coordinates: []geo.Coordinate{geo.NewCoordinate(0, 0)},
	})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if route != nil {
		t.Error("expected no route for a single coordinate")
	}
}

func TestRouteCanceledContext(t *testing.T) {
	s := New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Route(ctx, routing.DirectionsRequest{
		Coordinates: []geo.Coordinate{geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 1)},
	})
	if err == nil {
		t.Error("expected a context error")
	}
}

func TestRouteInteriorManeuvers(t *testing.T) {
	s := New()

	// east, then north: a ~90 degree left turn at the interior waypoint
	route, err := s.Route(context.Background(), routing.DirectionsRequest{
		Coordinates: []geo.Coordinate{
			geo.NewCoordinate(0, 0),
			geo.NewCoordinate(0, 0.5),
			geo.NewCoordinate(0.5, 0.5),
		},
	})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(route.Steps) != 3 {
		t.Fatalf("steps = %d, want 3", len(route.Steps))
	}
	if route.Steps[1].ManeuverType != string(pkg.MANEUVER_TURN_LEFT) {
		t.Errorf("interior maneuver = %s, want turn-left", route.Steps[1].ManeuverType)
	}
}

func TestClassifyTurn(t *testing.T) {
	testCases := []struct {
		name       string
		inBearing  float64
		outBearing float64
		want       pkg.ManeuverType
	}{
		{name: "straight", inBearing: 90, outBearing: 90, want: pkg.MANEUVER_CONTINUE},
		{name: "drift inside the continue band", inBearing: 90, outBearing: 101, want: pkg.MANEUVER_CONTINUE},
		{name: "slight right", inBearing: 0, outBearing: 25, want: pkg.MANEUVER_TURN_SLIGHT_RIGHT},
		{name: "slight left", inBearing: 0, outBearing: 335, want: pkg.MANEUVER_TURN_SLIGHT_LEFT},
		{name: "right", inBearing: 0, outBearing: 90, want: pkg.MANEUVER_TURN_RIGHT},
		{name: "left", inBearing: 90, outBearing: 0, want: pkg.MANEUVER_TURN_LEFT},
		{name: "sharp right", inBearing: 0, outBearing: 130, want: pkg.MANEUVER_TURN_SHARP_RIGHT},
		{name: "sharp left", inBearing: 0, outBearing: 230, want: pkg.MANEUVER_TURN_SHARP_LEFT},
		{name: "u-turn", inBearing: 0, outBearing: 180, want: pkg.MANEUVER_UTURN},
		{name: "near u-turn", inBearing: 0, outBearing: 190, want: pkg.MANEUVER_UTURN},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyTurn(tt.inBearing, tt.outBearing)
			if got != tt.want {
				t.Errorf("classifyTurn(%f, %f) = %s, want %s",
					tt.inBearing, tt.outBearing, got, tt.want)
			}
		})
	}
}

func TestSampleLegSpacing(t *testing.T) {
	s := New(WithSampleEveryMeters(10000))

	from := geo.NewCoordinate(0, 0)
	to := geo.NewCoordinate(0, 1) // ~111 km
	leg := s.sampleLeg(from, to)

	if len(leg) < 5 {
		t.Fatalf("leg has %d points, expected intermediate samples", len(leg))
	}

	// intermediate samples stay on the segment and advance monotonically
	for i := 0; i < len(leg)-1; i++ {
		if leg[i+1].Lon() <= leg[i].Lon() {
			t.Fatalf("longitude not monotonic at %d: %f -> %f", i, leg[i].Lon(), leg[i+1].Lon())
		}
	}
}

func TestSampleLegCapped(t *testing.T) {
	s := New(WithSampleEveryMeters(1))

	leg := s.sampleLeg(geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 1))
	if len(leg) > pkg.GREAT_CIRCLE_MAX_SAMPLES_PER_LEG+2 {
		t.Errorf("leg has %d points, cap is %d samples plus endpoints",
			len(leg), pkg.GREAT_CIRCLE_MAX_SAMPLES_PER_LEG)
	}
}
