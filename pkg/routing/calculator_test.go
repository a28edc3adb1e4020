package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/lintang-b-s/waypointx/pkg/datastructure"
	"github.com/lintang-b-s/waypointx/pkg/geo"
	"go.uber.org/zap"
)

type sourceFunc func(ctx context.Context, req DirectionsRequest) (*DirectionsRoute, error)

func (f sourceFunc) Route(ctx context.Context, req DirectionsRequest) (*DirectionsRoute, error) {
	return f(ctx, req)
}

func waypointsAt(coords ...geo.Coordinate) []datastructure.Waypoint {
	wps := make([]datastructure.Waypoint, len(coords))
	for i, c := range coords {
		wps[i] = datastructure.NewWaypoint(c, i, "")
	}
	return wps
}

func straightRoute() *DirectionsRoute {
	geometry := []geo.Position{
		geo.NewPosition(110.37, -7.77),
		geo.NewPosition(110.40, -7.78),
	}
	return &DirectionsRoute{
		Geometry:        geometry,
		DistanceMeters:  3400,
		DurationSeconds: 300,
		Steps: []DirectionsStep{
			{Instruction: "Head east", ManeuverType: "depart", DistanceMeters: 3400,
				DurationSeconds: 300, Geometry: geometry},
			{Instruction: "Arrive at destination", ManeuverType: "arrive", Geometry: geometry[1:]},
		},
	}
}

func TestCalculateGatesOnWaypointCount(t *testing.T) {
	sourceCalls := 0
	source := sourceFunc(func(ctx context.Context, req DirectionsRequest) (*DirectionsRoute, error) {
		sourceCalls++
		return straightRoute(), nil
	})
	c := NewCalculator(zap.NewNop(), source, "driving")

	testCases := []struct {
		name string
		wps  []datastructure.Waypoint
	}{
		{name: "no waypoints", wps: nil},
		{name: "single waypoint", wps: waypointsAt(geo.NewCoordinate(-7.77, 110.37))},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.Calculate(context.Background(), tt.wps)
			if err != nil {
				t.Fatalf("Calculate: %v", err)
			}
			if result != nil {
				t.Error("expected no result below the waypoint minimum")
			}
		})
	}

	if sourceCalls != 0 {
		t.Errorf("source called %d times, want 0", sourceCalls)
	}
}

func TestCalculateBuildsRoute(t *testing.T) {
	var gotReq DirectionsRequest
	source := sourceFunc(func(ctx context.Context, req DirectionsRequest) (*DirectionsRoute, error) {
		gotReq = req
		return straightRoute(), nil
	})
	c := NewCalculator(zap.NewNop(), source, "cycling")

	wps := waypointsAt(geo.NewCoordinate(-7.77, 110.37), geo.NewCoordinate(-7.78, 110.40))
	result, err := c.Calculate(context.Background(), wps)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if result == nil {
		t.Fatal("expected a result")
	}

	if gotReq.Profile != "cycling" {
		t.Errorf("request profile = %s, want cycling", gotReq.Profile)
	}
	if len(gotReq.Coordinates) != 2 || gotReq.Coordinates[0].GetLat() != -7.77 {
		t.Errorf("request coordinates = %v", gotReq.Coordinates)
	}

	steps := result.Route.GetSteps()
	if len(steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(steps))
	}
	for i, s := range steps {
		if s.GetIndex() != i {
			t.Errorf("step %d has index %d", i, s.GetIndex())
		}
		if s.GetID() == "" {
			t.Errorf("step %d has no id", i)
		}
	}
	if steps[0].GetID() == steps[1].GetID() {
		t.Error("step ids should be unique")
	}

	wantBounds := [4]float64{110.37, -7.78, 110.40, -7.77}
	if result.Route.GetBounds() != wantBounds {
		t.Errorf("bounds = %v, want %v", result.Route.GetBounds(), wantBounds)
	}

	stats := result.Stats
	if stats.GetDistanceMeters() != 3400 || stats.GetDurationSeconds() != 300 {
		t.Errorf("stats totals = %f, %f", stats.GetDistanceMeters(), stats.GetDurationSeconds())
	}
	if stats.GetWaypointCount() != 2 || stats.GetStepCount() != 2 {
		t.Errorf("stats counts = %d, %d", stats.GetWaypointCount(), stats.GetStepCount())
	}
}

func TestCalculateNoRoute(t *testing.T) {
	source := sourceFunc(func(ctx context.Context, req DirectionsRequest) (*DirectionsRoute, error) {
		return nil, nil
	})
	c := NewCalculator(zap.NewNop(), source, "")

	wps := waypointsAt(geo.NewCoordinate(0, 0), geo.NewCoordinate(1, 1))
	result, err := c.Calculate(context.Background(), wps)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if result != nil {
		t.Error("a no-route response should yield no result")
	}
}

func TestCalculateSourceError(t *testing.T) {
	wantErr := errors.New("directions backend down")
	source := sourceFunc(func(ctx context.Context, req DirectionsRequest) (*DirectionsRoute, error) {
		return nil, wantErr
	})
	c := NewCalculator(zap.NewNop(), source, "")

	wps := waypointsAt(geo.NewCoordinate(0, 0), geo.NewCoordinate(1, 1))
	result, err := c.Calculate(context.Background(), wps)
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if result != nil {
		t.Error("expected no result alongside an error")
	}
}

func TestSetSource(t *testing.T) {
	first := sourceFunc(func(ctx context.Context, req DirectionsRequest) (*DirectionsRoute, error) {
		return nil, nil
	})
	c := NewCalculator(zap.NewNop(), first, "driving")

	secondCalls := 0
	second := sourceFunc(func(ctx context.Context, req DirectionsRequest) (*DirectionsRoute, error) {
		secondCalls++
		return straightRoute(), nil
	})
	c.SetSource(second)

	wps := waypointsAt(geo.NewCoordinate(0, 0), geo.NewCoordinate(1, 1))
	result, err := c.Calculate(context.Background(), wps)
	if err != nil || result == nil {
		t.Fatalf("Calculate after SetSource: result=%v err=%v", result, err)
	}
	if secondCalls != 1 {
		t.Errorf("swapped source called %d times, want 1", secondCalls)
	}
}

func TestDefaultProfile(t *testing.T) {
	c := NewCalculator(zap.NewNop(), sourceFunc(func(ctx context.Context,
		req DirectionsRequest) (*DirectionsRoute, error) {
		return nil, nil
	}), "")

	if c.Profile() != "driving" {
		t.Errorf("Profile = %s, want driving", c.Profile())
	}
}

func TestAvailableDefaultsTrue(t *testing.T) {
	c := NewCalculator(zap.NewNop(), sourceFunc(func(ctx context.Context,
		req DirectionsRequest) (*DirectionsRoute, error) {
		return nil, nil
	}), "driving")

	if !c.Available(context.Background()) {
		t.Error("a source without the capability should report available")
	}
	// Cancel on a source without the capability is a no-op
	c.Cancel()
}
