package routing

import (
	"context"
	"fmt"
	"sync"

	"github.com/lintang-b-s/waypointx/pkg"
	"github.com/lintang-b-s/waypointx/pkg/datastructure"
	"github.com/lintang-b-s/waypointx/pkg/geo"

	"go.uber.org/zap"
)

type Result struct {
	Route *datastructure.Route
	Stats *datastructure.RouteStats
}

// Calculator adapts an injected directions source into a normalized
// calculation result. the source can be swapped at runtime without
// reconstructing the calculator.
type Calculator struct {
	mu      sync.RWMutex
	source  DirectionsSource
	profile string
	log     *zap.Logger
}

func NewCalculator(log *zap.Logger, source DirectionsSource, profile string) *Calculator {
	if profile == "" {
		profile = pkg.DEFAULT_TRAVEL_PROFILE
	}
	return &Calculator{
		source:  source,
		profile: profile,
		log:     log,
	}
}

func (c *Calculator) SetSource(source DirectionsSource) {
	c.mu.Lock()
	c.source = source
	c.mu.Unlock()
}

func (c *Calculator) Source() DirectionsSource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.source
}

// Calculate translates waypoints into a directions request and normalizes the
// source's response: fresh identity and sequential index per step, bounding box
// over the response geometry, stats from the response totals. (nil, nil) for
// fewer than 2 waypoints (source untouched) and when the source finds no route.
func (c *Calculator) Calculate(ctx context.Context, wps []datastructure.Waypoint) (*Result, error) {
	if len(wps) < pkg.MIN_WAYPOINTS_FOR_ROUTE {
		return nil, nil
	}

	coords := make([]geo.Coordinate, len(wps))
	for i, w := range wps {
		coords[i] = w.Coordinate()
	}

	source := c.Source()

	resp, err := source.Route(ctx, DirectionsRequest{
		Coordinates: coords,
		Profile:     c.profile,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		c.log.Debug("directions source returned no route",
			zap.Int("waypoints", len(wps)))
		return nil, nil
	}

	steps := make([]datastructure.NavigationStep, len(resp.Steps))
	for i, s := range resp.Steps {
		steps[i] = datastructure.NewNavigationStep(i, s.Instruction,
			pkg.ManeuverType(s.ManeuverType), s.DistanceMeters, s.DurationSeconds, s.Geometry)
	}

	route := datastructure.NewRoute(resp.Geometry, datastructure.CopyWaypoints(wps), steps)
	stats := datastructure.NewRouteStats(resp.DistanceMeters, resp.DurationSeconds,
		len(wps), len(steps))

	return &Result{Route: route, Stats: stats}, nil
}

// Cancel forwards cancellation to the source if it supports it, otherwise no-op.
func (c *Calculator) Cancel() {
	if canceler, ok := c.Source().(Canceler); ok {
		canceler.Cancel()
	}
}

// Available forwards the availability check if the source supports it,
// otherwise reports true.
func (c *Calculator) Available(ctx context.Context) bool {
	if checker, ok := c.Source().(AvailabilityChecker); ok {
		return checker.Available(ctx)
	}
	return true
}

func (c *Calculator) Profile() string {
	return c.profile
}

func (c *Calculator) String() string {
	return fmt.Sprintf("routing.Calculator(profile=%s)", c.profile)
}
