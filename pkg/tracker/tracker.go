package tracker

import (
	"github.com/lintang-b-s/waypointx/pkg"
	"github.com/lintang-b-s/waypointx/pkg/datastructure"
	"github.com/lintang-b-s/waypointx/pkg/geo"
	"github.com/lintang-b-s/waypointx/pkg/spatialindex"

	"go.uber.org/zap"
)

// Progress. result of projecting one position fix onto the tracked route.
type Progress struct {
	Point             geo.Position
	SegmentIndex      int
	SegmentFraction   float64
	DistanceFromRoute float64
	OffRoute          bool
	CompletedMeters   float64
	RemainingMeters   float64
	CurrentStep       *datastructure.NavigationStep
}

// RouteTracker answers "am i off this route, and how far remains" for one
// fixed route. long geometries get an r-tree over segments so each fix only
// checks nearby candidates, short ones scan every segment. stateless between
// fixes except for the prepared index and the total length.
type RouteTracker struct {
	log       *zap.Logger
	route     *datastructure.Route
	threshold float64

	index       *spatialindex.SegmentIndex
	totalLength float64
	stepStarts  []float64
}

type Option func(*RouteTracker)

func WithOffRouteThreshold(thresholdMeters float64) Option {
	return func(t *RouteTracker) {
		if thresholdMeters > 0 {
			t.threshold = thresholdMeters
		}
	}
}

func NewRouteTracker(log *zap.Logger, route *datastructure.Route, opts ...Option) *RouteTracker {
	t := &RouteTracker{
		log:       log,
		route:     route,
		threshold: pkg.DEFAULT_OFF_ROUTE_THRESHOLD_METERS,
	}
	for _, opt := range opts {
		opt(t)
	}

	geometry := route.GetGeometry()
	t.totalLength = geo.LineLength(geometry)

	if len(geometry) >= pkg.SEGMENT_INDEX_MIN_SEGMENTS {
		t.index = spatialindex.NewSegmentIndex()
		t.index.Build(geometry, pkg.SEGMENT_INDEX_LEAF_RADIUS_METERS)
		log.Debug("route tracker built segment index",
			zap.Int("segments", t.index.Len()))
	}

	// cumulative geometry length at the start of each step, used to locate the
	// current step for a fix
	var acc float64
	t.stepStarts = make([]float64, len(route.GetSteps()))
	for i, step := range route.GetSteps() {
		t.stepStarts[i] = acc
		acc += geo.LineLength(step.GetGeometry())
	}

	return t
}

// Update projects the fix onto the route. false when the route geometry is
// degenerate (fewer than 2 points).
func (t *RouteTracker) Update(fix geo.Coordinate) (Progress, bool) {
	geometry := t.route.GetGeometry()

	nearest, ok := t.project(fix, geometry)
	if !ok {
		return Progress{}, false
	}

	remaining := geo.RemainingDistance(geometry, nearest.SegmentIndex, nearest.SegmentFraction)

	progress := Progress{
		Point:             nearest.Point,
		SegmentIndex:      nearest.SegmentIndex,
		SegmentFraction:   nearest.SegmentFraction,
		DistanceFromRoute: nearest.Distance,
		OffRoute:          nearest.Distance > t.threshold,
		CompletedMeters:   t.totalLength - remaining,
		RemainingMeters:   remaining,
		CurrentStep:       t.currentStep(t.totalLength - remaining),
	}
	return progress, true
}

// project. index-accelerated nearest-point query with an exact full-scan
// fallback when no candidate lies within the box radius.
func (t *RouteTracker) project(fix geo.Coordinate, geometry []geo.Position) (geo.NearestPointResult, bool) {
	if t.index == nil {
		return geo.NearestPointOnLine(fix, geometry)
	}

	candidates := t.index.SearchWithinRadius(fix, t.threshold)
	if len(candidates) == 0 {
		return geo.NearestPointOnLine(fix, geometry)
	}

	best := geo.NearestPointResult{Distance: -1}
	for _, segmentIndex := range candidates {
		segment := geometry[segmentIndex : segmentIndex+2]
		nearest, ok := geo.NearestPointOnLine(fix, segment)
		if !ok {
			continue
		}
		if best.Distance < 0 || nearest.Distance < best.Distance ||
			(nearest.Distance == best.Distance && segmentIndex < best.SegmentIndex) {
			nearest.SegmentIndex = segmentIndex
			best = nearest
		}
	}
	if best.Distance < 0 {
		return geo.NearestPointOnLine(fix, geometry)
	}
	return best, true
}

func (t *RouteTracker) currentStep(completedMeters float64) *datastructure.NavigationStep {
	steps := t.route.GetSteps()
	if len(steps) == 0 {
		return nil
	}

	current := 0
	for i, start := range t.stepStarts {
		if completedMeters >= start {
			current = i
		}
	}
	step := steps[current]
	return &step
}

func (t *RouteTracker) TotalLength() float64 {
	return t.totalLength
}

func (t *RouteTracker) Route() *datastructure.Route {
	return t.route
}
