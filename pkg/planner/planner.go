package planner

import (
	"context"
	"sync"

	"github.com/lintang-b-s/waypointx/pkg"
	"github.com/lintang-b-s/waypointx/pkg/datastructure"
	"github.com/lintang-b-s/waypointx/pkg/eventbus"
	"github.com/lintang-b-s/waypointx/pkg/geo"
	"github.com/lintang-b-s/waypointx/pkg/routing"
	"github.com/lintang-b-s/waypointx/pkg/util"
	"github.com/lintang-b-s/waypointx/pkg/waypoint"

	"go.uber.org/zap"
)

// ErrPlannerDisposed. every public operation on a disposed planner fails with
// this condition: continuing would operate on torn-down state, so it is a
// programming fault rather than a soft miss.
var ErrPlannerDisposed = util.WrapErrorf(nil, util.ErrConflict, "route planner is disposed")

/*
RoutePlanner. facade sequencing waypoint mutation -> history capture ->
recalculation -> event emission. every mutating operation follows the fixed
order: push a snapshot of the pre-mutation list, mutate the store, emit the
mutation event with the post-mutation list, then await recalculation when auto
recalculation is on.

one mutex guards the planner's fields. the only await, the directions-source
call, runs with the mutex released, so other operations may interleave during a
calculation. the planner does not fence out-of-order completions: the last
calculation to complete wins and overwrites route/stats regardless of start
order. callers that need strict ordering serialize their own calls.
*/
type RoutePlanner struct {
	mu         sync.Mutex
	log        *zap.Logger
	store      *waypoint.Store
	history    *waypoint.History
	bus        *eventbus.Bus
	calculator *routing.Calculator

	route *datastructure.Route
	stats *datastructure.RouteStats

	offRouteThreshold float64
	autoRecalculate   bool

	calculating int
	cancelCalc  context.CancelFunc
	disposed    bool
}

func NewRoutePlanner(log *zap.Logger, source routing.DirectionsSource, opts ...Option) *RoutePlanner {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &RoutePlanner{
		log:               log,
		store:             waypoint.NewStore(),
		history:           waypoint.NewHistory(o.maxHistorySize),
		bus:               eventbus.NewBus(log),
		calculator:        routing.NewCalculator(log, source, o.profile),
		offRouteThreshold: o.offRouteThreshold,
		autoRecalculate:   o.autoRecalculate,
	}
}

// CalculateDistance. pure convenience, equal to geo.HaversineDistance.
func CalculateDistance(a, b geo.Coordinate) float64 {
	return geo.HaversineDistance(a, b)
}

// subscription surface, delegated to the per-instance bus.

func (p *RoutePlanner) Subscribe(event string, fn eventbus.Handler) func() {
	return p.bus.On(event, fn)
}

func (p *RoutePlanner) SubscribeOnce(event string, fn eventbus.Handler) func() {
	return p.bus.Once(event, fn)
}

func (p *RoutePlanner) RemoveAllListeners(events ...string) {
	p.bus.RemoveAllListeners(events...)
}

// mutating operations

func (p *RoutePlanner) AddWaypoint(ctx context.Context, c geo.Coordinate) (datastructure.Waypoint, error) {
	return p.AddNamedWaypoint(ctx, c, "")
}

func (p *RoutePlanner) AddNamedWaypoint(ctx context.Context, c geo.Coordinate, name string) (datastructure.Waypoint, error) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return datastructure.Waypoint{}, ErrPlannerDisposed
	}

	p.history.Push(p.store.All(), pkg.HISTORY_ACTION_ADD)
	wp := p.store.Add(c, name)
	wps := p.store.All()
	canUndo, canRedo := p.history.CanUndo(), p.history.CanRedo()
	p.mu.Unlock()

	p.bus.Emit(pkg.EVENT_WAYPOINT_ADDED, WaypointAddedEvent{Waypoint: wp, Waypoints: wps})
	p.emitHistoryChange(pkg.HISTORY_ACTION_ADD, canUndo, canRedo, wps)

	return wp, p.maybeRecalculate(ctx)
}

func (p *RoutePlanner) InsertWaypoint(ctx context.Context, index int, c geo.Coordinate) (datastructure.Waypoint, error) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return datastructure.Waypoint{}, ErrPlannerDisposed
	}

	p.history.Push(p.store.All(), pkg.HISTORY_ACTION_ADD)
	wp := p.store.Insert(index, c, "")
	wps := p.store.All()
	canUndo, canRedo := p.history.CanUndo(), p.history.CanRedo()
	p.mu.Unlock()

	p.bus.Emit(pkg.EVENT_WAYPOINT_ADDED, WaypointAddedEvent{Waypoint: wp, Waypoints: wps})
	p.emitHistoryChange(pkg.HISTORY_ACTION_ADD, canUndo, canRedo, wps)

	return wp, p.maybeRecalculate(ctx)
}

// RemoveWaypoint. unknown id is a soft miss: no history entry, no mutation, no event.
func (p *RoutePlanner) RemoveWaypoint(ctx context.Context, id string) (datastructure.Waypoint, bool, error) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return datastructure.Waypoint{}, false, ErrPlannerDisposed
	}

	if _, ok := p.store.ByID(id); !ok {
		p.mu.Unlock()
		return datastructure.Waypoint{}, false, nil
	}

	p.history.Push(p.store.All(), pkg.HISTORY_ACTION_REMOVE)
	removed, _ := p.store.Remove(id)
	wps := p.store.All()
	canUndo, canRedo := p.history.CanUndo(), p.history.CanRedo()
	p.mu.Unlock()

	p.bus.Emit(pkg.EVENT_WAYPOINT_REMOVED, WaypointRemovedEvent{Waypoint: removed, Waypoints: wps})
	p.emitHistoryChange(pkg.HISTORY_ACTION_REMOVE, canUndo, canRedo, wps)

	return removed, true, p.maybeRecalculate(ctx)
}

// UpdateWaypoint mutates a waypoint's coordinate, preserving identity. returns
// the prior coordinate. unknown id is a soft miss.
func (p *RoutePlanner) UpdateWaypoint(ctx context.Context, id string, c geo.Coordinate) (geo.Coordinate, bool, error) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return geo.Coordinate{}, false, ErrPlannerDisposed
	}

	if _, ok := p.store.ByID(id); !ok {
		p.mu.Unlock()
		return geo.Coordinate{}, false, nil
	}

	p.history.Push(p.store.All(), pkg.HISTORY_ACTION_UPDATE)
	prev, _ := p.store.Update(id, c)
	updated, _ := p.store.ByID(id)
	wps := p.store.All()
	canUndo, canRedo := p.history.CanUndo(), p.history.CanRedo()
	p.mu.Unlock()

	p.bus.Emit(pkg.EVENT_WAYPOINT_UPDATED, WaypointUpdatedEvent{Waypoint: updated, Previous: prev, Waypoints: wps})
	p.emitHistoryChange(pkg.HISTORY_ACTION_UPDATE, canUndo, canRedo, wps)

	return prev, true, p.maybeRecalculate(ctx)
}

// ReorderWaypoints moves the waypoint at from to position to. out-of-range
// indexes are a soft miss.
func (p *RoutePlanner) ReorderWaypoints(ctx context.Context, from, to int) (bool, error) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return false, ErrPlannerDisposed
	}

	if from < 0 || from >= p.store.Count() || to < 0 || to >= p.store.Count() {
		p.mu.Unlock()
		return false, nil
	}

	p.history.Push(p.store.All(), pkg.HISTORY_ACTION_REORDER)
	p.store.Reorder(from, to)
	wps := p.store.All()
	canUndo, canRedo := p.history.CanUndo(), p.history.CanRedo()
	p.mu.Unlock()

	p.bus.Emit(pkg.EVENT_WAYPOINT_REORDERED, WaypointsReorderedEvent{From: from, To: to, Waypoints: wps})
	p.emitHistoryChange(pkg.HISTORY_ACTION_REORDER, canUndo, canRedo, wps)

	return true, p.maybeRecalculate(ctx)
}

// Undo restores the previous history snapshot. empty history is a soft miss.
func (p *RoutePlanner) Undo(ctx context.Context) ([]datastructure.Waypoint, bool, error) {
	return p.applyHistory(ctx, (*waypoint.History).Undo)
}

// Redo restores the next history snapshot. no redo tail is a soft miss.
func (p *RoutePlanner) Redo(ctx context.Context) ([]datastructure.Waypoint, bool, error) {
	return p.applyHistory(ctx, (*waypoint.History).Redo)
}

func (p *RoutePlanner) applyHistory(ctx context.Context,
	move func(*waypoint.History) (datastructure.HistoryEntry, bool)) ([]datastructure.Waypoint, bool, error) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return nil, false, ErrPlannerDisposed
	}

	entry, ok := move(p.history)
	if !ok {
		p.mu.Unlock()
		return nil, false, nil
	}

	p.store.SetAll(entry.GetWaypoints())
	wps := p.store.All()
	canUndo, canRedo := p.history.CanUndo(), p.history.CanRedo()
	p.mu.Unlock()

	p.emitHistoryChange(entry.GetAction(), canUndo, canRedo, wps)

	return wps, true, p.maybeRecalculate(ctx)
}

// Clear removes every waypoint and the current route/stats. pushes a history
// snapshot only when waypoints existed.
func (p *RoutePlanner) Clear(ctx context.Context) error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return ErrPlannerDisposed
	}

	hadWaypoints := p.store.Count() > 0
	if hadWaypoints {
		p.history.Push(p.store.All(), pkg.HISTORY_ACTION_CLEAR)
	}
	p.store.Clear()
	hadRoute := p.route != nil
	hadStats := p.stats != nil
	p.route = nil
	p.stats = nil
	canUndo, canRedo := p.history.CanUndo(), p.history.CanRedo()
	p.mu.Unlock()

	if hadWaypoints {
		p.emitHistoryChange(pkg.HISTORY_ACTION_CLEAR, canUndo, canRedo, nil)
	}
	if hadRoute {
		p.bus.Emit(pkg.EVENT_ROUTE_CLEARED, RouteClearedEvent{})
	}
	if hadStats {
		p.bus.Emit(pkg.EVENT_STATS_UPDATED, StatsUpdatedEvent{Stats: nil})
	}

	return nil
}

func (p *RoutePlanner) maybeRecalculate(ctx context.Context) error {
	p.mu.Lock()
	auto := p.autoRecalculate && !p.disposed
	p.mu.Unlock()
	if !auto {
		return nil
	}
	return p.Recalculate(ctx)
}

/*
Recalculate. with fewer than 2 waypoints the current route/stats are cleared
and the directions source is never invoked. otherwise one calculation runs:
route:calculating first, then either the route/stats pair is replaced wholesale
(route:calculated + stats:updated) or the last-good pair is left untouched and
route:error carries the failure.
*/
func (p *RoutePlanner) Recalculate(ctx context.Context) error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return ErrPlannerDisposed
	}

	wps := p.store.All()
	if len(wps) < pkg.MIN_WAYPOINTS_FOR_ROUTE {
		hadRoute := p.route != nil
		hadStats := p.stats != nil
		p.route = nil
		p.stats = nil
		p.mu.Unlock()

		if hadRoute {
			p.bus.Emit(pkg.EVENT_ROUTE_CLEARED, RouteClearedEvent{})
		}
		if hadStats {
			p.bus.Emit(pkg.EVENT_STATS_UPDATED, StatsUpdatedEvent{Stats: nil})
		}
		return nil
	}

	calcCtx, cancel := context.WithCancel(ctx)
	p.calculating++
	p.cancelCalc = cancel
	p.mu.Unlock()

	p.bus.Emit(pkg.EVENT_ROUTE_CALCULATING, RouteCalculatingEvent{WaypointCount: len(wps)})

	// mutex released during the await: other planner calls may interleave here
	result, err := p.calculator.Calculate(calcCtx, wps)
	cancel()

	p.mu.Lock()
	p.calculating--
	if p.disposed {
		p.mu.Unlock()
		return ErrPlannerDisposed
	}

	if err == nil && result == nil {
		err = util.WrapErrorf(nil, util.ErrNotFound, "no route found for %d waypoints", len(wps))
	}
	if err != nil {
		p.mu.Unlock()
		p.log.Warn("route calculation failed", zap.Int("waypoints", len(wps)), zap.Error(err))
		p.bus.Emit(pkg.EVENT_ROUTE_ERROR, RouteErrorEvent{Message: err.Error(), WaypointCount: len(wps)})
		return err
	}

	// last completion wins
	p.route = result.Route
	p.stats = result.Stats
	p.mu.Unlock()

	p.bus.Emit(pkg.EVENT_ROUTE_CALCULATED, RouteCalculatedEvent{Route: result.Route, Stats: result.Stats})
	p.bus.Emit(pkg.EVENT_STATS_UPDATED, StatsUpdatedEvent{Stats: result.Stats})
	return nil
}

func (p *RoutePlanner) emitHistoryChange(action pkg.HistoryAction, canUndo, canRedo bool,
	wps []datastructure.Waypoint) {
	p.bus.Emit(pkg.EVENT_HISTORY_CHANGE, HistoryChangeEvent{
		Action:    action,
		CanUndo:   canUndo,
		CanRedo:   canRedo,
		Waypoints: wps,
	})
}

// queries

func (p *RoutePlanner) Waypoints() []datastructure.Waypoint {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return nil
	}
	return p.store.All()
}

func (p *RoutePlanner) Waypoint(id string) (datastructure.Waypoint, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return datastructure.Waypoint{}, false
	}
	return p.store.ByID(id)
}

func (p *RoutePlanner) WaypointCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return 0
	}
	return p.store.Count()
}

func (p *RoutePlanner) Route() *datastructure.Route {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.route
}

func (p *RoutePlanner) Stats() *datastructure.RouteStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *RoutePlanner) CanUndo() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.disposed && p.history.CanUndo()
}

func (p *RoutePlanner) CanRedo() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.disposed && p.history.CanRedo()
}

func (p *RoutePlanner) IsCalculating() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calculating > 0
}

func (p *RoutePlanner) IsDisposed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disposed
}

// navigation queries against the last completed route. absence of a route is
// never "off-route".

func (p *RoutePlanner) IsOffRoute(point geo.Coordinate) (bool, error) {
	p.mu.Lock()
	threshold := p.offRouteThreshold
	p.mu.Unlock()
	return p.IsOffRouteWithin(point, threshold)
}

func (p *RoutePlanner) IsOffRouteWithin(point geo.Coordinate, thresholdMeters float64) (bool, error) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return false, ErrPlannerDisposed
	}
	route := p.route
	p.mu.Unlock()

	if route == nil {
		return false, nil
	}
	return geo.IsOffRoute(point, route.GetGeometry(), thresholdMeters), nil
}

func (p *RoutePlanner) NearestPointOnRoute(point geo.Coordinate) (geo.NearestPointResult, bool, error) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return geo.NearestPointResult{}, false, ErrPlannerDisposed
	}
	route := p.route
	p.mu.Unlock()

	if route == nil {
		return geo.NearestPointResult{}, false, nil
	}
	nearest, ok := geo.NearestPointOnLine(point, route.GetGeometry())
	return nearest, ok, nil
}

// RemainingDistance. meters left on the route from the projection of point.
// 0 when no route is live.
func (p *RoutePlanner) RemainingDistance(point geo.Coordinate) (float64, error) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return 0, ErrPlannerDisposed
	}
	route := p.route
	p.mu.Unlock()

	if route == nil {
		return 0, nil
	}
	nearest, ok := geo.NearestPointOnLine(point, route.GetGeometry())
	if !ok {
		return 0, nil
	}
	return geo.RemainingDistance(route.GetGeometry(), nearest.SegmentIndex, nearest.SegmentFraction), nil
}

// SetSource swaps the directions source at runtime.
func (p *RoutePlanner) SetSource(source routing.DirectionsSource) {
	p.calculator.SetSource(source)
}

// SourceAvailable forwards the source's availability check, true when the
// source has none.
func (p *RoutePlanner) SourceAvailable(ctx context.Context) bool {
	return p.calculator.Available(ctx)
}

// Dispose is terminal and idempotent: cancels any in-flight calculation,
// clears listeners, store and history, and nulls the route/stats pair.
func (p *RoutePlanner) Dispose() {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.disposed = true
	if p.cancelCalc != nil {
		p.cancelCalc()
		p.cancelCalc = nil
	}
	p.store.Clear()
	p.history.Clear()
	p.route = nil
	p.stats = nil
	p.mu.Unlock()

	p.calculator.Cancel()
	p.bus.RemoveAllListeners()
}
