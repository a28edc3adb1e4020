package usecases

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/lintang-b-s/waypointx/pkg"
	"github.com/lintang-b-s/waypointx/pkg/datastructure"
	"github.com/lintang-b-s/waypointx/pkg/geo"
	"github.com/lintang-b-s/waypointx/pkg/metrics"
	"github.com/lintang-b-s/waypointx/pkg/planfile"
	"github.com/lintang-b-s/waypointx/pkg/planner"
	"github.com/lintang-b-s/waypointx/pkg/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlannerService. session registry mapping plan ids to live route planners.
type PlannerService struct {
	log           *zap.Logger
	sourceFactory DirectionsSourceFactory
	opts          []planner.Option

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	planner     *planner.RoutePlanner
	profile     string
	unsubscribe []func()
}

// PlanInfo. snapshot of one session for the api layer.
type PlanInfo struct {
	ID          string
	Profile     string
	Waypoints   []datastructure.Waypoint
	CanUndo     bool
	CanRedo     bool
	Calculating bool
	HasRoute    bool
}

func NewPlannerService(log *zap.Logger, sourceFactory DirectionsSourceFactory,
	opts ...planner.Option) *PlannerService {
	return &PlannerService{
		log:           log,
		sourceFactory: sourceFactory,
		opts:          opts,
		sessions:      make(map[string]*session),
	}
}

func (ps *PlannerService) CreatePlan(profile string) (PlanInfo, error) {
	if profile == "" {
		profile = pkg.DEFAULT_TRAVEL_PROFILE
	}

	id := uuid.New().String()
	opts := append([]planner.Option{}, ps.opts...)
	opts = append(opts, planner.WithProfile(profile))
	pl := planner.NewRoutePlanner(ps.log, ps.sourceFactory(), opts...)

	s := &session{planner: pl, profile: profile}
	s.unsubscribe = ps.observe(pl)

	ps.mu.Lock()
	ps.sessions[id] = s
	ps.mu.Unlock()

	metrics.ActivePlans.Inc()
	ps.log.Info("plan session created", zap.String("plan_id", id), zap.String("profile", profile))

	return ps.info(id, s), nil
}

// observe wires one session's events into the prometheus counters.
func (ps *PlannerService) observe(pl *planner.RoutePlanner) []func() {
	var calcStart time.Time

	events := []string{
		pkg.EVENT_WAYPOINT_ADDED, pkg.EVENT_WAYPOINT_REMOVED, pkg.EVENT_WAYPOINT_UPDATED,
		pkg.EVENT_WAYPOINT_REORDERED, pkg.EVENT_ROUTE_CALCULATING, pkg.EVENT_ROUTE_CALCULATED,
		pkg.EVENT_ROUTE_ERROR, pkg.EVENT_ROUTE_CLEARED, pkg.EVENT_HISTORY_CHANGE,
		pkg.EVENT_STATS_UPDATED,
	}

	unsubscribe := make([]func(), 0, len(events))
	for _, event := range events {
		event := event
		unsubscribe = append(unsubscribe, pl.Subscribe(event, func(payload interface{}) {
			metrics.EventsEmittedTotal.WithLabelValues(event).Inc()

			switch event {
			case pkg.EVENT_ROUTE_CALCULATING:
				calcStart = time.Now()
			case pkg.EVENT_ROUTE_CALCULATED:
				metrics.CalculationsTotal.WithLabelValues("ok").Inc()
				if !calcStart.IsZero() {
					metrics.CalculationDuration.Observe(time.Since(calcStart).Seconds())
				}
			case pkg.EVENT_ROUTE_ERROR:
				metrics.CalculationsTotal.WithLabelValues("error").Inc()
			}
		}))
	}
	return unsubscribe
}

func (ps *PlannerService) get(id string) (*session, error) {
	ps.mu.RLock()
	s, ok := ps.sessions[id]
	ps.mu.RUnlock()
	if !ok {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "plan %s not found", id)
	}
	return s, nil
}

func (ps *PlannerService) info(id string, s *session) PlanInfo {
	return PlanInfo{
		ID:          id,
		Profile:     s.profile,
		Waypoints:   s.planner.Waypoints(),
		CanUndo:     s.planner.CanUndo(),
		CanRedo:     s.planner.CanRedo(),
		Calculating: s.planner.IsCalculating(),
		HasRoute:    s.planner.Route() != nil,
	}
}

func (ps *PlannerService) Plan(id string) (PlanInfo, error) {
	s, err := ps.get(id)
	if err != nil {
		return PlanInfo{}, err
	}
	return ps.info(id, s), nil
}

func (ps *PlannerService) DisposePlan(id string) error {
	ps.mu.Lock()
	s, ok := ps.sessions[id]
	if ok {
		delete(ps.sessions, id)
	}
	ps.mu.Unlock()

	if !ok {
		return util.WrapErrorf(nil, util.ErrNotFound, "plan %s not found", id)
	}

	s.planner.Dispose()
	metrics.ActivePlans.Dec()
	ps.log.Info("plan session disposed", zap.String("plan_id", id))
	return nil
}

func (ps *PlannerService) AddWaypoint(ctx context.Context, id string, lat, lon float64,
	name string) (datastructure.Waypoint, error) {
	s, err := ps.get(id)
	if err != nil {
		return datastructure.Waypoint{}, err
	}

	metrics.WaypointOperationsTotal.WithLabelValues(string(pkg.HISTORY_ACTION_ADD)).Inc()
	return s.planner.AddNamedWaypoint(ctx, geo.NewCoordinate(lat, lon), name)
}

func (ps *PlannerService) InsertWaypoint(ctx context.Context, id string, index int,
	lat, lon float64) (datastructure.Waypoint, error) {
	s, err := ps.get(id)
	if err != nil {
		return datastructure.Waypoint{}, err
	}

	metrics.WaypointOperationsTotal.WithLabelValues(string(pkg.HISTORY_ACTION_ADD)).Inc()
	return s.planner.InsertWaypoint(ctx, index, geo.NewCoordinate(lat, lon))
}

func (ps *PlannerService) RemoveWaypoint(ctx context.Context, id,
	waypointID string) (datastructure.Waypoint, error) {
	s, err := ps.get(id)
	if err != nil {
		return datastructure.Waypoint{}, err
	}

	removed, ok, err := s.planner.RemoveWaypoint(ctx, waypointID)
	if err != nil {
		return datastructure.Waypoint{}, err
	}
	if !ok {
		return datastructure.Waypoint{}, util.WrapErrorf(nil, util.ErrNotFound,
			"waypoint %s not found in plan %s", waypointID, id)
	}
	metrics.WaypointOperationsTotal.WithLabelValues(string(pkg.HISTORY_ACTION_REMOVE)).Inc()
	return removed, nil
}

func (ps *PlannerService) UpdateWaypoint(ctx context.Context, id, waypointID string,
	lat, lon float64) (datastructure.Waypoint, error) {
	s, err := ps.get(id)
	if err != nil {
		return datastructure.Waypoint{}, err
	}

	_, ok, err := s.planner.UpdateWaypoint(ctx, waypointID, geo.NewCoordinate(lat, lon))
	if err != nil {
		return datastructure.Waypoint{}, err
	}
	if !ok {
		return datastructure.Waypoint{}, util.WrapErrorf(nil, util.ErrNotFound,
			"waypoint %s not found in plan %s", waypointID, id)
	}
	metrics.WaypointOperationsTotal.WithLabelValues(string(pkg.HISTORY_ACTION_UPDATE)).Inc()
	updated, _ := s.planner.Waypoint(waypointID)
	return updated, nil
}

func (ps *PlannerService) ReorderWaypoints(ctx context.Context, id string, from, to int) error {
	s, err := ps.get(id)
	if err != nil {
		return err
	}

	ok, err := s.planner.ReorderWaypoints(ctx, from, to)
	if err != nil {
		return err
	}
	if !ok {
		return util.WrapErrorf(nil, util.ErrBadParamInput,
			"reorder indexes out of range: from=%d to=%d", from, to)
	}
	metrics.WaypointOperationsTotal.WithLabelValues(string(pkg.HISTORY_ACTION_REORDER)).Inc()
	return nil
}

func (ps *PlannerService) Undo(ctx context.Context, id string) ([]datastructure.Waypoint, bool, error) {
	s, err := ps.get(id)
	if err != nil {
		return nil, false, err
	}
	return s.planner.Undo(ctx)
}

func (ps *PlannerService) Redo(ctx context.Context, id string) ([]datastructure.Waypoint, bool, error) {
	s, err := ps.get(id)
	if err != nil {
		return nil, false, err
	}
	return s.planner.Redo(ctx)
}

func (ps *PlannerService) ClearPlan(ctx context.Context, id string) error {
	s, err := ps.get(id)
	if err != nil {
		return err
	}
	metrics.WaypointOperationsTotal.WithLabelValues(string(pkg.HISTORY_ACTION_CLEAR)).Inc()
	return s.planner.Clear(ctx)
}

func (ps *PlannerService) Recalculate(ctx context.Context, id string) error {
	s, err := ps.get(id)
	if err != nil {
		return err
	}
	return s.planner.Recalculate(ctx)
}

func (ps *PlannerService) RouteOf(id string) (*datastructure.Route, error) {
	s, err := ps.get(id)
	if err != nil {
		return nil, err
	}

	route := s.planner.Route()
	if route == nil {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "plan %s has no calculated route", id)
	}
	return route, nil
}

func (ps *PlannerService) StatsOf(id string) (*datastructure.RouteStats, error) {
	s, err := ps.get(id)
	if err != nil {
		return nil, err
	}

	stats := s.planner.Stats()
	if stats == nil {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "plan %s has no route stats", id)
	}
	return stats, nil
}

// OffRoute. thresholdMeters <= 0 falls back to the planner's configured threshold.
func (ps *PlannerService) OffRoute(id string, lat, lon, thresholdMeters float64) (bool,
	geo.NearestPointResult, error) {
	s, err := ps.get(id)
	if err != nil {
		return false, geo.NearestPointResult{}, err
	}

	point := geo.NewCoordinate(lat, lon)

	var off bool
	if thresholdMeters > 0 {
		off, err = s.planner.IsOffRouteWithin(point, thresholdMeters)
	} else {
		off, err = s.planner.IsOffRoute(point)
	}
	if err != nil {
		return false, geo.NearestPointResult{}, err
	}

	nearest, _, err := s.planner.NearestPointOnRoute(point)
	if err != nil {
		return false, geo.NearestPointResult{}, err
	}
	return off, nearest, nil
}

func (ps *PlannerService) RemainingDistance(id string, lat, lon float64) (float64, error) {
	s, err := ps.get(id)
	if err != nil {
		return 0, err
	}
	return s.planner.RemainingDistance(geo.NewCoordinate(lat, lon))
}

func (ps *PlannerService) ExportPlan(id, name string) ([]byte, error) {
	s, err := ps.get(id)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = planfile.Write(&buf, planfile.Plan{
		Name:      name,
		SavedAt:   time.Now(),
		Waypoints: s.planner.Waypoints(),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ImportPlan replays a plan file's waypoints into the session, clearing the
// existing list first. routes are never persisted in plan files, recalculation
// happens through the replayed mutations.
func (ps *PlannerService) ImportPlan(ctx context.Context, id string, data []byte) (int, error) {
	s, err := ps.get(id)
	if err != nil {
		return 0, err
	}

	plan, err := planfile.Read(bytes.NewReader(data))
	if err != nil {
		return 0, err
	}

	if err := s.planner.Clear(ctx); err != nil {
		return 0, err
	}
	for _, wp := range plan.Waypoints {
		if _, err := s.planner.AddNamedWaypoint(ctx, wp.Coordinate(), wp.GetName()); err != nil {
			return 0, err
		}
	}
	return len(plan.Waypoints), nil
}

// Subscribe forwards every event of one session to fn, returning an
// unsubscribe handle. used by the websocket hub.
func (ps *PlannerService) Subscribe(id string, fn func(event string, payload interface{})) (func(), error) {
	s, err := ps.get(id)
	if err != nil {
		return nil, err
	}

	events := []string{
		pkg.EVENT_WAYPOINT_ADDED, pkg.EVENT_WAYPOINT_REMOVED, pkg.EVENT_WAYPOINT_UPDATED,
		pkg.EVENT_WAYPOINT_REORDERED, pkg.EVENT_ROUTE_CALCULATING, pkg.EVENT_ROUTE_CALCULATED,
		pkg.EVENT_ROUTE_ERROR, pkg.EVENT_ROUTE_CLEARED, pkg.EVENT_HISTORY_CHANGE,
		pkg.EVENT_STATS_UPDATED,
	}

	unsubscribe := make([]func(), 0, len(events))
	for _, event := range events {
		event := event
		unsubscribe = append(unsubscribe, s.planner.Subscribe(event, func(payload interface{}) {
			fn(event, payload)
		}))
	}

	return func() {
		for _, u := range unsubscribe {
			u()
		}
	}, nil
}
