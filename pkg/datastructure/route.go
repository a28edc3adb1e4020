package datastructure

import (
	"github.com/lintang-b-s/waypointx/pkg"
	"github.com/lintang-b-s/waypointx/pkg/geo"

	"github.com/google/uuid"
)

// NavigationStep. one instructed maneuver segment of a route.
type NavigationStep struct {
	id              string
	index           int
	instruction     string
	maneuverType    pkg.ManeuverType
	distanceMeters  float64
	durationSeconds float64
	geometry        []geo.Position
}

func NewNavigationStep(index int, instruction string, maneuverType pkg.ManeuverType,
	distanceMeters, durationSeconds float64, geometry []geo.Position) NavigationStep {
	return NavigationStep{
		id:              uuid.New().String(),
		index:           index,
		instruction:     instruction,
		maneuverType:    maneuverType,
		distanceMeters:  distanceMeters,
		durationSeconds: durationSeconds,
		geometry:        geometry,
	}
}

func (s NavigationStep) GetID() string {
	return s.id
}

func (s NavigationStep) GetIndex() int {
	return s.index
}

func (s NavigationStep) GetInstruction() string {
	return s.instruction
}

func (s NavigationStep) GetManeuverType() pkg.ManeuverType {
	return s.maneuverType
}

func (s NavigationStep) GetDistanceMeters() float64 {
	return s.distanceMeters
}

func (s NavigationStep) GetDurationSeconds() float64 {
	return s.durationSeconds
}

func (s NavigationStep) GetGeometry() []geo.Position {
	return s.geometry
}

// Route. the last successfully completed calculation: geometry, the waypoint
// list it was calculated for, turn-by-turn steps and the bounding box
// [minLon, minLat, maxLon, maxLat] over the geometry.
type Route struct {
	geometry  []geo.Position
	waypoints []Waypoint
	steps     []NavigationStep
	bounds    [4]float64
}

func NewRoute(geometry []geo.Position, waypoints []Waypoint, steps []NavigationStep) *Route {
	return &Route{
		geometry:  geometry,
		waypoints: waypoints,
		steps:     steps,
		bounds:    geo.Bounds(geometry),
	}
}

func (r *Route) GetGeometry() []geo.Position {
	return r.geometry
}

func (r *Route) GetWaypoints() []Waypoint {
	return r.waypoints
}

func (r *Route) GetSteps() []NavigationStep {
	return r.steps
}

func (r *Route) GetBounds() [4]float64 {
	return r.bounds
}

// RouteStats. aggregate statistics derived from the current route, never
// independently mutated.
type RouteStats struct {
	distanceMeters  float64
	durationSeconds float64
	waypointCount   int
	stepCount       int
}

func NewRouteStats(distanceMeters, durationSeconds float64, waypointCount, stepCount int) *RouteStats {
	return &RouteStats{
		distanceMeters:  distanceMeters,
		durationSeconds: durationSeconds,
		waypointCount:   waypointCount,
		stepCount:       stepCount,
	}
}

func (rs *RouteStats) GetDistanceMeters() float64 {
	return rs.distanceMeters
}

func (rs *RouteStats) GetDurationSeconds() float64 {
	return rs.durationSeconds
}

func (rs *RouteStats) GetWaypointCount() int {
	return rs.waypointCount
}

func (rs *RouteStats) GetStepCount() int {
	return rs.stepCount
}
