package planner

import (
	"github.com/lintang-b-s/waypointx/pkg"
	"github.com/lintang-b-s/waypointx/pkg/datastructure"
	"github.com/lintang-b-s/waypointx/pkg/geo"
)

// typed payloads for the planner event surface. waypoint slices are snapshots
// taken after the mutation, listeners may keep them.

type WaypointAddedEvent struct {
	Waypoint  datastructure.Waypoint
	Waypoints []datastructure.Waypoint
}

type WaypointRemovedEvent struct {
	Waypoint  datastructure.Waypoint
	Waypoints []datastructure.Waypoint
}

type WaypointUpdatedEvent struct {
	Waypoint  datastructure.Waypoint
	Previous  geo.Coordinate
	Waypoints []datastructure.Waypoint
}

type WaypointsReorderedEvent struct {
	From      int
	To        int
	Waypoints []datastructure.Waypoint
}

type RouteCalculatingEvent struct {
	WaypointCount int
}

type RouteCalculatedEvent struct {
	Route *datastructure.Route
	Stats *datastructure.RouteStats
}

type RouteErrorEvent struct {
	Message       string
	WaypointCount int
}

type RouteClearedEvent struct{}

type HistoryChangeEvent struct {
	Action    pkg.HistoryAction
	CanUndo   bool
	CanRedo   bool
	Waypoints []datastructure.Waypoint
}

// StatsUpdatedEvent. Stats is nil when the route was cleared.
type StatsUpdatedEvent struct {
	Stats *datastructure.RouteStats
}
