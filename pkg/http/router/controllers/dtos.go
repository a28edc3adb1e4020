package controllers

import (
	"time"

	"github.com/lintang-b-s/waypointx/pkg/datastructure"
	"github.com/lintang-b-s/waypointx/pkg/geo"
	"github.com/lintang-b-s/waypointx/pkg/http/usecases"
)

type createPlanRequest struct {
	Profile string `json:"profile" validate:"omitempty,oneof=driving walking cycling"`
}

type addWaypointRequest struct {
	Lat  float64 `json:"lat" validate:"min=-90,max=90"`
	Lon  float64 `json:"lon" validate:"min=-180,max=180"`
	Name string  `json:"name" validate:"omitempty,max=256"`
}

type insertWaypointRequest struct {
	Index int     `json:"index" validate:"min=0"`
	Lat   float64 `json:"lat" validate:"min=-90,max=90"`
	Lon   float64 `json:"lon" validate:"min=-180,max=180"`
}

type updateWaypointRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

type reorderRequest struct {
	From int `json:"from" validate:"min=0"`
	To   int `json:"to" validate:"min=0"`
}

type waypointResponse struct {
	ID        string    `json:"id"`
	Index     int       `json:"index"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewWaypointResponse(wp datastructure.Waypoint) waypointResponse {
	return waypointResponse{
		ID:        wp.GetID(),
		Index:     wp.GetIndex(),
		Lat:       wp.GetLat(),
		Lon:       wp.GetLon(),
		Name:      wp.GetName(),
		CreatedAt: wp.GetCreatedAt(),
	}
}

func NewWaypointsResponse(wps []datastructure.Waypoint) []waypointResponse {
	out := make([]waypointResponse, len(wps))
	for i, wp := range wps {
		out[i] = NewWaypointResponse(wp)
	}
	return out
}

type planResponse struct {
	ID          string             `json:"id"`
	Profile     string             `json:"profile"`
	Waypoints   []waypointResponse `json:"waypoints"`
	CanUndo     bool               `json:"can_undo"`
	CanRedo     bool               `json:"can_redo"`
	Calculating bool               `json:"calculating"`
	HasRoute    bool               `json:"has_route"`
}

func NewPlanResponse(info usecases.PlanInfo) planResponse {
	return planResponse{
		ID:          info.ID,
		Profile:     info.Profile,
		Waypoints:   NewWaypointsResponse(info.Waypoints),
		CanUndo:     info.CanUndo,
		CanRedo:     info.CanRedo,
		Calculating: info.Calculating,
		HasRoute:    info.HasRoute,
	}
}

type stepResponse struct {
	ID              string  `json:"id"`
	Index           int     `json:"index"`
	Instruction     string  `json:"instruction"`
	ManeuverType    string  `json:"maneuver_type"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	Geometry        string  `json:"geometry"`
}

type routeResponse struct {
	Geometry  string             `json:"geometry"`
	Bounds    [4]float64         `json:"bounds"`
	Waypoints []waypointResponse `json:"waypoints"`
	Steps     []stepResponse     `json:"steps"`
}

// NewRouteResponse encodes route geometry as polyline5.
func NewRouteResponse(route *datastructure.Route) routeResponse {
	steps := make([]stepResponse, len(route.GetSteps()))
	for i, s := range route.GetSteps() {
		steps[i] = stepResponse{
			ID:              s.GetID(),
			Index:           s.GetIndex(),
			Instruction:     s.GetInstruction(),
			ManeuverType:    string(s.GetManeuverType()),
			DistanceMeters:  s.GetDistanceMeters(),
			DurationSeconds: s.GetDurationSeconds(),
			Geometry:        geo.EncodePolyline(s.GetGeometry()),
		}
	}

	return routeResponse{
		Geometry:  geo.EncodePolyline(route.GetGeometry()),
		Bounds:    route.GetBounds(),
		Waypoints: NewWaypointsResponse(route.GetWaypoints()),
		Steps:     steps,
	}
}

type statsResponse struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	WaypointCount   int     `json:"waypoint_count"`
	StepCount       int     `json:"step_count"`
}

func NewStatsResponse(stats *datastructure.RouteStats) statsResponse {
	return statsResponse{
		DistanceMeters:  stats.GetDistanceMeters(),
		DurationSeconds: stats.GetDurationSeconds(),
		WaypointCount:   stats.GetWaypointCount(),
		StepCount:       stats.GetStepCount(),
	}
}

type offRouteResponse struct {
	OffRoute        bool    `json:"off_route"`
	DistanceMeters  float64 `json:"distance_meters"`
	SegmentIndex    int     `json:"segment_index"`
	SegmentFraction float64 `json:"segment_fraction"`
}

type remainingResponse struct {
	RemainingMeters float64 `json:"remaining_meters"`
}

type undoRedoResponse struct {
	Applied   bool               `json:"applied"`
	Waypoints []waypointResponse `json:"waypoints"`
}

type importResponse struct {
	ImportedWaypoints int `json:"imported_waypoints"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
