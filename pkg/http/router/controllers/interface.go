package controllers

import (
	"context"

	"github.com/lintang-b-s/waypointx/pkg/datastructure"
	"github.com/lintang-b-s/waypointx/pkg/geo"
	"github.com/lintang-b-s/waypointx/pkg/http/usecases"
)

type PlannerService interface {
	CreatePlan(profile string) (usecases.PlanInfo, error)
	Plan(id string) (usecases.PlanInfo, error)
	DisposePlan(id string) error

	AddWaypoint(ctx context.Context, id string, lat, lon float64, name string) (datastructure.Waypoint, error)
	InsertWaypoint(ctx context.Context, id string, index int, lat, lon float64) (datastructure.Waypoint, error)
	RemoveWaypoint(ctx context.Context, id, waypointID string) (datastructure.Waypoint, error)
	UpdateWaypoint(ctx context.Context, id, waypointID string, lat, lon float64) (datastructure.Waypoint, error)
	ReorderWaypoints(ctx context.Context, id string, from, to int) error
	Undo(ctx context.Context, id string) ([]datastructure.Waypoint, bool, error)
	Redo(ctx context.Context, id string) ([]datastructure.Waypoint, bool, error)
	ClearPlan(ctx context.Context, id string) error
	Recalculate(ctx context.Context, id string) error

	RouteOf(id string) (*datastructure.Route, error)
	StatsOf(id string) (*datastructure.RouteStats, error)
	OffRoute(id string, lat, lon, thresholdMeters float64) (bool, geo.NearestPointResult, error)
	RemainingDistance(id string, lat, lon float64) (float64, error)

	ExportPlan(id, name string) ([]byte, error)
	ImportPlan(ctx context.Context, id string, data []byte) (int, error)

	Subscribe(id string, fn func(event string, payload interface{})) (func(), error)
}
