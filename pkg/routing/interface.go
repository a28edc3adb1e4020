package routing

import (
	"context"

	"github.com/lintang-b-s/waypointx/pkg/geo"
)

// DirectionsRequest. ordered coordinate list plus an optional travel profile
// and opaque provider options, handed to the external directions source.
type DirectionsRequest struct {
	Coordinates []geo.Coordinate
	Profile     string
	Options     map[string]interface{}
}

type DirectionsStep struct {
	Instruction     string
	ManeuverType    string
	DistanceMeters  float64
	DurationSeconds float64
	Geometry        []geo.Position
}

type DirectionsRoute struct {
	Geometry        []geo.Position
	DistanceMeters  float64
	DurationSeconds float64
	Steps           []DirectionsStep
}

// DirectionsSource. external vendor-specific service that turns an ordered
// coordinate list into route geometry and steps. (nil, nil) means "no route
// found". retry/backoff policy belongs to wrappers around the source, not here.
type DirectionsSource interface {
	Route(ctx context.Context, req DirectionsRequest) (*DirectionsRoute, error)
}

// AvailabilityChecker. optional source capability, absent means always available.
type AvailabilityChecker interface {
	Available(ctx context.Context) bool
}

// Canceler. optional source capability, absent means nothing to cancel.
type Canceler interface {
	Cancel()
}
