package usecases

import (
	"github.com/lintang-b-s/waypointx/pkg/routing"
)

// DirectionsSourceFactory builds one directions source per planning session,
// so vendor adapters keep per-session in-flight state (cancellation) without
// sessions stepping on each other.
type DirectionsSourceFactory func() routing.DirectionsSource
