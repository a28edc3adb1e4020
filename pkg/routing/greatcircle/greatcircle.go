package greatcircle

import (
	"context"
	"fmt"
	"math"

	"github.com/lintang-b-s/waypointx/pkg"
	"github.com/lintang-b-s/waypointx/pkg/geo"
	"github.com/lintang-b-s/waypointx/pkg/routing"
	"github.com/lintang-b-s/waypointx/pkg/util"

	"github.com/golang/geo/s2"
)

// Source. default in-process directions source with no I/O: consecutive
// waypoint pairs become legs, leg geometry is sampled along the great circle
// and leg duration assumes a constant average speed. useful as a fallback when
// no vendor endpoint is configured and as a deterministic source in tests.
type Source struct {
	speedKmh          float64
	sampleEveryMeters float64
}

type Option func(*Source)

func WithAverageSpeedKmh(speedKmh float64) Option {
	return func(s *Source) {
		if speedKmh > 0 {
			s.speedKmh = speedKmh
		}
	}
}

func WithSampleEveryMeters(meters float64) Option {
	return func(s *Source) {
		if meters > 0 {
			s.sampleEveryMeters = meters
		}
	}
}

func New(opts ...Option) *Source {
	s := &Source{
		speedKmh:          pkg.DEFAULT_AVERAGE_SPEED_KMH,
		sampleEveryMeters: pkg.DEFAULT_GEOMETRY_SAMPLE_METERS,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) Route(ctx context.Context, req routing.DirectionsRequest) (*routing.DirectionsRoute, error) {
	if len(req.Coordinates) < pkg.MIN_WAYPOINTS_FOR_ROUTE {
		return nil, nil
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	route := &routing.DirectionsRoute{
		Geometry: []geo.Position{geo.PositionFromCoordinate(req.Coordinates[0])},
	}

	speedMs := s.speedKmh / 3.6
	prevBearing := math.NaN()

	for i := 0; i < len(req.Coordinates)-1; i++ {
		from := req.Coordinates[i]
		to := req.Coordinates[i+1]

		legGeometry := s.sampleLeg(from, to)
		legDistance := geo.LineLength(legGeometry)
		legDuration := legDistance / speedMs

		outBearing := geo.BearingTo(from, to)

		maneuver := pkg.MANEUVER_DEPART
		if i > 0 {
			maneuver = classifyTurn(prevBearing, outBearing)
		}

		route.Steps = append(route.Steps, routing.DirectionsStep{
			Instruction:     stepInstruction(maneuver, outBearing, to),
			ManeuverType:    string(maneuver),
			DistanceMeters:  legDistance,
			DurationSeconds: legDuration,
			Geometry:        legGeometry,
		})

		// skip the leg's first point, already appended as the previous leg's last
		route.Geometry = append(route.Geometry, legGeometry[1:]...)
		route.DistanceMeters += legDistance
		route.DurationSeconds += legDuration

		// incoming bearing at the next interior waypoint
		prevBearing = geo.BearingTo(legGeometry[len(legGeometry)-2].ToCoordinate(), to)
	}

	dest := req.Coordinates[len(req.Coordinates)-1]
	route.Steps = append(route.Steps, routing.DirectionsStep{
		Instruction:  "you have arrived at your destination",
		ManeuverType: string(pkg.MANEUVER_ARRIVE),
		Geometry:     []geo.Position{geo.PositionFromCoordinate(dest)},
	})

	return route, nil
}

// sampleLeg. geometry of one leg: endpoints plus intermediate points spaced
// ~sampleEveryMeters along the great circle via s2 geodesic interpolation.
func (s *Source) sampleLeg(from, to geo.Coordinate) []geo.Position {
	dist := geo.HaversineDistance(from, to)

	n := int(dist / s.sampleEveryMeters)
	n = util.MinInt(n, pkg.GREAT_CIRCLE_MAX_SAMPLES_PER_LEG)

	legGeometry := make([]geo.Position, 0, n+2)
	legGeometry = append(legGeometry, geo.PositionFromCoordinate(from))

	if n > 0 {
		a := s2.PointFromLatLng(s2.LatLngFromDegrees(from.GetLat(), from.GetLon()))
		b := s2.PointFromLatLng(s2.LatLngFromDegrees(to.GetLat(), to.GetLon()))
		for k := 1; k <= n; k++ {
			t := float64(k) / float64(n+1)
			ll := s2.LatLngFromPoint(s2.Interpolate(t, a, b))
			legGeometry = append(legGeometry,
				geo.NewPosition(ll.Lng.Degrees(), ll.Lat.Degrees()))
		}
	}

	return append(legGeometry, geo.PositionFromCoordinate(to))
}

// classifyTurn. maneuver at an interior waypoint from the signed delta between
// the incoming and outgoing bearings.
func classifyTurn(inBearing, outBearing float64) pkg.ManeuverType {
	delta := geo.DeltaBearing(inBearing, outBearing)
	absDelta := math.Abs(delta)

	switch {
	case absDelta < pkg.TURN_CONTINUE_THRESHOLD_DEGREE:
		return pkg.MANEUVER_CONTINUE
	case absDelta < pkg.TURN_SLIGHT_THRESHOLD_DEGREE:
		if delta < 0 {
			return pkg.MANEUVER_TURN_SLIGHT_LEFT
		}
		return pkg.MANEUVER_TURN_SLIGHT_RIGHT
	case absDelta < pkg.TURN_SHARP_THRESHOLD_DEGREE:
		if delta < 0 {
			return pkg.MANEUVER_TURN_LEFT
		}
		return pkg.MANEUVER_TURN_RIGHT
	case absDelta < pkg.TURN_UTURN_THRESHOLD_DEGREE:
		if delta < 0 {
			return pkg.MANEUVER_TURN_SHARP_LEFT
		}
		return pkg.MANEUVER_TURN_SHARP_RIGHT
	default:
		return pkg.MANEUVER_UTURN
	}
}

func bearingToCompass(bearing float64) string {
	if bearing < 22.5 {
		return "North"
	} else if bearing < 67.5 {
		return "North East"
	} else if bearing < 112.5 {
		return "East"
	} else if bearing < 157.5 {
		return "South East"
	} else if bearing < 202.5 {
		return "South"
	} else if bearing < 247.5 {
		return "South West"
	} else if bearing < 292.5 {
		return "West"
	} else if bearing < 337.5 {
		return "North West"
	} else {
		return "North"
	}
}

func stepInstruction(maneuver pkg.ManeuverType, bearing float64, to geo.Coordinate) string {
	switch maneuver {
	case pkg.MANEUVER_DEPART:
		return fmt.Sprintf("Head %s", bearingToCompass(bearing))
	case pkg.MANEUVER_CONTINUE:
		return "Continue"
	case pkg.MANEUVER_TURN_SLIGHT_LEFT:
		return "Turn slight left"
	case pkg.MANEUVER_TURN_SLIGHT_RIGHT:
		return "Turn slight right"
	case pkg.MANEUVER_TURN_LEFT:
		return "Turn left"
	case pkg.MANEUVER_TURN_RIGHT:
		return "Turn right"
	case pkg.MANEUVER_TURN_SHARP_LEFT:
		return "Turn sharp left"
	case pkg.MANEUVER_TURN_SHARP_RIGHT:
		return "Turn sharp right"
	case pkg.MANEUVER_UTURN:
		return "Make a U-turn"
	default:
		return "Continue"
	}
}
