package geo

import (
	"math"

	"github.com/lintang-b-s/waypointx/pkg/util"
)

/*
BearingTo. initial bearing of the segment (from, to) in degrees [0, 360).
https://www.movable-type.co.uk/scripts/latlong.html
*/
func BearingTo(from, to Coordinate) float64 {

	dLon := util.DegreeToRadians(to.GetLon() - from.GetLon())

	lat1 := util.DegreeToRadians(from.GetLat())
	lat2 := util.DegreeToRadians(to.GetLat())

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	brng := math.Mod(util.RadiansToDegree(math.Atan2(y, x))+360, 360.0)

	return brng
}

// DeltaBearing. signed turn angle in degrees (-180, 180] between the incoming
// bearing and the outgoing bearing. negative = left turn, positive = right turn.
func DeltaBearing(inBearing, outBearing float64) float64 {
	delta := math.Mod(outBearing-inBearing+540, 360) - 180
	if delta == -180 {
		delta = 180
	}
	return delta
}
