package geo

import (
	"math"

	"github.com/lintang-b-s/waypointx/pkg/util"
)

const (
	// mean earth radius in meters
	earthRadiusM = 6371008.8
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

// HaversineDistance. calculate great-circle distance between from and to in meters.
// https://www.movable-type.co.uk/scripts/latlong.html
func HaversineDistance(from, to Coordinate) float64 {
	latOne := util.DegreeToRadians(from.GetLat())
	longOne := util.DegreeToRadians(from.GetLon())
	latTwo := util.DegreeToRadians(to.GetLat())
	longTwo := util.DegreeToRadians(to.GetLon())

	a := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	c := 2.0 * math.Asin(math.Sqrt(a))
	return earthRadiusM * c
}

// LineLength. sum of consecutive-pair haversine distances along line, in meters.
// 0 for fewer than 2 points.
func LineLength(line []Position) float64 {
	if len(line) < 2 {
		return 0
	}
	var length float64
	for i := 0; i < len(line)-1; i++ {
		length += HaversineDistance(line[i].ToCoordinate(), line[i+1].ToCoordinate())
	}
	return length
}

// RemainingDistance. partial length of segment fromIndex scaled by (1 - fromFraction)
// plus the full length of all subsequent segments. 0 when fromIndex is at or past
// the last segment or line has fewer than 2 points.
func RemainingDistance(line []Position, fromIndex int, fromFraction float64) float64 {
	if len(line) < 2 || fromIndex < 0 || fromIndex >= len(line)-1 {
		return 0
	}

	fromFraction = util.Clamp(fromFraction, 0.0, 1.0)

	remaining := (1 - fromFraction) * HaversineDistance(line[fromIndex].ToCoordinate(),
		line[fromIndex+1].ToCoordinate())
	for i := fromIndex + 1; i < len(line)-1; i++ {
		remaining += HaversineDistance(line[i].ToCoordinate(), line[i+1].ToCoordinate())
	}
	return remaining
}

// DestinationPoint returns the destination point given the starting point, bearing and distance.
// bearing in degrees, dist in meters.
func DestinationPoint(c Coordinate, bearing float64, dist float64) Coordinate {

	dr := dist / earthRadiusM

	bearing = util.DegreeToRadians(bearing)

	lat1 := util.DegreeToRadians(c.GetLat())
	lon1 := util.DegreeToRadians(c.GetLon())

	lat2Part1 := math.Sin(lat1) * math.Cos(dr)
	lat2Part2 := math.Cos(lat1) * math.Sin(dr) * math.Cos(bearing)

	lat2 := math.Asin(lat2Part1 + lat2Part2)

	lon2Part1 := math.Sin(bearing) * math.Sin(dr) * math.Cos(lat1)
	lon2Part2 := math.Cos(dr) - (math.Sin(lat1) * math.Sin(lat2))

	lon2 := lon1 + math.Atan2(lon2Part1, lon2Part2)

	return NewCoordinate(util.RadiansToDegree(lat2), normalizeLongitude(util.RadiansToDegree(lon2)))
}

// normalizeLongitude. long in degree
func normalizeLongitude(long float64) float64 {
	return math.Mod((long+540), 360) - 180.0
}
