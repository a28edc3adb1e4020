package geo

// NearestPointResult. projection of a probe coordinate onto the closest segment
// of a polyline. SegmentFraction is the interpolation parameter along that
// segment (0 = segment start, 1 = segment end).
type NearestPointResult struct {
	Point           Position `json:"point"`
	Distance        float64  `json:"distance"`
	SegmentIndex    int      `json:"segment_index"`
	SegmentFraction float64  `json:"segment_fraction"`
}

/*
NearestPointOnLine. project point onto every segment of line using planar
(euclidean) parameterization in lon/lat space clamped to [0,1], measure the
haversine distance from point to each projected location and keep the minimum,
ties broken by the lowest segment index. false when line has fewer than 2 points.

the planar projection is an approximation valid at route scale (kilometers),
not for antimeridian-spanning or polar routes.
*/
func NearestPointOnLine(point Coordinate, line []Position) (NearestPointResult, bool) {
	if len(line) < 2 {
		return NearestPointResult{}, false
	}

	px := point.GetLon()
	py := point.GetLat()

	best := NearestPointResult{Distance: -1}

	for i := 0; i < len(line)-1; i++ {
		ax, ay := line[i].Lon(), line[i].Lat()
		bx, by := line[i+1].Lon(), line[i+1].Lat()

		dx := bx - ax
		dy := by - ay

		t := 0.0
		if dx != 0 || dy != 0 {
			t = ((px-ax)*dx + (py-ay)*dy) / (dx*dx + dy*dy)
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
		}

		projected := NewPosition(ax+t*dx, ay+t*dy)
		dist := HaversineDistance(point, projected.ToCoordinate())

		if best.Distance < 0 || dist < best.Distance {
			best = NearestPointResult{
				Point:           projected,
				Distance:        dist,
				SegmentIndex:    i,
				SegmentFraction: t,
			}
		}
	}

	return best, true
}

// IsOffRoute. true iff the nearest-point distance from point to line strictly
// exceeds thresholdMeters. a line with fewer than 2 points is never off-route.
func IsOffRoute(point Coordinate, line []Position, thresholdMeters float64) bool {
	nearest, ok := NearestPointOnLine(point, line)
	if !ok {
		return false
	}
	return nearest.Distance > thresholdMeters
}
