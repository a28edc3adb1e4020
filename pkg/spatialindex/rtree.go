package spatialindex

import (
	"math"

	"github.com/lintang-b-s/waypointx/pkg"
	"github.com/lintang-b-s/waypointx/pkg/geo"

	"github.com/tidwall/rtree"
)

// SegmentIndex. r-tree over route segment bounding boxes, keeping per-fix
// nearest-segment queries cheap on long routes. pure acceleration structure:
// callers re-verify candidates with exact geo math.
type SegmentIndex struct {
	tr   *rtree.RTreeG[int]
	size int
}

func NewSegmentIndex() *SegmentIndex {
	var tr rtree.RTreeG[int]
	return &SegmentIndex{
		tr: &tr,
	}
}

// Build inserts one leaf per segment of geometry, each box inflated by
// leafRadiusMeters around the segment endpoints.
func (si *SegmentIndex) Build(geometry []geo.Position, leafRadiusMeters float64) {
	for i := 0; i < len(geometry)-1; i++ {
		from := geometry[i].ToCoordinate()
		to := geometry[i+1].ToCoordinate()

		lowerFrom := geo.DestinationPoint(from, 225, leafRadiusMeters)
		upperFrom := geo.DestinationPoint(from, 45, leafRadiusMeters)

		lowerTo := geo.DestinationPoint(to, 225, leafRadiusMeters)
		upperTo := geo.DestinationPoint(to, 45, leafRadiusMeters)

		minLat := math.Min(lowerFrom.GetLat(), lowerTo.GetLat())
		minLon := math.Min(lowerFrom.GetLon(), lowerTo.GetLon())
		maxLat := math.Max(upperFrom.GetLat(), upperTo.GetLat())
		maxLon := math.Max(upperFrom.GetLon(), upperTo.GetLon())

		si.tr.Insert([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat}, i)
		si.size++
	}
}

// SearchWithinRadius returns candidate segment indexes whose boxes intersect
// the box of radius radiusMeters around q, capped at SEGMENT_INDEX_MAX_CANDIDATES.
func (si *SegmentIndex) SearchWithinRadius(q geo.Coordinate, radiusMeters float64) []int {
	lower := geo.DestinationPoint(q, 225, radiusMeters)
	upper := geo.DestinationPoint(q, 45, radiusMeters)

	results := make([]int, 0, 10)
	si.tr.Search([2]float64{lower.GetLon(), lower.GetLat()}, [2]float64{upper.GetLon(), upper.GetLat()},
		func(min, max [2]float64, segmentIndex int) bool {
			results = append(results, segmentIndex)
			return len(results) < pkg.SEGMENT_INDEX_MAX_CANDIDATES
		})
	return results
}

func (si *SegmentIndex) Len() int {
	return si.size
}
