package geo

// Bounds. bounding box [minLon, minLat, maxLon, maxLat] over line.
// [0,0,0,0] when line is empty.
func Bounds(line []Position) [4]float64 {
	if len(line) == 0 {
		return [4]float64{0, 0, 0, 0}
	}

	bounds := [4]float64{line[0].Lon(), line[0].Lat(), line[0].Lon(), line[0].Lat()}
	for _, p := range line[1:] {
		if p.Lon() < bounds[0] {
			bounds[0] = p.Lon()
		}
		if p.Lat() < bounds[1] {
			bounds[1] = p.Lat()
		}
		if p.Lon() > bounds[2] {
			bounds[2] = p.Lon()
		}
		if p.Lat() > bounds[3] {
			bounds[3] = p.Lat()
		}
	}
	return bounds
}
