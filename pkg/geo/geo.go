package geo

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLon() float64 {
	return c.Lon
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

func NewCoordinates(lat, lon []float64) []Coordinate {
	coords := make([]Coordinate, len(lat))
	for i := range lat {
		coords[i] = NewCoordinate(lat[i], lon[i])
	}
	return coords
}

// Position. [lon, lat] or [lon, lat, alt] tuple, the order vendor geometry
// formats use. the altitude element is preserved through copies but ignored by
// all geometry math. marshals as a bare json array.
type Position []float64

func NewPosition(lon, lat float64) Position {
	return Position{lon, lat}
}

func (p Position) Lon() float64 {
	if len(p) < 1 {
		return 0
	}
	return p[0]
}

func (p Position) Lat() float64 {
	if len(p) < 2 {
		return 0
	}
	return p[1]
}

func (p Position) Alt() (float64, bool) {
	if len(p) < 3 {
		return 0, false
	}
	return p[2], true
}

func (p Position) ToCoordinate() Coordinate {
	return NewCoordinate(p.Lat(), p.Lon())
}

func PositionFromCoordinate(c Coordinate) Position {
	return NewPosition(c.GetLon(), c.GetLat())
}

func CopyPositions(line []Position) []Position {
	copied := make([]Position, len(line))
	for i, p := range line {
		copied[i] = make(Position, len(p))
		copy(copied[i], p)
	}
	return copied
}
