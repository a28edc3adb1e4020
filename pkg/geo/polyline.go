package geo

import (
	"github.com/lintang-b-s/waypointx/pkg/util"

	"github.com/twpayne/go-polyline"
)

// EncodePolyline. encode line as a google polyline5 string ([lat, lon] order on the wire).
func EncodePolyline(line []Position) string {
	coords := make([][]float64, len(line))
	for i, p := range line {
		coords[i] = []float64{p.Lat(), p.Lon()}
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodePolyline. decode a google polyline5 string into positions.
func DecodePolyline(encoded string) ([]Position, error) {
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "geo.DecodePolyline")
	}
	line := make([]Position, len(coords))
	for i, c := range coords {
		line[i] = NewPosition(c[1], c[0])
	}
	return line, nil
}
