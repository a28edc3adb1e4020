package geo

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestHaversineDistance(t *testing.T) {
	testCases := []struct {
		name string
		from Coordinate
		to   Coordinate
		want float64
		tol  float64
	}{
		{
			name: "identical points",
			from: NewCoordinate(-7.7713847, 110.3774998),
			to:   NewCoordinate(-7.7713847, 110.3774998),
			want: 0,
			tol:  1e-9,
		},
		{
			name: "one degree of longitude at the equator",
			from: NewCoordinate(0, 0),
			to:   NewCoordinate(0, 1),
			want: 6371008.8 * math.Pi / 180.0,
			tol:  1e-6,
		},
		{
			name: "yogyakarta to jakarta",
			from: NewCoordinate(-7.7956, 110.3695),
			to:   NewCoordinate(-6.2088, 106.8456),
			want: 430000,
			tol:  5000,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineDistance(tt.from, tt.to)
			if !almostEqual(got, tt.want, tt.tol) {
				t.Errorf("HaversineDistance = %f, want %f", got, tt.want)
			}

			back := HaversineDistance(tt.to, tt.from)
			if !almostEqual(got, back, 1e-9) {
				t.Errorf("distance should be symmetric, got %f and %f", got, back)
			}
		})
	}
}

func TestLineLength(t *testing.T) {
	oneDegree := 6371008.8 * math.Pi / 180.0

	testCases := []struct {
		name string
		line []Position
		want float64
		tol  float64
	}{
		{
			name: "empty line",
			line: nil,
			want: 0,
			tol:  0,
		},
		{
			name: "single point",
			line: []Position{NewPosition(110.37, -7.77)},
			want: 0,
			tol:  0,
		},
		{
			name: "two degrees along the equator",
			line: []Position{
				NewPosition(0, 0),
				NewPosition(1, 0),
				NewPosition(2, 0),
			},
			want: 2 * oneDegree,
			tol:  1e-6,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := LineLength(tt.line)
			if !almostEqual(got, tt.want, tt.tol) {
				t.Errorf("LineLength = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestRemainingDistance(t *testing.T) {
	oneDegree := 6371008.8 * math.Pi / 180.0
	line := []Position{
		NewPosition(0, 0),
		NewPosition(1, 0),
		NewPosition(2, 0),
	}

	testCases := []struct {
		name         string
		line         []Position
		fromIndex    int
		fromFraction float64
		want         float64
	}{
		{
			name:         "start of line",
			line:         line,
			fromIndex:    0,
			fromFraction: 0,
			want:         2 * oneDegree,
		},
		{
			name:         "halfway through first segment",
			line:         line,
			fromIndex:    0,
			fromFraction: 0.5,
			want:         1.5 * oneDegree,
		},
		{
			name:         "end of last segment",
			line:         line,
			fromIndex:    1,
			fromFraction: 1,
			want:         0,
		},
		{
			name:         "index past the last segment",
			line:         line,
			fromIndex:    2,
			fromFraction: 0,
			want:         0,
		},
		{
			name:         "negative index",
			line:         line,
			fromIndex:    -1,
			fromFraction: 0,
			want:         0,
		},
		{
			name:         "fraction clamped above 1",
			line:         line,
			fromIndex:    0,
			fromFraction: 3.5,
			want:         1 * oneDegree,
		},
		{
			name:         "too short line",
			line:         line[:1],
			fromIndex:    0,
			fromFraction: 0,
			want:         0,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := RemainingDistance(tt.line, tt.fromIndex, tt.fromFraction)
			if !almostEqual(got, tt.want, 1e-6) {
				t.Errorf("RemainingDistance = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestDestinationPoint(t *testing.T) {
	testCases := []struct {
		name    string
		from    Coordinate
		bearing float64
		dist    float64
	}{
		{name: "east 1km from equator", from: NewCoordinate(0, 0), bearing: 90, dist: 1000},
		{name: "north 500m", from: NewCoordinate(-7.77, 110.37), bearing: 0, dist: 500},
		{name: "southwest 2km", from: NewCoordinate(52.3, 4.9), bearing: 225, dist: 2000},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			dest := DestinationPoint(tt.from, tt.bearing, tt.dist)
			back := HaversineDistance(tt.from, dest)
			if !almostEqual(back, tt.dist, 0.01) {
				t.Errorf("distance to destination point = %f, want %f", back, tt.dist)
			}
		})
	}
}
