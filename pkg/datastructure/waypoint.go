package datastructure

import (
	"time"

	"github.com/lintang-b-s/waypointx/pkg"
	"github.com/lintang-b-s/waypointx/pkg/geo"

	"github.com/google/uuid"
)

// Waypoint. one user-placed stop on a route. id is assigned at creation and
// never reused or recomputed, index is a derived zero-based position the store
// recomputes after every structural change. immutable-by-replacement: the
// With* methods return copies.
type Waypoint struct {
	id        string
	index     int
	lat       float64
	lon       float64
	name      string
	createdAt time.Time
}

func NewWaypoint(c geo.Coordinate, index int, name string) Waypoint {
	return Waypoint{
		id:        uuid.New().String(),
		index:     index,
		lat:       c.GetLat(),
		lon:       c.GetLon(),
		name:      name,
		createdAt: time.Now(),
	}
}

func (w Waypoint) GetID() string {
	return w.id
}

func (w Waypoint) GetIndex() int {
	return w.index
}

func (w Waypoint) GetLat() float64 {
	return w.lat
}

func (w Waypoint) GetLon() float64 {
	return w.lon
}

func (w Waypoint) GetName() string {
	return w.name
}

func (w Waypoint) GetCreatedAt() time.Time {
	return w.createdAt
}

func (w Waypoint) Coordinate() geo.Coordinate {
	return geo.NewCoordinate(w.lat, w.lon)
}

func (w Waypoint) WithCoordinate(c geo.Coordinate) Waypoint {
	w.lat = c.GetLat()
	w.lon = c.GetLon()
	return w
}

func (w Waypoint) WithIndex(index int) Waypoint {
	w.index = index
	return w
}

// CopyWaypoints. independent copy of wps. waypoints are value types with no
// interior pointers, so copying the slice is a deep copy.
func CopyWaypoints(wps []Waypoint) []Waypoint {
	copied := make([]Waypoint, len(wps))
	copy(copied, wps)
	return copied
}

// HistoryEntry. immutable snapshot of the waypoint list tagged with the action
// that produced it. the snapshot never aliases live store memory.
type HistoryEntry struct {
	waypoints []Waypoint
	timestamp time.Time
	action    pkg.HistoryAction
}

func NewHistoryEntry(wps []Waypoint, action pkg.HistoryAction) HistoryEntry {
	return HistoryEntry{
		waypoints: CopyWaypoints(wps),
		timestamp: time.Now(),
		action:    action,
	}
}

func (h HistoryEntry) GetWaypoints() []Waypoint {
	return CopyWaypoints(h.waypoints)
}

func (h HistoryEntry) GetTimestamp() time.Time {
	return h.timestamp
}

func (h HistoryEntry) GetAction() pkg.HistoryAction {
	return h.action
}
