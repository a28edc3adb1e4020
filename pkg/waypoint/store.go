package waypoint

import (
	"github.com/lintang-b-s/waypointx/pkg/datastructure"
	"github.com/lintang-b-s/waypointx/pkg/geo"
	"github.com/lintang-b-s/waypointx/pkg/util"
)

// Store. ordered, identity-addressed collection of waypoints. every structural
// operation ends with a full reindex pass so indexes are exactly 0..count-1 in
// list order. not goroutine safe, the planner serializes access.
type Store struct {
	waypoints []datastructure.Waypoint
}

func NewStore() *Store {
	return &Store{
		waypoints: make([]datastructure.Waypoint, 0),
	}
}

func (s *Store) All() []datastructure.Waypoint {
	return datastructure.CopyWaypoints(s.waypoints)
}

func (s *Store) ByID(id string) (datastructure.Waypoint, bool) {
	for _, w := range s.waypoints {
		if w.GetID() == id {
			return w, true
		}
	}
	return datastructure.Waypoint{}, false
}

func (s *Store) ByIndex(index int) (datastructure.Waypoint, bool) {
	if index < 0 || index >= len(s.waypoints) {
		return datastructure.Waypoint{}, false
	}
	return s.waypoints[index], true
}

func (s *Store) Count() int {
	return len(s.waypoints)
}

func (s *Store) Add(c geo.Coordinate, name string) datastructure.Waypoint {
	wp := datastructure.NewWaypoint(c, len(s.waypoints), name)
	s.waypoints = append(s.waypoints, wp)
	s.reindex()
	return s.waypoints[len(s.waypoints)-1]
}

// Insert inserts a new waypoint at index, clamped into [0, count].
func (s *Store) Insert(index int, c geo.Coordinate, name string) datastructure.Waypoint {
	index = util.Clamp(index, 0, len(s.waypoints))

	wp := datastructure.NewWaypoint(c, index, name)
	s.waypoints = append(s.waypoints, datastructure.Waypoint{})
	copy(s.waypoints[index+1:], s.waypoints[index:])
	s.waypoints[index] = wp
	s.reindex()
	return s.waypoints[index]
}

func (s *Store) Remove(id string) (datastructure.Waypoint, bool) {
	for i, w := range s.waypoints {
		if w.GetID() == id {
			s.waypoints = append(s.waypoints[:i], s.waypoints[i+1:]...)
			s.reindex()
			return w, true
		}
	}
	return datastructure.Waypoint{}, false
}

// Update mutates longitude/latitude only, preserving id/createdAt/name.
// returns the prior coordinate, or false if id is unknown.
func (s *Store) Update(id string, c geo.Coordinate) (geo.Coordinate, bool) {
	for i, w := range s.waypoints {
		if w.GetID() == id {
			prev := w.Coordinate()
			s.waypoints[i] = w.WithCoordinate(c)
			return prev, true
		}
	}
	return geo.Coordinate{}, false
}

// Reorder moves the waypoint at from to position to. soft-fails when either
// index is outside [0, count-1].
func (s *Store) Reorder(from, to int) bool {
	if from < 0 || from >= len(s.waypoints) || to < 0 || to >= len(s.waypoints) {
		return false
	}

	wp := s.waypoints[from]
	s.waypoints = append(s.waypoints[:from], s.waypoints[from+1:]...)

	s.waypoints = append(s.waypoints, datastructure.Waypoint{})
	copy(s.waypoints[to+1:], s.waypoints[to:])
	s.waypoints[to] = wp

	s.reindex()
	return true
}

func (s *Store) SetAll(wps []datastructure.Waypoint) {
	s.waypoints = datastructure.CopyWaypoints(wps)
	s.reindex()
}

func (s *Store) Clear() {
	s.waypoints = s.waypoints[:0]
}

func (s *Store) reindex() {
	for i, w := range s.waypoints {
		if w.GetIndex() != i {
			s.waypoints[i] = w.WithIndex(i)
		}
	}
}
