package planfile

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/lintang-b-s/waypointx/pkg/datastructure"
	"github.com/lintang-b-s/waypointx/pkg/geo"
	"github.com/lintang-b-s/waypointx/pkg/util"

	"github.com/dsnet/compress/bzip2"
)

// Plan. the persisted part of a planning session: waypoints only. routes are
// never persisted, a loaded plan replays its waypoints through the planner and
// recalculates.
type Plan struct {
	Name      string
	SavedAt   time.Time
	Waypoints []datastructure.Waypoint
}

// wire records. waypoint fields are unexported, so the file format carries its
// own flat shape.
type planRecord struct {
	Name      string           `json:"name"`
	SavedAt   time.Time        `json:"saved_at"`
	Waypoints []waypointRecord `json:"waypoints"`
}

type waypointRecord struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name,omitempty"`
}

// Write writes plan as bzip2-compressed json to w.
func Write(w io.Writer, plan Plan) error {
	record := planRecord{
		Name:      plan.Name,
		SavedAt:   plan.SavedAt,
		Waypoints: make([]waypointRecord, len(plan.Waypoints)),
	}
	for i, wp := range plan.Waypoints {
		record.Waypoints[i] = waypointRecord{
			Lat:  wp.GetLat(),
			Lon:  wp.GetLon(),
			Name: wp.GetName(),
		}
	}

	bz, err := bzip2.NewWriter(w, &bzip2.WriterConfig{})
	if err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "planfile.Write")
	}

	if err := json.NewEncoder(bz).Encode(record); err != nil {
		bz.Close()
		return util.WrapErrorf(err, util.ErrInternalServerError, "planfile.Write: encode")
	}
	return bz.Close()
}

// Read reads a bzip2-compressed json plan from r. loaded waypoints get fresh
// identities and sequential indexes.
func Read(r io.Reader) (Plan, error) {
	bz, err := bzip2.NewReader(r, nil)
	if err != nil {
		return Plan{}, util.WrapErrorf(err, util.ErrBadParamInput, "planfile.Read")
	}
	defer bz.Close()

	var record planRecord
	if err := json.NewDecoder(bz).Decode(&record); err != nil {
		return Plan{}, util.WrapErrorf(err, util.ErrBadParamInput, "planfile.Read: decode")
	}

	plan := Plan{
		Name:      record.Name,
		SavedAt:   record.SavedAt,
		Waypoints: make([]datastructure.Waypoint, len(record.Waypoints)),
	}
	for i, wp := range record.Waypoints {
		plan.Waypoints[i] = datastructure.NewWaypoint(geo.NewCoordinate(wp.Lat, wp.Lon), i, wp.Name)
	}
	return plan, nil
}

func Save(path string, plan Plan) error {
	f, err := os.Create(path)
	if err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "planfile.Save")
	}
	defer f.Close()
	return Write(f, plan)
}

func Load(path string) (Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return Plan{}, util.WrapErrorf(err, util.ErrNotFound, "planfile.Load")
	}
	defer f.Close()
	return Read(f)
}
