package pkg

// ManeuverType. closed vocabulary of turn-by-turn maneuvers exchanged with
// directions sources. vendor adapters translate their own vocabulary into this set,
// unmapped vendor values pass through verbatim and must be treated as opaque.
type ManeuverType string

const (
	MANEUVER_DEPART            ManeuverType = "depart"
	MANEUVER_ARRIVE            ManeuverType = "arrive"
	MANEUVER_TURN_LEFT         ManeuverType = "turn-left"
	MANEUVER_TURN_RIGHT        ManeuverType = "turn-right"
	MANEUVER_TURN_SLIGHT_LEFT  ManeuverType = "turn-slight-left"
	MANEUVER_TURN_SLIGHT_RIGHT ManeuverType = "turn-slight-right"
	MANEUVER_TURN_SHARP_LEFT   ManeuverType = "turn-sharp-left"
	MANEUVER_TURN_SHARP_RIGHT  ManeuverType = "turn-sharp-right"
	MANEUVER_UTURN             ManeuverType = "uturn"
	MANEUVER_CONTINUE          ManeuverType = "continue"
	MANEUVER_MERGE             ManeuverType = "merge"
	MANEUVER_FORK_LEFT         ManeuverType = "fork-left"
	MANEUVER_FORK_RIGHT        ManeuverType = "fork-right"
	MANEUVER_ROUNDABOUT        ManeuverType = "roundabout"
	MANEUVER_EXIT_ROUNDABOUT   ManeuverType = "exit-roundabout"
	MANEUVER_NOTIFICATION      ManeuverType = "notification"
	MANEUVER_UNKNOWN           ManeuverType = "unknown"
)

func KnownManeuver(m ManeuverType) bool {
	switch m {
	case MANEUVER_DEPART, MANEUVER_ARRIVE, MANEUVER_TURN_LEFT, MANEUVER_TURN_RIGHT,
		MANEUVER_TURN_SLIGHT_LEFT, MANEUVER_TURN_SLIGHT_RIGHT, MANEUVER_TURN_SHARP_LEFT,
		MANEUVER_TURN_SHARP_RIGHT, MANEUVER_UTURN, MANEUVER_CONTINUE, MANEUVER_MERGE,
		MANEUVER_FORK_LEFT, MANEUVER_FORK_RIGHT, MANEUVER_ROUNDABOUT,
		MANEUVER_EXIT_ROUNDABOUT, MANEUVER_NOTIFICATION, MANEUVER_UNKNOWN:
		return true
	default:
		return false
	}
}

// HistoryAction. tag describing which waypoint mutation produced a history snapshot.
type HistoryAction string

const (
	HISTORY_ACTION_ADD     HistoryAction = "add"
	HISTORY_ACTION_REMOVE  HistoryAction = "remove"
	HISTORY_ACTION_UPDATE  HistoryAction = "update"
	HISTORY_ACTION_REORDER HistoryAction = "reorder"
	HISTORY_ACTION_CLEAR   HistoryAction = "clear"
)

// planner event names.
const (
	EVENT_WAYPOINT_ADDED     = "waypoint:added"
	EVENT_WAYPOINT_REMOVED   = "waypoint:removed"
	EVENT_WAYPOINT_UPDATED   = "waypoint:updated"
	EVENT_WAYPOINT_REORDERED = "waypoint:reordered"
	EVENT_ROUTE_CALCULATING  = "route:calculating"
	EVENT_ROUTE_CALCULATED   = "route:calculated"
	EVENT_ROUTE_ERROR        = "route:error"
	EVENT_ROUTE_CLEARED      = "route:cleared"
	EVENT_HISTORY_CHANGE     = "history:change"
	EVENT_STATS_UPDATED      = "stats:updated"
)

const (
	DEFAULT_MAX_HISTORY_SIZE           = 50
	DEFAULT_OFF_ROUTE_THRESHOLD_METERS = 50.0
	DEFAULT_AUTO_RECALCULATE           = true
	DEFAULT_TRAVEL_PROFILE             = "driving"
	DEFAULT_AVERAGE_SPEED_KMH          = 50.0
	DEFAULT_GEOMETRY_SAMPLE_METERS     = 1000.0
	MIN_WAYPOINTS_FOR_ROUTE            = 2

	SEGMENT_INDEX_LEAF_RADIUS_METERS = 50.0
	SEGMENT_INDEX_MIN_SEGMENTS       = 64
	SEGMENT_INDEX_MAX_CANDIDATES     = 20
	GREAT_CIRCLE_MAX_SAMPLES_PER_LEG = 128

	TURN_CONTINUE_THRESHOLD_DEGREE = 12.0
	TURN_SLIGHT_THRESHOLD_DEGREE   = 40.0
	TURN_SHARP_THRESHOLD_DEGREE    = 105.0
	TURN_UTURN_THRESHOLD_DEGREE    = 165.0
)
