package planner

import "github.com/lintang-b-s/waypointx/pkg"

type options struct {
	maxHistorySize    int
	offRouteThreshold float64
	autoRecalculate   bool
	profile           string
}

type Option func(*options)

func defaultOptions() options {
	return options{
		maxHistorySize:    pkg.DEFAULT_MAX_HISTORY_SIZE,
		offRouteThreshold: pkg.DEFAULT_OFF_ROUTE_THRESHOLD_METERS,
		autoRecalculate:   pkg.DEFAULT_AUTO_RECALCULATE,
		profile:           pkg.DEFAULT_TRAVEL_PROFILE,
	}
}

// WithMaxHistorySize bounds the number of retained undo/redo snapshots.
func WithMaxHistorySize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.maxHistorySize = size
		}
	}
}

// WithOffRouteThreshold sets the default threshold in meters for off-route queries.
func WithOffRouteThreshold(thresholdMeters float64) Option {
	return func(o *options) {
		if thresholdMeters > 0 {
			o.offRouteThreshold = thresholdMeters
		}
	}
}

// WithAutoRecalculate gates automatic recalculation after every mutation.
func WithAutoRecalculate(auto bool) Option {
	return func(o *options) {
		o.autoRecalculate = auto
	}
}

// WithProfile sets the travel profile handed to the directions source.
func WithProfile(profile string) Option {
	return func(o *options) {
		if profile != "" {
			o.profile = profile
		}
	}
}
