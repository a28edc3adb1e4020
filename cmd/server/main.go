package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"
	"github.com/lintang-b-s/waypointx/pkg/http"
	"github.com/lintang-b-s/waypointx/pkg/http/usecases"
	"github.com/lintang-b-s/waypointx/pkg/logger"
	"github.com/lintang-b-s/waypointx/pkg/planner"
	"github.com/lintang-b-s/waypointx/pkg/routing"
	"github.com/lintang-b-s/waypointx/pkg/routing/greatcircle"
	"github.com/lintang-b-s/waypointx/pkg/routing/osrm"
	"github.com/lintang-b-s/waypointx/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	maxHistorySize    = flag.Int("max_history_size", 50, "bounded undo/redo history size per plan")
	offRouteThreshold = flag.Float64("off_route_threshold", 50.0, "off-route distance threshold in meters")
	useRateLimit      = flag.Bool("rate_limit", false, "enable per-client api rate limiting")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	if err := util.ReadConfig(); err != nil {
		logger.Info("no config file found, using defaults", zap.Error(err))
	}

	sourceFactory := newSourceFactory(logger)

	plannerService := usecases.NewPlannerService(logger, sourceFactory,
		planner.WithMaxHistorySize(*maxHistorySize),
		planner.WithOffRouteThreshold(*offRouteThreshold))

	api := http.NewServer(logger)

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}
	api.Use(ctx, logger, *useRateLimit, plannerService)

	signal := http.GracefulShutdown()

	logger.Info("Waypointx Route Planner Server Stopped", zap.String("signal", signal.String()))
	cleanup()
}

// newSourceFactory picks the directions backend: an osrm http server when
// OSRM_BASE_URL is configured, great-circle estimation otherwise.
func newSourceFactory(log *zap.Logger) usecases.DirectionsSourceFactory {
	baseURL := viper.GetString("OSRM_BASE_URL")
	if baseURL != "" {
		log.Info("using osrm directions source", zap.String("base_url", baseURL))
		return func() routing.DirectionsSource {
			return osrm.NewClient(log, baseURL)
		}
	}

	log.Info("using great-circle directions source")
	return func() routing.DirectionsSource {
		return greatcircle.New()
	}
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
