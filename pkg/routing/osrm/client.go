package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/lintang-b-s/waypointx/pkg"
	"github.com/lintang-b-s/waypointx/pkg/geo"
	"github.com/lintang-b-s/waypointx/pkg/routing"
	"github.com/lintang-b-s/waypointx/pkg/util"

	"go.uber.org/zap"
)

const (
	codeOK      = "Ok"
	codeNoRoute = "NoRoute"

	defaultTimeout = 30 * time.Second
)

// Client. directions source backed by an OSRM route/v1 HTTP endpoint.
// one plain attempt per request, resilience wrappers belong to callers.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger

	mu       sync.Mutex
	inflight context.CancelFunc

	availableOnce sync.Once
	available     bool
}

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(log *zap.Logger, baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		log: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// osrm route/v1 response shapes
type routeResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64   `json:"distance"`
	Duration float64   `json:"duration"`
	Geometry string    `json:"geometry"`
	Legs     []osrmLeg `json:"legs"`
}

type osrmLeg struct {
	Steps []osrmStep `json:"steps"`
}

type osrmStep struct {
	Distance float64      `json:"distance"`
	Duration float64      `json:"duration"`
	Geometry string       `json:"geometry"`
	Name     string       `json:"name"`
	Maneuver osrmManeuver `json:"maneuver"`
}

type osrmManeuver struct {
	Type     string `json:"type"`
	Modifier string `json:"modifier"`
	Exit     int    `json:"exit"`
}

func (c *Client) Route(ctx context.Context, req routing.DirectionsRequest) (*routing.DirectionsRoute, error) {
	if len(req.Coordinates) < pkg.MIN_WAYPOINTS_FOR_ROUTE {
		return nil, nil
	}

	profile := req.Profile
	if profile == "" {
		profile = pkg.DEFAULT_TRAVEL_PROFILE
	}

	path := make([]string, len(req.Coordinates))
	for i, coord := range req.Coordinates {
		path[i] = fmt.Sprintf("%f,%f", coord.GetLon(), coord.GetLat())
	}

	url := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=polyline&steps=true",
		c.baseURL, profile, strings.Join(path, ";"))

	reqCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.inflight = cancel
	c.mu.Unlock()
	defer func() {
		cancel()
		c.mu.Lock()
		c.inflight = nil
		c.mu.Unlock()
	}()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "osrm: build request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "osrm: execute request")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, util.WrapErrorf(nil, util.ErrInternalServerError,
			"osrm: server error %d", resp.StatusCode)
	}

	var decoded routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "osrm: decode response")
	}

	if decoded.Code == codeNoRoute || (decoded.Code == codeOK && len(decoded.Routes) == 0) {
		return nil, nil
	}
	if decoded.Code != codeOK {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"osrm: %s: %s", decoded.Code, decoded.Message)
	}

	return c.translateRoute(decoded.Routes[0])
}

func (c *Client) translateRoute(route osrmRoute) (*routing.DirectionsRoute, error) {
	geometry, err := geo.DecodePolyline(route.Geometry)
	if err != nil {
		return nil, err
	}

	out := &routing.DirectionsRoute{
		Geometry:        geometry,
		DistanceMeters:  route.Distance,
		DurationSeconds: route.Duration,
	}

	for _, leg := range route.Legs {
		for _, step := range leg.Steps {
			stepGeometry, err := geo.DecodePolyline(step.Geometry)
			if err != nil {
				return nil, err
			}
			maneuver := translateManeuver(step.Maneuver)
			out.Steps = append(out.Steps, routing.DirectionsStep{
				Instruction:     stepInstruction(step, maneuver),
				ManeuverType:    maneuver,
				DistanceMeters:  step.Distance,
				DurationSeconds: step.Duration,
				Geometry:        stepGeometry,
			})
		}
	}

	return out, nil
}

// translateManeuver maps an osrm maneuver type/modifier pair into the closed
// maneuver vocabulary. unmapped osrm types pass through verbatim so downstream
// consumers can treat them as opaque.
func translateManeuver(m osrmManeuver) string {
	side := func(left, right, fallback pkg.ManeuverType) string {
		switch {
		case strings.Contains(m.Modifier, "left"):
			return string(left)
		case strings.Contains(m.Modifier, "right"):
			return string(right)
		default:
			return string(fallback)
		}
	}

	switch m.Type {
	case "depart":
		return string(pkg.MANEUVER_DEPART)
	case "arrive":
		return string(pkg.MANEUVER_ARRIVE)
	case "turn":
		switch m.Modifier {
		case "left":
			return string(pkg.MANEUVER_TURN_LEFT)
		case "right":
			return string(pkg.MANEUVER_TURN_RIGHT)
		case "slight left":
			return string(pkg.MANEUVER_TURN_SLIGHT_LEFT)
		case "slight right":
			return string(pkg.MANEUVER_TURN_SLIGHT_RIGHT)
		case "sharp left":
			return string(pkg.MANEUVER_TURN_SHARP_LEFT)
		case "sharp right":
			return string(pkg.MANEUVER_TURN_SHARP_RIGHT)
		case "uturn":
			return string(pkg.MANEUVER_UTURN)
		case "straight":
			return string(pkg.MANEUVER_CONTINUE)
		default:
			return string(pkg.MANEUVER_UNKNOWN)
		}
	case "continue", "new name", "end of road":
		if m.Modifier == "uturn" {
			return string(pkg.MANEUVER_UTURN)
		}
		return string(pkg.MANEUVER_CONTINUE)
	case "merge":
		return string(pkg.MANEUVER_MERGE)
	case "fork":
		return side(pkg.MANEUVER_FORK_LEFT, pkg.MANEUVER_FORK_RIGHT, pkg.MANEUVER_CONTINUE)
	case "roundabout", "rotary":
		return string(pkg.MANEUVER_ROUNDABOUT)
	case "exit roundabout", "exit rotary":
		return string(pkg.MANEUVER_EXIT_ROUNDABOUT)
	case "notification":
		return string(pkg.MANEUVER_NOTIFICATION)
	default:
		// opaque vendor maneuver, e.g. "on ramp" / "off ramp"
		return m.Type
	}
}

func stepInstruction(step osrmStep, maneuver string) string {
	switch pkg.ManeuverType(maneuver) {
	case pkg.MANEUVER_DEPART:
		if step.Name != "" {
			return fmt.Sprintf("Head toward %s", step.Name)
		}
		return "Depart"
	case pkg.MANEUVER_ARRIVE:
		return "you have arrived at your destination"
	case pkg.MANEUVER_ROUNDABOUT:
		if step.Maneuver.Exit > 0 {
			return fmt.Sprintf("At the roundabout, take exit %d", step.Maneuver.Exit)
		}
		return "Enter the roundabout"
	}

	desc := strings.ReplaceAll(maneuver, "-", " ")
	desc = strings.ToUpper(desc[:1]) + desc[1:]
	if step.Name != "" {
		return fmt.Sprintf("%s onto %s", desc, step.Name)
	}
	return desc
}

// Cancel cancels the in-flight request, if any.
func (c *Client) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight != nil {
		c.inflight()
	}
}

// Available reports whether the configured endpoint is reachable. probed once
// and cached, the core carries no periodic health loop.
func (c *Client) Available(ctx context.Context) bool {
	c.availableOnce.Do(func() {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
		if err != nil {
			return
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.log.Warn("osrm endpoint unreachable", zap.String("base_url", c.baseURL), zap.Error(err))
			return
		}
		resp.Body.Close()
		c.available = true
	})
	return c.available
}
