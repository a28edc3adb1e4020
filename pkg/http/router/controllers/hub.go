package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/lintang-b-s/waypointx/pkg/concurrent"
	"github.com/lintang-b-s/waypointx/pkg/metrics"
	"github.com/lintang-b-s/waypointx/pkg/planner"
)

type subscribeRequest struct {
	PlanID string `json:"plan_id" validate:"required,uuid4"`
}

type eventMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

type User struct {
	io   sync.Mutex
	conn io.ReadWriteCloser

	id  uint
	hub *Hub

	subMu       sync.Mutex
	unsubscribe func()
}

func (u *User) readRequest() (*subscribeRequest, error) {
	u.io.Lock()
	defer u.io.Unlock()

	h, r, err := wsutil.NextReader(u.conn, ws.StateServerSide)
	if err != nil {
		return nil, err
	}
	if h.OpCode.IsControl() {
		return nil, wsutil.ControlFrameHandler(u.conn, ws.StateServerSide)(h, r)
	}

	req := &subscribeRequest{}
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(req); err != nil {
		return nil, err
	}
	return req, nil
}

// SubscribePlan reads a subscription request from the socket and streams the
// plan's events back until the connection drops or the plan is disposed.
func (u *User) SubscribePlan() error {
	req, err := u.readRequest()
	if err != nil {
		u.conn.Close()
		return err
	}

	if req == nil {
		return nil
	}

	validate := validator.New()

	if err := validate.Struct(req); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		errResp := envelope{"error": map[string]string{
			"code":    http.StatusText(http.StatusBadRequest),
			"message": fmt.Sprintf("validation error: %v", vvString),
		}}
		return u.write(errResp)
	}

	unsubscribe, err := u.hub.plannerService.Subscribe(req.PlanID,
		func(event string, payload interface{}) {
			if err := u.write(eventMessage{
				Event: event,
				Data:  eventPayload(payload),
			}); err != nil {
				u.hub.Remove(u)
			}
		})
	if err != nil {
		errResp := envelope{"error": map[string]string{
			"code":    http.StatusText(http.StatusNotFound),
			"message": err.Error(),
		}}
		return u.write(errResp)
	}

	u.subMu.Lock()
	if u.unsubscribe != nil {
		u.unsubscribe()
	}
	u.unsubscribe = unsubscribe
	u.subMu.Unlock()

	return u.write(envelope{"data": map[string]string{
		"subscribed": req.PlanID,
	}})
}

func (u *User) write(x interface{}) error {
	w := wsutil.NewWriter(u.conn, ws.StateServerSide, ws.OpText)
	encoder := json.NewEncoder(w)

	u.io.Lock()
	defer u.io.Unlock()

	if err := encoder.Encode(x); err != nil {
		return err
	}

	return w.Flush()
}

// eventPayload converts the typed planner payloads into their wire shapes.
func eventPayload(payload interface{}) interface{} {
	switch p := payload.(type) {
	case planner.WaypointAddedEvent:
		return map[string]interface{}{
			"waypoint":  NewWaypointResponse(p.Waypoint),
			"waypoints": NewWaypointsResponse(p.Waypoints),
		}
	case planner.WaypointRemovedEvent:
		return map[string]interface{}{
			"waypoint":  NewWaypointResponse(p.Waypoint),
			"waypoints": NewWaypointsResponse(p.Waypoints),
		}
	case planner.WaypointUpdatedEvent:
		return map[string]interface{}{
			"waypoint":  NewWaypointResponse(p.Waypoint),
			"previous":  map[string]float64{"lat": p.Previous.GetLat(), "lon": p.Previous.GetLon()},
			"waypoints": NewWaypointsResponse(p.Waypoints),
		}
	case planner.WaypointsReorderedEvent:
		return map[string]interface{}{
			"from":      p.From,
			"to":        p.To,
			"waypoints": NewWaypointsResponse(p.Waypoints),
		}
	case planner.RouteCalculatingEvent:
		return map[string]interface{}{
			"waypoint_count": p.WaypointCount,
		}
	case planner.RouteCalculatedEvent:
		return map[string]interface{}{
			"route": NewRouteResponse(p.Route),
			"stats": NewStatsResponse(p.Stats),
		}
	case planner.RouteErrorEvent:
		return map[string]interface{}{
			"message":        p.Message,
			"waypoint_count": p.WaypointCount,
		}
	case planner.RouteClearedEvent:
		return nil
	case planner.HistoryChangeEvent:
		return map[string]interface{}{
			"action":    string(p.Action),
			"can_undo":  p.CanUndo,
			"can_redo":  p.CanRedo,
			"waypoints": NewWaypointsResponse(p.Waypoints),
		}
	case planner.StatsUpdatedEvent:
		if p.Stats == nil {
			return nil
		}
		return NewStatsResponse(p.Stats)
	}
	return payload
}

type Hub struct {
	mu             sync.RWMutex
	seq            uint
	us             []*User
	ns             map[uint]*User
	plannerService PlannerService

	pool *concurrent.WorkerPool[int, int]
}

func NewHub(pool *concurrent.WorkerPool[int, int], plannerService PlannerService) *Hub {
	hub := &Hub{
		pool:           pool,
		ns:             make(map[uint]*User),
		us:             make([]*User, 0),
		plannerService: plannerService,
	}

	return hub
}

func (h *Hub) Register(conn net.Conn) *User {
	user := &User{
		hub:  h,
		conn: conn,
	}

	h.mu.Lock()
	user.id = h.seq
	h.ns[user.id] = user
	h.us = append(h.us, user)

	h.seq++
	h.mu.Unlock()

	metrics.ActiveWebSockets.Inc()

	return user
}

func (h *Hub) Remove(user *User) {
	h.mu.Lock()
	if _, oki := h.ns[user.id]; !oki {
		h.mu.Unlock()
		return
	}
	delete(h.ns, user.id)

	i := sort.Search(len(h.us), func(i int) bool {
		return h.us[i].id >= user.id
	})

	newUs := make([]*User, len(h.us)-1)
	copy(newUs[:i], h.us[:i])
	copy(newUs[i:], h.us[i+1:])
	h.us = newUs

	h.mu.Unlock()

	user.subMu.Lock()
	if user.unsubscribe != nil {
		user.unsubscribe()
		user.unsubscribe = nil
	}
	user.subMu.Unlock()

	metrics.ActiveWebSockets.Dec()
}

func (h *Hub) RemoveAllUser() {
	h.mu.RLock()
	users := make([]*User, len(h.us))
	copy(users, h.us)
	h.mu.RUnlock()

	for _, user := range users {
		h.Remove(user)
	}
}
