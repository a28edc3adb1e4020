package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/waypointx/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type plannerAPI struct {
	plannerService PlannerService
	log            *zap.Logger
}

func New(plannerService PlannerService, log *zap.Logger) *plannerAPI {
	return &plannerAPI{
		plannerService: plannerService,
		log:            log,
	}
}

func (api *plannerAPI) Routes(group *helper.RouteGroup) {
	group.POST("/plans", api.createPlan)
	group.GET("/plans/:id", api.getPlan)
	group.DELETE("/plans/:id", api.disposePlan)

	group.POST("/plans/:id/waypoints", api.addWaypoint)
	group.POST("/plans/:id/waypoints/insert", api.insertWaypoint)
	group.PUT("/plans/:id/waypoints/:wid", api.updateWaypoint)
	group.DELETE("/plans/:id/waypoints/:wid", api.removeWaypoint)

	group.POST("/plans/:id/reorder", api.reorderWaypoints)
	group.POST("/plans/:id/undo", api.undo)
	group.POST("/plans/:id/redo", api.redo)
	group.POST("/plans/:id/clear", api.clearPlan)
	group.POST("/plans/:id/recalculate", api.recalculate)

	group.GET("/plans/:id/route", api.getRoute)
	group.GET("/plans/:id/stats", api.getStats)
	group.GET("/plans/:id/offroute", api.offRoute)
	group.GET("/plans/:id/remaining", api.remainingDistance)

	group.GET("/plans/:id/export", api.exportPlan)
	group.POST("/plans/:id/import", api.importPlan)
}

// decodeAndValidate decodes the json body into request and validates it,
// writing the translated validation errors on failure.
func (api *plannerAPI) decodeAndValidate(w http.ResponseWriter, r *http.Request,
	request interface{}) bool {
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(request); err != nil {
			api.BadRequestResponse(w, r, err)
			return false
		}
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return false
	}

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return false
	}
	return true
}

func (api *plannerAPI) createPlan(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request createPlanRequest
	if !api.decodeAndValidate(w, r, &request) {
		return
	}

	info, err := api.plannerService.CreatePlan(request.Profile)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusCreated, envelope{"data": NewPlanResponse(info)},
		nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *plannerAPI) getPlan(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	info, err := api.plannerService.Plan(p.ByName("id"))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewPlanResponse(info)},
		nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *plannerAPI) disposePlan(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := api.plannerService.DisposePlan(p.ByName("id")); err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *plannerAPI) addWaypoint(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request addWaypointRequest
	if !api.decodeAndValidate(w, r, &request) {
		return
	}

	wp, err := api.plannerService.AddWaypoint(r.Context(), p.ByName("id"),
		request.Lat, request.Lon, request.Name)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusCreated, envelope{"data": NewWaypointResponse(wp)},
		nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *plannerAPI) insertWaypoint(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request insertWaypointRequest
	if !api.decodeAndValidate(w, r, &request) {
		return
	}

	wp, err := api.plannerService.InsertWaypoint(r.Context(), p.ByName("id"),
		request.Index, request.Lat, request.Lon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusCreated, envelope{"data": NewWaypointResponse(wp)},
		nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *plannerAPI) updateWaypoint(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request updateWaypointRequest
	if !api.decodeAndValidate(w, r, &request) {
		return
	}

	wp, err := api.plannerService.UpdateWaypoint(r.Context(), p.ByName("id"),
		p.ByName("wid"), request.Lat, request.Lon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewWaypointResponse(wp)},
		nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *plannerAPI) removeWaypoint(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	wp, err := api.plannerService.RemoveWaypoint(r.Context(), p.ByName("id"), p.ByName("wid"))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewWaypointResponse(wp)},
		nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *plannerAPI) reorderWaypoints(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request reorderRequest
	if !api.decodeAndValidate(w, r, &request) {
		return
	}

	if err := api.plannerService.ReorderWaypoints(r.Context(), p.ByName("id"),
		request.From, request.To); err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	info, err := api.plannerService.Plan(p.ByName("id"))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewPlanResponse(info)},
		nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *plannerAPI) undo(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	wps, applied, err := api.plannerService.Undo(r.Context(), p.ByName("id"))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	resp := undoRedoResponse{Applied: applied, Waypoints: NewWaypointsResponse(wps)}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": resp}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *plannerAPI) redo(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	wps, applied, err := api.plannerService.Redo(r.Context(), p.ByName("id"))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	resp := undoRedoResponse{Applied: applied, Waypoints: NewWaypointsResponse(wps)}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": resp}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *plannerAPI) clearPlan(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := api.plannerService.ClearPlan(r.Context(), p.ByName("id")); err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *plannerAPI) recalculate(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := api.plannerService.Recalculate(r.Context(), p.ByName("id")); err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	info, err := api.plannerService.Plan(p.ByName("id"))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewPlanResponse(info)},
		nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *plannerAPI) getRoute(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	route, err := api.plannerService.RouteOf(p.ByName("id"))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewRouteResponse(route)},
		nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *plannerAPI) getStats(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	stats, err := api.plannerService.StatsOf(p.ByName("id"))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewStatsResponse(stats)},
		nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *plannerAPI) offRoute(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	query := r.URL.Query()

	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("lat is required and must be a valid float"))
		return
	}
	lon, err := strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("lon is required and must be a valid float"))
		return
	}

	var threshold float64
	if raw := query.Get("threshold"); raw != "" {
		threshold, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			api.BadRequestResponse(w, r, errors.New("threshold must be a valid float"))
			return
		}
	}

	off, nearest, err := api.plannerService.OffRoute(p.ByName("id"), lat, lon, threshold)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	resp := offRouteResponse{
		OffRoute:        off,
		DistanceMeters:  nearest.Distance,
		SegmentIndex:    nearest.SegmentIndex,
		SegmentFraction: nearest.SegmentFraction,
	}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": resp}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *plannerAPI) remainingDistance(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	query := r.URL.Query()

	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("lat is required and must be a valid float"))
		return
	}
	lon, err := strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("lon is required and must be a valid float"))
		return
	}

	remaining, err := api.plannerService.RemainingDistance(p.ByName("id"), lat, lon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	resp := remainingResponse{RemainingMeters: remaining}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": resp}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *plannerAPI) exportPlan(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	name := r.URL.Query().Get("name")

	data, err := api.plannerService.ExportPlan(p.ByName("id"), name)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="plan.wpx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (api *plannerAPI) importPlan(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	imported, err := api.plannerService.ImportPlan(r.Context(), p.ByName("id"), data)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	resp := importResponse{ImportedWaypoints: imported}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": resp}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
