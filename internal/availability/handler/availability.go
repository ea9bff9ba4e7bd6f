package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"barberbook/internal/actor"
	"barberbook/internal/availability/service"
	apperrors "barberbook/pkg/errors"
	httputil "barberbook/pkg/http"
	"barberbook/pkg/logger"
	"barberbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AvailabilityHandler) SetWindow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := actor.FromRequest(r)
	if err != nil {
		h.writeError(w, "SetWindow", err)
		return
	}

	var window model.WorkingWindow
	if err := json.NewDecoder(r.Body).Decode(&window); err != nil {
		h.writeError(w, "SetWindow", apperrors.InvalidInput("Invalid request body"))
		return
	}
	window.BarberID = ps.ByName("id")
	window.Date = ps.ByName("date")

	saved, err := h.service.SetWindow(r.Context(), &window, a)
	if err != nil {
		h.writeError(w, "SetWindow", err)
		return
	}

	if err := httputil.WriteSuccess(w, saved); err != nil {
		h.log.Error("failed to write success response", "handler", "SetWindow", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) SetWindows(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := actor.FromRequest(r)
	if err != nil {
		h.writeError(w, "SetWindows", err)
		return
	}

	var windows []*model.WorkingWindow
	if err := json.NewDecoder(r.Body).Decode(&windows); err != nil {
		h.writeError(w, "SetWindows", apperrors.InvalidInput("Invalid request body, expected an array of working windows"))
		return
	}

	saved, err := h.service.SetWindows(r.Context(), ps.ByName("id"), windows, a)
	if err != nil {
		h.writeError(w, "SetWindows", err)
		return
	}

	if err := httputil.WriteSuccess(w, saved); err != nil {
		h.log.Error("failed to write success response", "handler", "SetWindows", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) GetWindow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	window, err := h.service.GetWindow(r.Context(), ps.ByName("id"), ps.ByName("date"))
	if err != nil {
		h.writeError(w, "GetWindow", err)
		return
	}

	if err := httputil.WriteSuccess(w, window); err != nil {
		h.log.Error("failed to write success response", "handler", "GetWindow", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) ListWindows(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := r.URL.Query()

	windows, err := h.service.ListWindows(r.Context(), ps.ByName("id"), query.Get("from"), query.Get("to"))
	if err != nil {
		h.writeError(w, "ListWindows", err)
		return
	}

	if err := httputil.WriteSuccess(w, windows); err != nil {
		h.log.Error("failed to write success response", "handler", "ListWindows", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) Slots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := r.URL.Query()

	date, err := httputil.RequireQuery(r, "date")
	if err != nil {
		h.writeError(w, "Slots", err)
		return
	}

	duration := 0
	if s := query.Get("duration"); s != "" {
		duration, err = strconv.Atoi(s)
		if err != nil {
			h.writeError(w, "Slots", apperrors.InvalidInput("invalid duration parameter: "+s))
			return
		}
	}

	slots, err := h.service.AvailableSlots(r.Context(), service.SlotQuery{
		BarberID:        ps.ByName("id"),
		Date:            date,
		ServiceID:       query.Get("service_id"),
		DurationMinutes: duration,
	})
	if err != nil {
		h.writeError(w, "Slots", err)
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "Slots", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.PUT("/api/v1/barbers/:id/windows", h.SetWindows)
	router.GET("/api/v1/barbers/:id/windows", h.ListWindows)
	router.PUT("/api/v1/barbers/:id/windows/:date", h.SetWindow)
	router.GET("/api/v1/barbers/:id/windows/:date", h.GetWindow)
	router.GET("/api/v1/barbers/:id/slots", h.Slots)
}
