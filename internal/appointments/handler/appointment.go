package handler

import (
	"encoding/json"
	"net/http"

	"barberbook/internal/actor"
	"barberbook/internal/appointments/service"
	apperrors "barberbook/pkg/errors"
	httputil "barberbook/pkg/http"
	"barberbook/pkg/logger"
	"barberbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AppointmentHandler struct {
	service service.AppointmentService
	log     *logger.Logger
}

func NewAppointmentHandler(service service.AppointmentService, log *logger.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
		log:     log,
	}
}

func (h *AppointmentHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	a, err := actor.FromRequest(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	var req model.AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	appt, err := h.service.Create(r.Context(), &req, a)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, appt); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *AppointmentHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := actor.FromRequest(r)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	appt, err := h.service.GetByID(r.Context(), ps.ByName("id"), a)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, appt); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) Transition(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := actor.FromRequest(r)
	if err != nil {
		h.writeError(w, "Transition", err)
		return
	}

	var req model.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Transition", apperrors.InvalidInput("Invalid request body"))
		return
	}

	appt, err := h.service.Transition(r.Context(), ps.ByName("id"), req.Status, a)
	if err != nil {
		h.writeError(w, "Transition", err)
		return
	}

	if err := httputil.WriteSuccess(w, appt); err != nil {
		h.log.Error("failed to write success response", "handler", "Transition", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := actor.FromRequest(r)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	appt, err := h.service.Cancel(r.Context(), ps.ByName("id"), a)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, appt); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) ListByCustomer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := actor.FromRequest(r)
	if err != nil {
		h.writeError(w, "ListByCustomer", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListByCustomer", err)
		return
	}

	appts, total, err := h.service.ListByCustomer(r.Context(), ps.ByName("id"), a, limit, offset)
	if err != nil {
		h.writeError(w, "ListByCustomer", err)
		return
	}

	if err := httputil.WritePaginated(w, appts, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByCustomer", "operation", "WritePaginated", "error", err)
	}
}

func (h *AppointmentHandler) ListByBarber(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := actor.FromRequest(r)
	if err != nil {
		h.writeError(w, "ListByBarber", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListByBarber", err)
		return
	}

	date := r.URL.Query().Get("date")
	appts, total, err := h.service.ListByBarber(r.Context(), ps.ByName("id"), date, a, limit, offset)
	if err != nil {
		h.writeError(w, "ListByBarber", err)
		return
	}

	if err := httputil.WritePaginated(w, appts, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByBarber", "operation", "WritePaginated", "error", err)
	}
}

func (h *AppointmentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/appointments", h.Create)
	router.GET("/api/v1/appointments/id/:id", h.GetByID)
	router.POST("/api/v1/appointments/id/:id/transition", h.Transition)
	router.POST("/api/v1/appointments/id/:id/cancel", h.Cancel)
	router.GET("/api/v1/customers/:id/appointments", h.ListByCustomer)
	router.GET("/api/v1/barbers/:id/appointments", h.ListByBarber)
}
