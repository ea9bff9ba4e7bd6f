package handler

import (
	"encoding/json"
	"net/http"

	"barberbook/internal/actor"
	"barberbook/internal/barbers/service"
	apperrors "barberbook/pkg/errors"
	httputil "barberbook/pkg/http"
	"barberbook/pkg/logger"
	"barberbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BarberHandler struct {
	service service.BarberService
	log     *logger.Logger
}

func NewBarberHandler(service service.BarberService, log *logger.Logger) *BarberHandler {
	return &BarberHandler{
		service: service,
		log:     log,
	}
}

func (h *BarberHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BarberHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *BarberHandler) writeCreated(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteCreated(w, data); err != nil {
		h.log.Error("failed to write created response", "handler", handler, "operation", "WriteCreated", "error", err)
	}
}

func (h *BarberHandler) writeNoContent(w http.ResponseWriter, handler string) {
	if err := httputil.WriteNoContent(w); err != nil {
		h.log.Error("failed to write no content response", "handler", handler, "operation", "WriteNoContent", "error", err)
	}
}

func (h *BarberHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	a, err := actor.FromRequest(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	var barber model.Barber
	if err := json.NewDecoder(r.Body).Decode(&barber); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &barber, a); err != nil {
		h.writeError(w, "Create", err)
		return
	}
	h.writeCreated(w, "Create", barber)
}

func (h *BarberHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	barber, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}
	h.writeSuccess(w, "GetByID", barber)
}

func (h *BarberHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	barbers, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, barbers, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *BarberHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := actor.FromRequest(r)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	var updates model.BarberUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	barber, err := h.service.Update(r.Context(), ps.ByName("id"), &updates, a)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}
	h.writeSuccess(w, "Update", barber)
}

func (h *BarberHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := actor.FromRequest(r)
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := h.service.Delete(r.Context(), ps.ByName("id"), a); err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	h.writeNoContent(w, "Delete")
}

func (h *BarberHandler) AddService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := actor.FromRequest(r)
	if err != nil {
		h.writeError(w, "AddService", err)
		return
	}

	var offering model.ServiceOffering
	if err := json.NewDecoder(r.Body).Decode(&offering); err != nil {
		h.writeError(w, "AddService", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.AddService(r.Context(), ps.ByName("id"), &offering, a); err != nil {
		h.writeError(w, "AddService", err)
		return
	}
	h.writeCreated(w, "AddService", offering)
}

func (h *BarberHandler) ListServices(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	offerings, err := h.service.ListServices(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "ListServices", err)
		return
	}
	h.writeSuccess(w, "ListServices", offerings)
}

func (h *BarberHandler) GetService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	offering, err := h.service.GetService(r.Context(), ps.ByName("id"), ps.ByName("service_id"))
	if err != nil {
		h.writeError(w, "GetService", err)
		return
	}
	h.writeSuccess(w, "GetService", offering)
}

func (h *BarberHandler) UpdateService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := actor.FromRequest(r)
	if err != nil {
		h.writeError(w, "UpdateService", err)
		return
	}

	var updates model.ServiceOfferingUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "UpdateService", apperrors.InvalidInput("Invalid request body"))
		return
	}

	offering, err := h.service.UpdateService(r.Context(), ps.ByName("id"), ps.ByName("service_id"), &updates, a)
	if err != nil {
		h.writeError(w, "UpdateService", err)
		return
	}
	h.writeSuccess(w, "UpdateService", offering)
}

func (h *BarberHandler) DeleteService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := actor.FromRequest(r)
	if err != nil {
		h.writeError(w, "DeleteService", err)
		return
	}

	if err := h.service.DeleteService(r.Context(), ps.ByName("id"), ps.ByName("service_id"), a); err != nil {
		h.writeError(w, "DeleteService", err)
		return
	}
	h.writeNoContent(w, "DeleteService")
}

func (h *BarberHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/barbers", h.Create)
	router.GET("/api/v1/barbers", h.GetAll)
	router.GET("/api/v1/barbers/id/:id", h.GetByID)
	router.PATCH("/api/v1/barbers/id/:id", h.Update)
	router.DELETE("/api/v1/barbers/id/:id", h.Delete)

	router.POST("/api/v1/barbers/id/:id/services", h.AddService)
	router.GET("/api/v1/barbers/id/:id/services", h.ListServices)
	router.GET("/api/v1/barbers/id/:id/services/:service_id", h.GetService)
	router.PATCH("/api/v1/barbers/id/:id/services/:service_id", h.UpdateService)
	router.DELETE("/api/v1/barbers/id/:id/services/:service_id", h.DeleteService)
}
