package handler

import (
	"net/http"

	"barberbook/internal/actor"
	"barberbook/internal/favorites/service"
	httputil "barberbook/pkg/http"
	"barberbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type FavoriteHandler struct {
	service service.FavoriteService
	log     *logger.Logger
}

func NewFavoriteHandler(service service.FavoriteService, log *logger.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		service: service,
		log:     log,
	}
}

func (h *FavoriteHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := actor.FromRequest(r)
	if err != nil {
		h.writeError(w, "Add", err)
		return
	}

	favorite, err := h.service.Add(r.Context(), ps.ByName("id"), ps.ByName("barber_id"), a)
	if err != nil {
		h.writeError(w, "Add", err)
		return
	}

	if err := httputil.WriteCreated(w, favorite); err != nil {
		h.log.Error("failed to write created response", "handler", "Add", "operation", "WriteCreated", "error", err)
	}
}

func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := actor.FromRequest(r)
	if err != nil {
		h.writeError(w, "Remove", err)
		return
	}

	if err := h.service.Remove(r.Context(), ps.ByName("id"), ps.ByName("barber_id"), a); err != nil {
		h.writeError(w, "Remove", err)
		return
	}

	if err := httputil.WriteNoContent(w); err != nil {
		h.log.Error("failed to write no content response", "handler", "Remove", "operation", "WriteNoContent", "error", err)
	}
}

func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := actor.FromRequest(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	favorites, total, err := h.service.List(r.Context(), ps.ByName("id"), a, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, favorites, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *FavoriteHandler) IsFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := actor.FromRequest(r)
	if err != nil {
		h.writeError(w, "IsFavorite", err)
		return
	}

	ok, err := h.service.IsFavorite(r.Context(), ps.ByName("id"), ps.ByName("barber_id"), a)
	if err != nil {
		h.writeError(w, "IsFavorite", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]bool{"is_favorite": ok}); err != nil {
		h.log.Error("failed to write success response", "handler", "IsFavorite", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FavoriteHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/customers/:id/favorites", h.List)
	router.POST("/api/v1/customers/:id/favorites/:barber_id", h.Add)
	router.GET("/api/v1/customers/:id/favorites/:barber_id", h.IsFavorite)
	router.DELETE("/api/v1/customers/:id/favorites/:barber_id", h.Remove)
}
