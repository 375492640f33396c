package travel

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/centrushr/hr-management/internal/auth"
	"github.com/centrushr/hr-management/internal/transport"
	"github.com/centrushr/hr-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateRequest(actor *auth.User, dto CreateTravelRequestDTO) (*TravelRequest, error)
	GetByID(actor *auth.User, id int64) (*TravelRequest, error)
	ListRequests(actor *auth.User, status string, limit, offset int) ([]*TravelRequest, error)
	ApproveRequest(actor *auth.User, id int64) (*TravelRequest, error)
	RejectRequest(actor *auth.User, id int64, dto RejectTravelRequestDTO) (*TravelRequest, error)
	DeleteRequest(actor *auth.User, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateTravelRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateRequest: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.Service.CreateRequest(user, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, request)
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid travel request ID")
		return
	}

	request, err := h.Service.GetByID(user, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, request)
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 50
	offset := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 200 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	requests, err := h.Service.ListRequests(user, r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"travel_requests": requests,
		"limit":           limit,
		"offset":          offset,
	})
}

func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid travel request ID")
		return
	}

	request, err := h.Service.ApproveRequest(user, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, request)
}

func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid travel request ID")
		return
	}

	var dto RejectTravelRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RejectRequest: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.Service.RejectRequest(user, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, request)
}

func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid travel request ID")
		return
	}

	if err := h.Service.DeleteRequest(user, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "travel request deleted"})
}

func (h *Handler) pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
