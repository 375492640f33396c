package attachment

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
	Upload(actor *auth.User, travelRequestID int64, dto UploadBatchDTO) (*UploadResult, error)
	List(actor *auth.User, travelRequestID int64) ([]*Attachment, error)
	Get(actor *auth.User, id int64) (*Attachment, error)
	Delete(actor *auth.User, id int64) error
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

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	travelRequestID, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid travel request ID")
		return
	}

	var dto UploadBatchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Upload: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.Upload(user, travelRequestID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	travelRequestID, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid travel request ID")
		return
	}

	attachments, err := h.Service.List(user, travelRequestID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"attachments": attachments})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "attachmentID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid attachment ID")
		return
	}

	a, err := h.Service.Get(user, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "attachmentID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid attachment ID")
		return
	}

	if err := h.Service.Delete(user, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "attachment deleted"})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
