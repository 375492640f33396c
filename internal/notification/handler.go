package notification

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/centrushr/hr-management/internal/auth"
	"github.com/centrushr/hr-management/internal/transport"
	"github.com/centrushr/hr-management/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The API is localhost-bound; the frontend origin varies in dev.
		return true
	},
}

type ServiceAPI interface {
	List(viewer *auth.User, limit, offset int) ([]*Notification, error)
	CountUnread(viewer *auth.User) (int64, error)
	MarkRead(viewer *auth.User, id int64) error
	MarkAllRead(viewer *auth.User) error
	Delete(viewer *auth.User, id int64) error
	DeleteAll(viewer *auth.User) error
}

// SessionResolver authenticates websocket connections, which carry the token
// as a query parameter instead of a header.
type SessionResolver interface {
	CurrentUser(token string) (*auth.User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Sessions SessionResolver
	Hub      *StreamHub
}

func NewHandler(service ServiceAPI, sessions SessionResolver, hub *StreamHub) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		Sessions:    sessions,
		Hub:         hub,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
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

	notifications, err := h.Service.List(user, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

func (h *Handler) CountUnread(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	count, err := h.Service.CountUnread(user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]int64{"unread": count})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid notification ID")
		return
	}

	if err := h.Service.MarkRead(user, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "notification marked as read"})
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.Service.MarkAllRead(user); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "all notifications marked as read"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid notification ID")
		return
	}

	if err := h.Service.Delete(user, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "notification deleted"})
}

func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.Service.DeleteAll(user); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "all notifications deleted"})
}

// Stream upgrades the connection and subscribes the caller to the live feed.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.WriteError(w, http.StatusUnauthorized, "token required")
		return
	}

	user, err := h.Sessions.CurrentUser(token)
	if err != nil || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "invalid or expired session")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Error("Stream: websocket upgrade failed", "error", err)
		return
	}

	client := NewStreamClient(h.Hub, conn, user.ID)
	h.Hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
