package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/centrushr/hr-management/internal/transport"
	"github.com/centrushr/hr-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Login(dto LoginDTO) (*LoginResult, error)
	Logout(token string) error
	IsAuthenticated(token string) (bool, error)
	CurrentUser(token string) (*User, error)
	CreateUser(caller *User, dto CreateUserDTO) (*User, error)
	ListUsers(caller *User) ([]*User, error)
	UpdateUser(caller *User, targetID int64, dto UpdateUserDTO) (*User, error)
	SetUserStatus(caller *User, targetID int64, active bool) error
	DeleteUser(caller *User, targetID int64) error
	Capabilities() ([]Capability, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.Login(dto)
	if err != nil {
		h.Logger.Warn("login failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if err := h.Service.Logout(token); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCurrentUser handles GET /users/me.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	h.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Service.CreateUser(caller, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	caller, ok := UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	users, err := h.Service.ListUsers(caller)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	targetID, err := h.pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var dto UpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Service.UpdateUser(caller, targetID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	targetID, err := h.pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var dto SetStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.SetUserStatus(caller, targetID, dto.Active); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]bool{"active": dto.Active})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	targetID, err := h.pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.Service.DeleteUser(caller, targetID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListCapabilities(w http.ResponseWriter, r *http.Request) {
	caps, err := h.Service.Capabilities()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"capabilities": caps})
}

func (h *Handler) pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// SessionMiddleware is the session guard: it resolves the bearer token to a
// user on every request, so permission edits take effect on the next call
// rather than being cached for the life of an open view.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		user, err := h.Service.CurrentUser(token)
		if err != nil {
			h.Logger.Error("session middleware: user resolution failed", "error", err)
			h.WriteError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if user == nil {
			h.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		ctx := ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireCapability guards a route group behind one capability id.
func (h *Handler) RequireCapability(capabilityID string) func(http.Handler) http.Handler {
	return h.requireMiddleware(Requirement{Capability: capabilityID})
}

// RequireAdmin guards admin-only route groups.
func (h *Handler) RequireAdmin() func(http.Handler) http.Handler {
	return h.requireMiddleware(Requirement{AdminOnly: true})
}

// RequireTravelAction guards a route behind one of the travel flags.
func (h *Handler) RequireTravelAction(action TravelAction) func(http.Handler) http.Handler {
	return h.requireMiddleware(Requirement{Travel: action})
}

func (h *Handler) requireMiddleware(req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				h.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if err := Authorize(user, req); err != nil {
				h.Logger.Warn("access denied",
					"user_id", user.ID,
					"admin_only", req.AdminOnly,
					"capability", req.Capability)
				h.WriteError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
