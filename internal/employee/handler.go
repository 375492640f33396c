package employee

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/centrushr/hr-management/internal/auth"
	"github.com/centrushr/hr-management/internal/transport"
	"github.com/centrushr/hr-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateEmployee(actor *auth.User, dto CreateEmployeeDTO) (*Employee, error)
	GetEmployee(actor *auth.User, id int64) (*Employee, error)
	ListEmployees(actor *auth.User) ([]*Employee, error)
	UpdateEmployee(actor *auth.User, id int64, dto UpdateEmployeeDTO) (*Employee, error)
	DeleteEmployee(actor *auth.User, id int64) error

	UploadDocument(actor *auth.User, employeeID int64, dto UploadDocumentDTO) (*Document, error)
	GetDocument(actor *auth.User, id int64) (*Document, error)
	ListDocuments(actor *auth.User, filter DocumentFilter) ([]*Document, error)
	DeleteDocument(actor *auth.User, id int64) error
	DocumentReport(actor *auth.User, filter DocumentFilter) ([]*Document, error)

	UploadCompanyDocument(actor *auth.User, dto UploadCompanyDocumentDTO) (*CompanyDocument, error)
	GetCompanyDocument(actor *auth.User, id int64) (*CompanyDocument, error)
	ListCompanyDocuments(actor *auth.User, category string) ([]*CompanyDocument, error)
	SetCompanyDocumentPinned(actor *auth.User, id int64, pinned bool) error
	DeleteCompanyDocument(actor *auth.User, id int64) error
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

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.CreateEmployee(user, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	e, err := h.Service.GetEmployee(user, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	employees, err := h.Service.ListEmployees(user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"employees": employees})
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	var dto UpdateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.UpdateEmployee(user, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	if err := h.Service.DeleteEmployee(user, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "employee deleted"})
}

func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	employeeID, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	var dto UploadDocumentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.Service.UploadDocument(user, employeeID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "docID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	doc, err := h.Service.GetDocument(user, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	employeeID, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	filter := documentFilterFromQuery(r)
	filter.EmployeeID = employeeID

	docs, err := h.Service.ListDocuments(user, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "docID")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	if err := h.Service.DeleteDocument(user, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "document deleted"})
}

func (h *Handler) DocumentReport(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	docs, err := h.Service.DocumentReport(user, documentFilterFromQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

// DocumentReportCSV streams the report as a CSV download.
func (h *Handler) DocumentReportCSV(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	docs, err := h.Service.DocumentReport(user, documentFilterFromQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="document_report.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"employee_id", "category", "file_name", "month", "year", "uploaded_at", "size_bytes"})
	for _, d := range docs {
		_ = cw.Write([]string{
			strconv.FormatInt(d.EmployeeID, 10),
			d.Category,
			d.FileName,
			strconv.Itoa(d.Month),
			strconv.Itoa(d.Year),
			d.UploadedAt.Format("2006-01-02 15:04:05"),
			strconv.FormatInt(d.SizeBytes, 10),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.Logger.Error("DocumentReportCSV: write failed", "error", err)
	}
}

func (h *Handler) UploadCompanyDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UploadCompanyDocumentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.Service.UploadCompanyDocument(user, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) GetCompanyDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	doc, err := h.Service.GetCompanyDocument(user, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) ListCompanyDocuments(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	docs, err := h.Service.ListCompanyDocuments(user, r.URL.Query().Get("category"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

func (h *Handler) PinCompanyDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	var body struct {
		Pinned bool `json:"pinned"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.SetCompanyDocumentPinned(user, id, body.Pinned); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"id": id, "pinned": body.Pinned})
}

func (h *Handler) DeleteCompanyDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	if err := h.Service.DeleteCompanyDocument(user, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "company document deleted"})
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

func documentFilterFromQuery(r *http.Request) DocumentFilter {
	filter := DocumentFilter{Category: r.URL.Query().Get("category")}
	if m, err := strconv.Atoi(r.URL.Query().Get("month")); err == nil && m >= 1 && m <= 12 {
		filter.Month = m
	}
	if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && y > 0 {
		filter.Year = y
	}
	return filter
}
