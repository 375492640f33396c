package employee

import (
	"context"
	"log/slog"
	"time"

	"github.com/centrushr/hr-management/internal/auth"
	"github.com/centrushr/hr-management/internal/core/events"
)

// DocumentFilter narrows document listings and reports. Zero values mean
// no filtering on that axis.
type DocumentFilter struct {
	EmployeeID int64
	Category   string
	Month      int
	Year       int
}

// Repository defines data access for employees and their documents.
type Repository interface {
	CreateEmployee(e *Employee) error
	GetEmployeeByID(id int64) (*Employee, error)
	ListEmployees() ([]*Employee, error)
	UpdateEmployee(e *Employee) error
	DeleteEmployee(id int64) error

	CreateDocument(d *Document) error
	GetDocumentByID(id int64) (*Document, error)
	ListDocuments(filter DocumentFilter) ([]*Document, error)
	DeleteDocument(id int64) error

	CreateCompanyDocument(d *CompanyDocument) error
	GetCompanyDocumentByID(id int64) (*CompanyDocument, error)
	ListCompanyDocuments(category string) ([]*CompanyDocument, error)
	SetCompanyDocumentPinned(id int64, pinned bool) error
	DeleteCompanyDocument(id int64) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

type Service struct {
	repo     Repository
	eventBus EventPublisher
	logger   *slog.Logger
}

func NewService(repo Repository, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// EmployeeName implements the directory lookup used by the travel workflow.
func (s *Service) EmployeeName(id int64) (string, error) {
	e, err := s.repo.GetEmployeeByID(id)
	if err != nil {
		return "", err
	}
	return e.Name, nil
}

func (s *Service) CreateEmployee(actor *auth.User, dto CreateEmployeeDTO) (*Employee, error) {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapEmployeeCreate}); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	e := &Employee{
		Name:       dto.Name,
		CPF:        dto.CPF,
		Position:   dto.Position,
		Department: dto.Department,
		Email:      dto.Email,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.CreateEmployee(e); err != nil {
		s.logger.Error("failed to create employee", "error", err)
		return nil, err
	}

	s.logger.Info("employee created", "employee_id", e.ID, "name", e.Name)
	return e, nil
}

func (s *Service) GetEmployee(actor *auth.User, id int64) (*Employee, error) {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapEmployeeList}); err != nil {
		return nil, err
	}
	return s.repo.GetEmployeeByID(id)
}

func (s *Service) ListEmployees(actor *auth.User) ([]*Employee, error) {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapEmployeeList}); err != nil {
		return nil, err
	}
	return s.repo.ListEmployees()
}

func (s *Service) UpdateEmployee(actor *auth.User, id int64, dto UpdateEmployeeDTO) (*Employee, error) {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapEmployeeCreate}); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.GetEmployeeByID(id)
	if err != nil {
		return nil, err
	}

	e.Name = dto.Name
	e.CPF = dto.CPF
	e.Position = dto.Position
	e.Department = dto.Department
	e.Email = dto.Email
	e.UpdatedAt = time.Now()

	if err := s.repo.UpdateEmployee(e); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		return nil, err
	}

	return e, nil
}

// DeleteEmployee removes the employee together with their documents.
func (s *Service) DeleteEmployee(actor *auth.User, id int64) error {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapEmployeeCreate}); err != nil {
		return err
	}

	if _, err := s.repo.GetEmployeeByID(id); err != nil {
		return err
	}

	if err := s.repo.DeleteEmployee(id); err != nil {
		s.logger.Error("failed to delete employee", "error", err, "employee_id", id)
		return err
	}

	s.logger.Info("employee deleted", "employee_id", id, "user_id", actor.ID)
	return nil
}

// UploadDocument stores a personnel document and announces it. The month and
// year columns are stamped from upload time, matching the report filters.
func (s *Service) UploadDocument(actor *auth.User, employeeID int64, dto UploadDocumentDTO) (*Document, error) {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapEmployeeDocuments}); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.GetEmployeeByID(employeeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doc := &Document{
		EmployeeID: employeeID,
		Category:   dto.Category,
		FileName:   dto.FileName,
		SizeBytes:  int64(len(dto.Content)),
		Content:    dto.Content,
		Month:      int(now.Month()),
		Year:       now.Year(),
		StartDate:  dto.StartDate,
		EndDate:    dto.EndDate,
		UploadedAt: now,
	}

	if err := s.repo.CreateDocument(doc); err != nil {
		s.logger.Error("failed to store document", "error", err, "employee_id", employeeID)
		return nil, err
	}

	s.logger.Info("document uploaded",
		"document_id", doc.ID,
		"employee_id", employeeID,
		"category", doc.Category,
		"size_bytes", doc.SizeBytes)

	s.eventBus.Publish(context.Background(), events.NewDocumentUploadedEvent(doc.ID, e.Name, doc.Category, actor.ID, actor.Name))

	return doc.WithoutContent(), nil
}

// GetDocument returns a document including its content blob.
func (s *Service) GetDocument(actor *auth.User, id int64) (*Document, error) {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapEmployeeDocuments}); err != nil {
		return nil, err
	}
	return s.repo.GetDocumentByID(id)
}

// ListDocuments returns document metadata without content blobs.
func (s *Service) ListDocuments(actor *auth.User, filter DocumentFilter) ([]*Document, error) {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapEmployeeDocuments}); err != nil {
		return nil, err
	}

	docs, err := s.repo.ListDocuments(filter)
	if err != nil {
		return nil, err
	}

	out := make([]*Document, len(docs))
	for i, d := range docs {
		out[i] = d.WithoutContent()
	}
	return out, nil
}

func (s *Service) DeleteDocument(actor *auth.User, id int64) error {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapEmployeeDocuments}); err != nil {
		return err
	}

	if _, err := s.repo.GetDocumentByID(id); err != nil {
		return err
	}

	return s.repo.DeleteDocument(id)
}

// DocumentReport returns metadata about documents across all employees,
// filtered by period and category. Requires the reports capability.
func (s *Service) DocumentReport(actor *auth.User, filter DocumentFilter) ([]*Document, error) {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapReports}); err != nil {
		return nil, err
	}

	docs, err := s.repo.ListDocuments(filter)
	if err != nil {
		return nil, err
	}

	out := make([]*Document, len(docs))
	for i, d := range docs {
		out[i] = d.WithoutContent()
	}
	return out, nil
}

func (s *Service) UploadCompanyDocument(actor *auth.User, dto UploadCompanyDocumentDTO) (*CompanyDocument, error) {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapCompanyDocuments}); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.EmployeeID != nil {
		if _, err := s.repo.GetEmployeeByID(*dto.EmployeeID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	doc := &CompanyDocument{
		EmployeeID: dto.EmployeeID,
		Category:   dto.Category,
		FileName:   dto.FileName,
		SizeBytes:  int64(len(dto.Content)),
		Content:    dto.Content,
		Month:      int(now.Month()),
		Year:       now.Year(),
		Pinned:     dto.Pinned,
		UploadedAt: now,
	}

	if err := s.repo.CreateCompanyDocument(doc); err != nil {
		s.logger.Error("failed to store company document", "error", err)
		return nil, err
	}

	s.logger.Info("company document uploaded", "document_id", doc.ID, "category", doc.Category)
	return doc.WithoutContent(), nil
}

func (s *Service) GetCompanyDocument(actor *auth.User, id int64) (*CompanyDocument, error) {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapCompanyDocuments}); err != nil {
		return nil, err
	}
	return s.repo.GetCompanyDocumentByID(id)
}

// ListCompanyDocuments returns company documents, pinned first.
func (s *Service) ListCompanyDocuments(actor *auth.User, category string) ([]*CompanyDocument, error) {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapCompanyDocuments}); err != nil {
		return nil, err
	}

	docs, err := s.repo.ListCompanyDocuments(category)
	if err != nil {
		return nil, err
	}

	out := make([]*CompanyDocument, len(docs))
	for i, d := range docs {
		out[i] = d.WithoutContent()
	}
	return out, nil
}

func (s *Service) SetCompanyDocumentPinned(actor *auth.User, id int64, pinned bool) error {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapCompanyDocuments}); err != nil {
		return err
	}

	if _, err := s.repo.GetCompanyDocumentByID(id); err != nil {
		return err
	}

	return s.repo.SetCompanyDocumentPinned(id, pinned)
}

func (s *Service) DeleteCompanyDocument(actor *auth.User, id int64) error {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapCompanyDocuments}); err != nil {
		return err
	}

	if _, err := s.repo.GetCompanyDocumentByID(id); err != nil {
		return err
	}

	return s.repo.DeleteCompanyDocument(id)
}
