package employee_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/centrushr/hr-management/internal"
	"github.com/centrushr/hr-management/internal/auth"
	"github.com/centrushr/hr-management/internal/core/events"
	"github.com/centrushr/hr-management/internal/employee"
)

type mockEmployeeRepository struct {
	employees    map[int64]*employee.Employee
	documents    map[int64]*employee.Document
	companyDocs  map[int64]*employee.CompanyDocument
	nextID       int64
	createError  error
	getError     error
	deleteError  error
	listDocError error
}

func newMockEmployeeRepository() *mockEmployeeRepository {
	return &mockEmployeeRepository{
		employees:   make(map[int64]*employee.Employee),
		documents:   make(map[int64]*employee.Document),
		companyDocs: make(map[int64]*employee.CompanyDocument),
		nextID:      1,
	}
}

func (m *mockEmployeeRepository) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *mockEmployeeRepository) addEmployee(e *employee.Employee) *employee.Employee {
	e.ID = m.id()
	m.employees[e.ID] = e
	return e
}

func (m *mockEmployeeRepository) CreateEmployee(e *employee.Employee) error {
	if m.createError != nil {
		return m.createError
	}
	m.addEmployee(e)
	return nil
}

func (m *mockEmployeeRepository) GetEmployeeByID(id int64) (*employee.Employee, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	e, ok := m.employees[id]
	if !ok {
		return nil, internal.ErrEmployeeNotFound
	}
	return e, nil
}

func (m *mockEmployeeRepository) ListEmployees() ([]*employee.Employee, error) {
	out := make([]*employee.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e)
	}
	return out, nil
}

func (m *mockEmployeeRepository) UpdateEmployee(e *employee.Employee) error {
	m.employees[e.ID] = e
	return nil
}

func (m *mockEmployeeRepository) DeleteEmployee(id int64) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	delete(m.employees, id)
	for docID, d := range m.documents {
		if d.EmployeeID == id {
			delete(m.documents, docID)
		}
	}
	return nil
}

func (m *mockEmployeeRepository) CreateDocument(d *employee.Document) error {
	if m.createError != nil {
		return m.createError
	}
	d.ID = m.id()
	m.documents[d.ID] = d
	return nil
}

func (m *mockEmployeeRepository) GetDocumentByID(id int64) (*employee.Document, error) {
	d, ok := m.documents[id]
	if !ok {
		return nil, internal.ErrDocumentNotFound
	}
	return d, nil
}

func (m *mockEmployeeRepository) ListDocuments(filter employee.DocumentFilter) ([]*employee.Document, error) {
	if m.listDocError != nil {
		return nil, m.listDocError
	}
	var out []*employee.Document
	for _, d := range m.documents {
		if filter.EmployeeID != 0 && d.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Category != "" && d.Category != filter.Category {
			continue
		}
		if filter.Month != 0 && d.Month != filter.Month {
			continue
		}
		if filter.Year != 0 && d.Year != filter.Year {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *mockEmployeeRepository) DeleteDocument(id int64) error {
	delete(m.documents, id)
	return nil
}

func (m *mockEmployeeRepository) CreateCompanyDocument(d *employee.CompanyDocument) error {
	d.ID = m.id()
	m.companyDocs[d.ID] = d
	return nil
}

func (m *mockEmployeeRepository) GetCompanyDocumentByID(id int64) (*employee.CompanyDocument, error) {
	d, ok := m.companyDocs[id]
	if !ok {
		return nil, internal.ErrDocumentNotFound
	}
	return d, nil
}

func (m *mockEmployeeRepository) ListCompanyDocuments(category string) ([]*employee.CompanyDocument, error) {
	var out []*employee.CompanyDocument
	for _, d := range m.companyDocs {
		if category == "" || d.Category == category {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockEmployeeRepository) SetCompanyDocumentPinned(id int64, pinned bool) error {
	d, ok := m.companyDocs[id]
	if !ok {
		return internal.ErrDocumentNotFound
	}
	d.Pinned = pinned
	return nil
}

func (m *mockEmployeeRepository) DeleteCompanyDocument(id int64) error {
	delete(m.companyDocs, id)
	return nil
}

type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) {
	m.published = append(m.published, event)
}

var _ = Describe("EmployeeService", func() {
	var (
		mockRepo  *mockEmployeeRepository
		publisher *mockPublisher
		service   *employee.Service
		hrUser    *auth.User
		reporter  *auth.User
	)

	BeforeEach(func() {
		mockRepo = newMockEmployeeRepository()
		publisher = &mockPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = employee.NewService(mockRepo, publisher, logger)

		hrUser = &auth.User{
			ID:       1,
			Name:     "Carlos Lima",
			Role:     auth.RoleStandard,
			IsActive: true,
			Permissions: []string{
				auth.CapEmployeeList,
				auth.CapEmployeeCreate,
				auth.CapEmployeeDocuments,
				auth.CapCompanyDocuments,
			},
		}
		reporter = &auth.User{
			ID:          2,
			Name:        "Ana Prado",
			Role:        auth.RoleStandard,
			IsActive:    true,
			Permissions: []string{auth.CapReports},
		}
	})

	Describe("CreateEmployee", func() {
		It("should persist a valid employee", func() {
			e, err := service.CreateEmployee(hrUser, employee.CreateEmployeeDTO{
				Name:       "Maria Souza",
				CPF:        "123.456.789-01",
				Position:   "Analista",
				Department: "Financeiro",
				Email:      "maria@centrus.com",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(e.ID).NotTo(BeZero())
			Expect(mockRepo.employees).To(HaveKey(e.ID))
		})

		It("should accept a formatted CPF with 11 digits", func() {
			_, err := service.CreateEmployee(hrUser, employee.CreateEmployeeDTO{
				Name: "Maria Souza",
				CPF:  "123.456.789-01",
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject a CPF with the wrong digit count", func() {
			_, err := service.CreateEmployee(hrUser, employee.CreateEmployeeDTO{
				Name: "Maria Souza",
				CPF:  "123.456-78",
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should require the create capability", func() {
			_, err := service.CreateEmployee(reporter, employee.CreateEmployeeDTO{Name: "Maria"})
			Expect(err).To(MatchError(internal.ErrForbidden))
		})
	})

	Describe("EmployeeName", func() {
		It("should resolve the directory lookup", func() {
			e := mockRepo.addEmployee(&employee.Employee{Name: "Maria Souza"})

			name, err := service.EmployeeName(e.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("Maria Souza"))
		})

		It("should surface employee not found", func() {
			_, err := service.EmployeeName(404)
			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
		})
	})

	Describe("UploadDocument", func() {
		var target *employee.Employee

		BeforeEach(func() {
			target = mockRepo.addEmployee(&employee.Employee{Name: "Maria Souza"})
		})

		It("should stamp month and year and strip the blob from the response", func() {
			doc, err := service.UploadDocument(hrUser, target.ID, employee.UploadDocumentDTO{
				Category: "Atestado Médico",
				FileName: "atestado.pdf",
				Content:  []byte("pdf bytes"),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Month).To(BeNumerically(">=", 1))
			Expect(doc.Month).To(BeNumerically("<=", 12))
			Expect(doc.Year).NotTo(BeZero())
			Expect(doc.Content).To(BeNil())
			Expect(mockRepo.documents[doc.ID].Content).NotTo(BeEmpty())
		})

		It("should publish a document uploaded event", func() {
			_, err := service.UploadDocument(hrUser, target.ID, employee.UploadDocumentDTO{
				Category: "Férias",
				FileName: "ferias.pdf",
				Content:  []byte("pdf"),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(publisher.published).To(HaveLen(1))

			event, ok := publisher.published[0].(*events.DocumentUploadedEvent)
			Expect(ok).To(BeTrue())
			Expect(event.EmployeeName).To(Equal("Maria Souza"))
			Expect(event.Category).To(Equal("Férias"))
		})

		It("should reject a file over the 10MB cap", func() {
			oversized := bytes.Repeat([]byte("x"), employee.MaxDocumentSize+1)

			_, err := service.UploadDocument(hrUser, target.ID, employee.UploadDocumentDTO{
				Category: "Férias",
				FileName: "gigante.pdf",
				Content:  oversized,
			})

			Expect(err).To(MatchError(internal.ErrFileTooLarge))
			Expect(mockRepo.documents).To(BeEmpty())
			Expect(publisher.published).To(BeEmpty())
		})

		It("should surface an unknown employee", func() {
			_, err := service.UploadDocument(hrUser, 404, employee.UploadDocumentDTO{
				Category: "Férias",
				FileName: "ferias.pdf",
				Content:  []byte("pdf"),
			})

			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
		})
	})

	Describe("ListDocuments", func() {
		BeforeEach(func() {
			e := mockRepo.addEmployee(&employee.Employee{Name: "Maria Souza"})
			_, err := service.UploadDocument(hrUser, e.ID, employee.UploadDocumentDTO{
				Category: "Atestado Médico",
				FileName: "a.pdf",
				Content:  []byte("a"),
			})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.UploadDocument(hrUser, e.ID, employee.UploadDocumentDTO{
				Category: "Férias",
				FileName: "b.pdf",
				Content:  []byte("b"),
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should filter by category without blobs", func() {
			docs, err := service.ListDocuments(hrUser, employee.DocumentFilter{Category: "Férias"})

			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(1))
			Expect(docs[0].FileName).To(Equal("b.pdf"))
			Expect(docs[0].Content).To(BeNil())
		})
	})

	Describe("DocumentReport", func() {
		BeforeEach(func() {
			e := mockRepo.addEmployee(&employee.Employee{Name: "Maria Souza"})
			_, err := service.UploadDocument(hrUser, e.ID, employee.UploadDocumentDTO{
				Category: "Atestado Médico",
				FileName: "a.pdf",
				Content:  []byte("a"),
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should require the reports capability", func() {
			_, err := service.DocumentReport(hrUser, employee.DocumentFilter{})
			Expect(err).To(MatchError(internal.ErrForbidden))

			docs, err := service.DocumentReport(reporter, employee.DocumentFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(1))
		})
	})

	Describe("DeleteEmployee", func() {
		It("should remove the employee together with their documents", func() {
			e := mockRepo.addEmployee(&employee.Employee{Name: "Maria Souza"})
			_, err := service.UploadDocument(hrUser, e.ID, employee.UploadDocumentDTO{
				Category: "Férias",
				FileName: "f.pdf",
				Content:  []byte("f"),
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteEmployee(hrUser, e.ID)).To(Succeed())
			Expect(mockRepo.employees).To(BeEmpty())
			Expect(mockRepo.documents).To(BeEmpty())
		})
	})

	Describe("Company documents", func() {
		It("should store and pin a company document", func() {
			doc, err := service.UploadCompanyDocument(hrUser, employee.UploadCompanyDocumentDTO{
				Category: "Passagens Aéreas",
				FileName: "bilhete.pdf",
				Content:  []byte("pdf"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Pinned).To(BeFalse())

			Expect(service.SetCompanyDocumentPinned(hrUser, doc.ID, true)).To(Succeed())
			Expect(mockRepo.companyDocs[doc.ID].Pinned).To(BeTrue())
		})

		It("should verify the linked employee when one is given", func() {
			missing := int64(404)

			_, err := service.UploadCompanyDocument(hrUser, employee.UploadCompanyDocumentDTO{
				EmployeeID: &missing,
				Category:   "Inclusão do Convênio",
				FileName:   "convenio.pdf",
				Content:    []byte("pdf"),
			})

			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
		})
	})
})
