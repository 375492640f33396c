package sqlite

import (
	"errors"

	internal "github.com/centrushr/hr-management/internal"
	"github.com/centrushr/hr-management/internal/employee"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateEmployee(e *employee.Employee) error {
	return r.db.Create(e).Error
}

func (r *Repository) GetEmployeeByID(id int64) (*employee.Employee, error) {
	var e employee.Employee
	if err := r.db.First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *Repository) ListEmployees() ([]*employee.Employee, error) {
	var employees []*employee.Employee
	if err := r.db.Order("name ASC").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *Repository) UpdateEmployee(e *employee.Employee) error {
	return r.db.Save(e).Error
}

// DeleteEmployee removes the employee and their personnel documents.
func (r *Repository) DeleteEmployee(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&employee.Document{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&employee.Employee{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return internal.ErrEmployeeNotFound
		}
		return nil
	})
}

func (r *Repository) CreateDocument(d *employee.Document) error {
	return r.db.Create(d).Error
}

func (r *Repository) GetDocumentByID(id int64) (*employee.Document, error) {
	var d employee.Document
	if err := r.db.First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrDocumentNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *Repository) ListDocuments(filter employee.DocumentFilter) ([]*employee.Document, error) {
	query := r.db.Model(&employee.Document{})
	if filter.EmployeeID != 0 {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Month != 0 {
		query = query.Where("month = ?", filter.Month)
	}
	if filter.Year != 0 {
		query = query.Where("year = ?", filter.Year)
	}

	var docs []*employee.Document
	if err := query.Order("uploaded_at DESC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *Repository) DeleteDocument(id int64) error {
	result := r.db.Delete(&employee.Document{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrDocumentNotFound
	}
	return nil
}

func (r *Repository) CreateCompanyDocument(d *employee.CompanyDocument) error {
	return r.db.Create(d).Error
}

func (r *Repository) GetCompanyDocumentByID(id int64) (*employee.CompanyDocument, error) {
	var d employee.CompanyDocument
	if err := r.db.First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrDocumentNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *Repository) ListCompanyDocuments(category string) ([]*employee.CompanyDocument, error) {
	query := r.db.Model(&employee.CompanyDocument{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var docs []*employee.CompanyDocument
	if err := query.Order("pinned DESC, uploaded_at DESC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *Repository) SetCompanyDocumentPinned(id int64, pinned bool) error {
	result := r.db.Model(&employee.CompanyDocument{}).Where("id = ?", id).Update("pinned", pinned)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrDocumentNotFound
	}
	return nil
}

func (r *Repository) DeleteCompanyDocument(id int64) error {
	result := r.db.Delete(&employee.CompanyDocument{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrDocumentNotFound
	}
	return nil
}
