package employee

import "time"

// MaxDocumentSize caps uploaded files at 10MB, same as travel attachments.
const MaxDocumentSize = 10 * 1024 * 1024

// Employee is a staff record. CPF is stored as typed, validation only checks
// the digit count.
type Employee struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	CPF        string    `json:"cpf"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Employee) TableName() string { return "employees" }

// Document is a categorized personnel file stored inline. Content is held as
// a blob and base64-encoded over the wire.
type Document struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	EmployeeID int64     `json:"employee_id" gorm:"column:employee_id;not null"`
	Category   string    `json:"category" gorm:"not null"`
	FileName   string    `json:"file_name" gorm:"column:file_name;not null"`
	SizeBytes  int64     `json:"size_bytes" gorm:"column:size_bytes"`
	Content    []byte    `json:"content,omitempty" gorm:"column:content"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	StartDate  *string   `json:"start_date,omitempty" gorm:"column:start_date"`
	EndDate    *string   `json:"end_date,omitempty" gorm:"column:end_date"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"column:uploaded_at"`
}

func (Document) TableName() string { return "documents" }

// WithoutContent returns a listing projection that leaves the blob behind.
func (d *Document) WithoutContent() *Document {
	clone := *d
	clone.Content = nil
	return &clone
}

// CompanyDocument is a company-wide file such as a benefits form. Pinned
// documents sort first in listings.
type CompanyDocument struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	EmployeeID *int64    `json:"employee_id,omitempty" gorm:"column:employee_id"`
	Category   string    `json:"category" gorm:"not null"`
	FileName   string    `json:"file_name" gorm:"column:file_name;not null"`
	SizeBytes  int64     `json:"size_bytes" gorm:"column:size_bytes"`
	Content    []byte    `json:"content,omitempty" gorm:"column:content"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	Pinned     bool      `json:"pinned"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"column:uploaded_at"`
}

func (CompanyDocument) TableName() string { return "company_documents" }

func (d *CompanyDocument) WithoutContent() *CompanyDocument {
	clone := *d
	clone.Content = nil
	return &clone
}

// DocumentCategories is the personnel document catalog the frontend offers.
var DocumentCategories = []string{
	"Abono de Assiduidade",
	"Atestado Médico",
	"Atestado de Comparecimento",
	"Férias",
	"Ajuste de Ponto",
	"Licença Maternidade/Paternidade",
	"Licença Nojo",
	"Licença Gala",
	"Justica Eleitoral",
	"Doação de Sangue",
}

// CompanyDocumentCategories is the company-wide document catalog.
var CompanyDocumentCategories = []string{
	"Inclusão do Convênio",
	"Exclusão do Convênio",
	"Passagens Aéreas",
}
