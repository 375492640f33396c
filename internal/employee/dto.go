package employee

import (
	"strings"

	internal "github.com/centrushr/hr-management/internal"
)

type CreateEmployeeDTO struct {
	Name       string `json:"name"`
	CPF        string `json:"cpf"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Email      string `json:"email"`
}

func (dto *CreateEmployeeDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return internal.NewValidationFieldError("name", "name is required")
	}
	if dto.CPF != "" && len(digitsOnly(dto.CPF)) != 11 {
		return internal.NewValidationFieldError("cpf", "cpf must have 11 digits")
	}
	return nil
}

type UpdateEmployeeDTO struct {
	Name       string `json:"name"`
	CPF        string `json:"cpf"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Email      string `json:"email"`
}

func (dto *UpdateEmployeeDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return internal.NewValidationFieldError("name", "name is required")
	}
	if dto.CPF != "" && len(digitsOnly(dto.CPF)) != 11 {
		return internal.NewValidationFieldError("cpf", "cpf must have 11 digits")
	}
	return nil
}

// UploadDocumentDTO carries one personnel document. Content arrives base64
// encoded through the JSON []byte convention.
type UploadDocumentDTO struct {
	Category  string  `json:"category"`
	FileName  string  `json:"file_name"`
	Content   []byte  `json:"content"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

func (dto *UploadDocumentDTO) Validate() error {
	if strings.TrimSpace(dto.Category) == "" {
		return internal.NewValidationFieldError("category", "category is required")
	}
	if strings.TrimSpace(dto.FileName) == "" {
		return internal.NewValidationFieldError("file_name", "file name is required")
	}
	if len(dto.Content) == 0 {
		return internal.NewValidationFieldError("content", "content is required")
	}
	if len(dto.Content) > MaxDocumentSize {
		return internal.ErrFileTooLarge
	}
	return nil
}

type UploadCompanyDocumentDTO struct {
	EmployeeID *int64 `json:"employee_id,omitempty"`
	Category   string `json:"category"`
	FileName   string `json:"file_name"`
	Content    []byte `json:"content"`
	Pinned     bool   `json:"pinned"`
}

func (dto *UploadCompanyDocumentDTO) Validate() error {
	if strings.TrimSpace(dto.Category) == "" {
		return internal.NewValidationFieldError("category", "category is required")
	}
	if strings.TrimSpace(dto.FileName) == "" {
		return internal.NewValidationFieldError("file_name", "file name is required")
	}
	if len(dto.Content) == 0 {
		return internal.NewValidationFieldError("content", "content is required")
	}
	if len(dto.Content) > MaxDocumentSize {
		return internal.ErrFileTooLarge
	}
	return nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
