package attachment

import (
	"strings"

	internal "github.com/centrushr/hr-management/internal"
)

// UploadFileDTO is one file within an upload batch.
type UploadFileDTO struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

func (dto *UploadFileDTO) Validate() error {
	if strings.TrimSpace(dto.FileName) == "" {
		return internal.NewValidationFieldError("file_name", "file name is required")
	}
	if len(dto.Content) == 0 {
		return internal.NewValidationFieldError("content", "content is required")
	}
	return nil
}

// UploadBatchDTO is the payload for attaching files to a travel request.
type UploadBatchDTO struct {
	Files []UploadFileDTO `json:"files"`
}

func (dto *UploadBatchDTO) Validate() error {
	if len(dto.Files) == 0 {
		return internal.NewValidationFieldError("files", "at least one file is required")
	}
	for _, f := range dto.Files {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UploadResult reports per-file outcomes. A batch can partially succeed:
// oversized files land in Skipped while the rest are stored.
type UploadResult struct {
	Stored  []*Attachment `json:"stored"`
	Skipped []SkippedFile `json:"skipped,omitempty"`
}

type SkippedFile struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}
