package attachment

import "time"

// MaxAttachmentSize caps individual files at 10MB. Oversized files in a batch
// are skipped, not fatal.
const MaxAttachmentSize = 10 * 1024 * 1024

// Attachment is a file bound to an approved travel request.
type Attachment struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	TravelRequestID int64     `json:"travel_request_id" gorm:"column:travel_request_id;not null"`
	FileName        string    `json:"file_name" gorm:"column:file_name;not null"`
	ContentType     string    `json:"content_type" gorm:"column:content_type"`
	SizeBytes       int64     `json:"size_bytes" gorm:"column:size_bytes"`
	Content         []byte    `json:"content,omitempty" gorm:"column:content"`
	UploadedByID    int64     `json:"uploaded_by_id" gorm:"column:uploaded_by_id"`
	UploadedByName  string    `json:"uploaded_by_name" gorm:"column:uploaded_by_name"`
	UploadedAt      time.Time `json:"uploaded_at" gorm:"column:uploaded_at"`
}

func (Attachment) TableName() string { return "attachments" }

// WithoutContent strips the blob for listing responses.
func (a *Attachment) WithoutContent() *Attachment {
	clone := *a
	clone.Content = nil
	return &clone
}
