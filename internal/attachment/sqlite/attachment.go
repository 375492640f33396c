package sqlite

import (
	"errors"

	internal "github.com/centrushr/hr-management/internal"
	"github.com/centrushr/hr-management/internal/attachment"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(a *attachment.Attachment) error {
	return r.db.Create(a).Error
}

func (r *Repository) GetByID(id int64) (*attachment.Attachment, error) {
	var a attachment.Attachment
	if err := r.db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAttachmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repository) ListByTravelRequest(travelRequestID int64) ([]*attachment.Attachment, error) {
	var attachments []*attachment.Attachment
	err := r.db.Where("travel_request_id = ?", travelRequestID).
		Order("uploaded_at DESC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

func (r *Repository) Delete(id int64) error {
	result := r.db.Delete(&attachment.Attachment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrAttachmentNotFound
	}
	return nil
}
