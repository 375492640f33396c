package sqlite

import (
	"errors"

	internal "github.com/centrushr/hr-management/internal"
	"github.com/centrushr/hr-management/internal/travel"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(request *travel.TravelRequest) error {
	return r.db.Create(request).Error
}

func (r *Repository) GetByID(id int64) (*travel.TravelRequest, error) {
	var request travel.TravelRequest
	if err := r.db.First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrTravelNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *Repository) List(status string, limit, offset int) ([]*travel.TravelRequest, error) {
	query := r.db.Model(&travel.TravelRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []*travel.TravelRequest
	err := query.Order("requested_at DESC").Limit(limit).Offset(offset).Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *Repository) Update(request *travel.TravelRequest) error {
	return r.db.Save(request).Error
}

// Delete removes the request together with its attachments.
func (r *Repository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM attachments WHERE travel_request_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&travel.TravelRequest{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return internal.ErrTravelNotFound
		}
		return nil
	})
}
