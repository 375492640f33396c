package sqlite

import (
	"errors"

	internal "github.com/centrushr/hr-management/internal"
	"github.com/centrushr/hr-management/internal/notification"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(n *notification.Notification) error {
	return r.db.Create(n).Error
}

func (r *Repository) GetByID(id int64) (*notification.Notification, error) {
	var n notification.Notification
	if err := r.db.First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *Repository) ListVisible(userID int64, limit, offset int) ([]*notification.Notification, error) {
	var notifications []*notification.Notification
	err := r.db.
		Where("recipient_user_id IS NULL OR recipient_user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *Repository) CountUnread(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&notification.Notification{}).
		Where("read = ? AND (recipient_user_id IS NULL OR recipient_user_id = ?)", false, userID).
		Count(&count).Error
	return count, err
}

func (r *Repository) MarkRead(id int64) error {
	result := r.db.Model(&notification.Notification{}).Where("id = ?", id).Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrNotificationNotFound
	}
	return nil
}

func (r *Repository) MarkAllRead(userID int64) error {
	return r.db.Model(&notification.Notification{}).
		Where("read = ? AND (recipient_user_id IS NULL OR recipient_user_id = ?)", false, userID).
		Update("read", true).Error
}

func (r *Repository) Delete(id int64) error {
	result := r.db.Delete(&notification.Notification{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrNotificationNotFound
	}
	return nil
}

func (r *Repository) DeleteAllVisible(userID int64) error {
	return r.db.
		Where("recipient_user_id IS NULL OR recipient_user_id = ?", userID).
		Delete(&notification.Notification{}).Error
}
