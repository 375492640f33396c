package notification

import (
	"time"

	"gorm.io/datatypes"
)

const (
	KindTravel     = "travel"
	KindDocument   = "document"
	KindAttachment = "attachment"
	KindAlert      = "alert"
	KindInfo       = "info"
)

// Notification is one feed entry. A nil RecipientUserID means broadcast:
// every user sees it. The read flag is stored on the record itself, so a
// broadcast marked read is read for everyone.
type Notification struct {
	ID              int64          `json:"id" gorm:"primaryKey"`
	Kind            string         `json:"kind" gorm:"not null"`
	Title           string         `json:"title" gorm:"not null"`
	Message         string         `json:"message"`
	Read            bool           `json:"read" gorm:"column:read;default:false"`
	Payload         datatypes.JSON `json:"payload,omitempty"`
	RecipientUserID *int64         `json:"recipient_user_id,omitempty" gorm:"column:recipient_user_id"`
	ActorID         *int64         `json:"actor_id,omitempty" gorm:"column:actor_id"`
	ActorName       string         `json:"actor_name,omitempty" gorm:"column:actor_name"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// VisibleTo reports whether a user should see this notification.
func (n *Notification) VisibleTo(userID int64) bool {
	return n.RecipientUserID == nil || *n.RecipientUserID == userID
}
