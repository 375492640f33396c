package notification

import (
	"encoding/json"
	"log/slog"
	"time"

	internal "github.com/centrushr/hr-management/internal"
	"github.com/centrushr/hr-management/internal/auth"
	"gorm.io/datatypes"
)

// Repository defines data access for notifications. Visibility filtering
// (broadcast or addressed to the viewer) happens in the repository queries.
type Repository interface {
	Create(n *Notification) error
	GetByID(id int64) (*Notification, error)
	ListVisible(userID int64, limit, offset int) ([]*Notification, error)
	CountUnread(userID int64) (int64, error)
	MarkRead(id int64) error
	MarkAllRead(userID int64) error
	Delete(id int64) error
	DeleteAllVisible(userID int64) error
}

// Streamer receives every created notification for live delivery. The
// websocket hub implements it; a nil streamer is fine.
type Streamer interface {
	Broadcast(n *Notification)
}

type Service struct {
	repo     Repository
	streamer Streamer
	logger   *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// SetStreamer attaches the live feed. Called once during wiring.
func (s *Service) SetStreamer(streamer Streamer) {
	s.streamer = streamer
}

// Notify appends one notification. recipient nil means broadcast. Payload
// marshalling failures degrade to an empty payload rather than dropping the
// notification.
func (s *Service) Notify(kind, title, message string, payload map[string]interface{}, recipient *int64, actorID *int64, actorName string) (*Notification, error) {
	n := &Notification{
		Kind:            kind,
		Title:           title,
		Message:         message,
		RecipientUserID: recipient,
		ActorID:         actorID,
		ActorName:       actorName,
		CreatedAt:       time.Now(),
	}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			s.logger.Warn("notification payload marshal failed", "error", err, "title", title)
		} else {
			n.Payload = datatypes.JSON(raw)
		}
	}

	if err := s.repo.Create(n); err != nil {
		s.logger.Error("failed to create notification", "error", err, "title", title)
		return nil, err
	}

	s.logger.Info("notification created",
		"notification_id", n.ID,
		"kind", kind,
		"title", title,
		"recipient", recipientLabel(recipient))

	if s.streamer != nil {
		s.streamer.Broadcast(n)
	}

	return n, nil
}

// List returns notifications visible to the viewer, newest first.
func (s *Service) List(viewer *auth.User, limit, offset int) ([]*Notification, error) {
	return s.repo.ListVisible(viewer.ID, limit, offset)
}

func (s *Service) CountUnread(viewer *auth.User) (int64, error) {
	return s.repo.CountUnread(viewer.ID)
}

func (s *Service) MarkRead(viewer *auth.User, id int64) error {
	n, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if !n.VisibleTo(viewer.ID) {
		return internal.ErrForbidden
	}
	return s.repo.MarkRead(id)
}

func (s *Service) MarkAllRead(viewer *auth.User) error {
	return s.repo.MarkAllRead(viewer.ID)
}

func (s *Service) Delete(viewer *auth.User, id int64) error {
	n, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if !n.VisibleTo(viewer.ID) {
		return internal.ErrForbidden
	}
	return s.repo.Delete(id)
}

// DeleteAll clears every notification visible to the viewer.
func (s *Service) DeleteAll(viewer *auth.User) error {
	return s.repo.DeleteAllVisible(viewer.ID)
}

func recipientLabel(recipient *int64) interface{} {
	if recipient == nil {
		return "broadcast"
	}
	return *recipient
}
