package attachment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	internal "github.com/centrushr/hr-management/internal"
	"github.com/centrushr/hr-management/internal/auth"
	"github.com/centrushr/hr-management/internal/core/events"
	"github.com/centrushr/hr-management/internal/travel"
)

// Repository defines data access for travel attachments.
type Repository interface {
	Create(a *Attachment) error
	GetByID(id int64) (*Attachment, error)
	ListByTravelRequest(travelRequestID int64) ([]*Attachment, error)
	Delete(id int64) error
}

// TravelReader resolves the owning travel request for governance checks.
type TravelReader interface {
	GetByID(id int64) (*travel.TravelRequest, error)
}

type EmployeeDirectory interface {
	EmployeeName(id int64) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

type Service struct {
	repo      Repository
	travel    TravelReader
	directory EmployeeDirectory
	eventBus  EventPublisher
	logger    *slog.Logger
}

func NewService(repo Repository, travelReader TravelReader, directory EmployeeDirectory, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		travel:    travelReader,
		directory: directory,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// Upload attaches a batch of files to an approved travel request. Each stored
// file yields its own notification event; oversized files are skipped with a
// per-file reason instead of failing the whole batch.
func (s *Service) Upload(actor *auth.User, travelRequestID int64, dto UploadBatchDTO) (*UploadResult, error) {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapTravelAttachments}); err != nil {
		s.logger.Warn("attachment upload denied", "travel_request_id", travelRequestID)
		return nil, err
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	request, err := s.travel.GetByID(travelRequestID)
	if err != nil {
		return nil, err
	}

	if !request.IsApproved() {
		s.logger.Warn("attachment upload rejected: request not approved",
			"travel_request_id", travelRequestID,
			"status", request.Status)
		return nil, internal.ErrRequestNotApproved
	}

	travelerName := s.travelerName(request.TravelerID)

	result := &UploadResult{}
	for _, file := range dto.Files {
		if len(file.Content) > MaxAttachmentSize {
			s.logger.Warn("attachment skipped: file too large",
				"travel_request_id", travelRequestID,
				"file_name", file.FileName,
				"size_bytes", len(file.Content))
			result.Skipped = append(result.Skipped, SkippedFile{
				FileName: file.FileName,
				Reason:   fmt.Sprintf("file exceeds the %dMB limit", MaxAttachmentSize/(1024*1024)),
			})
			continue
		}

		a := &Attachment{
			TravelRequestID: travelRequestID,
			FileName:        file.FileName,
			ContentType:     file.ContentType,
			SizeBytes:       int64(len(file.Content)),
			Content:         file.Content,
			UploadedByID:    actor.ID,
			UploadedByName:  actor.Name,
			UploadedAt:      time.Now(),
		}

		if err := s.repo.Create(a); err != nil {
			s.logger.Error("failed to store attachment",
				"error", err,
				"travel_request_id", travelRequestID,
				"file_name", file.FileName)
			return nil, err
		}

		s.logger.Info("attachment stored",
			"attachment_id", a.ID,
			"travel_request_id", travelRequestID,
			"file_name", a.FileName)

		s.eventBus.Publish(context.Background(), events.NewAttachmentAddedEvent(
			travelRequestID, a.FileName, travelerName, request.Destination, actor.ID, actor.Name))

		result.Stored = append(result.Stored, a.WithoutContent())
	}

	return result, nil
}

// List returns attachment metadata for a travel request, without blobs.
func (s *Service) List(actor *auth.User, travelRequestID int64) ([]*Attachment, error) {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapTravelAttachments}); err != nil {
		return nil, err
	}

	if _, err := s.travel.GetByID(travelRequestID); err != nil {
		return nil, err
	}

	attachments, err := s.repo.ListByTravelRequest(travelRequestID)
	if err != nil {
		return nil, err
	}

	out := make([]*Attachment, len(attachments))
	for i, a := range attachments {
		out[i] = a.WithoutContent()
	}
	return out, nil
}

// Get returns one attachment including its content.
func (s *Service) Get(actor *auth.User, id int64) (*Attachment, error) {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapTravelAttachments}); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

func (s *Service) Delete(actor *auth.User, id int64) error {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapTravelAttachments}); err != nil {
		return err
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete attachment", "error", err, "attachment_id", id)
		return err
	}

	s.logger.Info("attachment deleted", "attachment_id", id, "user_id", actor.ID)
	return nil
}

func (s *Service) travelerName(travelerID int64) string {
	name, err := s.directory.EmployeeName(travelerID)
	if err != nil {
		return ""
	}
	return name
}
