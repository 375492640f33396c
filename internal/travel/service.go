package travel

import (
	"context"
	"errors"
	"log/slog"
	"time"

	internal "github.com/centrushr/hr-management/internal"
	"github.com/centrushr/hr-management/internal/auth"
	"github.com/centrushr/hr-management/internal/core/events"
)

// Repository defines the data access methods for travel requests.
type Repository interface {
	Create(request *TravelRequest) error
	GetByID(id int64) (*TravelRequest, error)
	List(status string, limit, offset int) ([]*TravelRequest, error)
	Update(request *TravelRequest) error
	Delete(id int64) error
}

// EmployeeDirectory resolves employee names for notifications.
type EmployeeDirectory interface {
	EmployeeName(id int64) (string, error)
}

// EventPublisher decouples the workflow from the notification fan-out.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

type Service struct {
	repo      Repository
	directory EmployeeDirectory
	eventBus  EventPublisher
	logger    *slog.Logger
}

func NewService(repo Repository, directory EmployeeDirectory, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// CreateRequest opens a new travel request in PENDING status and announces it.
func (s *Service) CreateRequest(actor *auth.User, dto CreateTravelRequestDTO) (*TravelRequest, error) {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapTravelRequests, Travel: auth.TravelCreate}); err != nil {
		s.logger.Warn("create travel request denied", "user_id", s.actorID(actor))
		return nil, err
	}

	if err := dto.Validate(); err != nil {
		s.logger.Error("travel request validation failed", "error", err, "user_id", actor.ID)
		return nil, err
	}

	travelerName, err := s.directory.EmployeeName(dto.TravelerID)
	if err != nil {
		s.logger.Error("traveler lookup failed", "error", err, "traveler_id", dto.TravelerID)
		return nil, internal.ErrEmployeeNotFound
	}

	now := time.Now()
	request := &TravelRequest{
		RequesterID:       actor.ID,
		TravelerID:        dto.TravelerID,
		Origin:            dto.Origin,
		Destination:       dto.Destination,
		DepartDate:        dto.DepartDate,
		DepartWindowStart: dto.DepartWindowStart,
		DepartWindowEnd:   dto.DepartWindowEnd,
		ReturnDate:        dto.ReturnDate,
		ReturnWindowStart: dto.ReturnWindowStart,
		ReturnWindowEnd:   dto.ReturnWindowEnd,
		Justification:     dto.Justification,
		Note:              dto.Note,
		Status:            StatusPending,
		RequestedAt:       now,
		CreatedByID:       &actor.ID,
		CreatedByName:     &actor.Name,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(request); err != nil {
		s.logger.Error("failed to create travel request", "error", err, "user_id", actor.ID)
		return nil, err
	}

	s.logger.Info("travel request created",
		"travel_request_id", request.ID,
		"traveler_id", request.TravelerID,
		"destination", request.Destination)

	s.eventBus.Publish(context.Background(), events.NewTravelRequestedEvent(request.ID, travelerName, request.Destination, actor.ID, actor.Name))

	return request, nil
}

// GetByID returns a single travel request.
func (s *Service) GetByID(actor *auth.User, id int64) (*TravelRequest, error) {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapTravelRequests}); err != nil {
		return nil, err
	}
	return s.getRequest(id)
}

// ListRequests returns travel requests, optionally filtered by status.
func (s *Service) ListRequests(actor *auth.User, status string, limit, offset int) ([]*TravelRequest, error) {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapTravelRequests}); err != nil {
		return nil, err
	}

	if status != "" && status != StatusPending && status != StatusApproved && status != StatusRejected {
		return nil, internal.NewValidationFieldError("status", "unknown status filter")
	}

	requests, err := s.repo.List(status, limit, offset)
	if err != nil {
		s.logger.Error("failed to list travel requests", "error", err)
		return nil, err
	}
	return requests, nil
}

// ApproveRequest moves a PENDING request to APPROVED, stamping who did it and when.
func (s *Service) ApproveRequest(actor *auth.User, id int64) (*TravelRequest, error) {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapTravelRequests, Travel: auth.TravelApprove}); err != nil {
		s.logger.Warn("approve travel request denied", "travel_request_id", id, "user_id", s.actorID(actor))
		return nil, err
	}

	request, err := s.getRequest(id)
	if err != nil {
		return nil, err
	}

	if !request.CanBeApproved() {
		s.logger.Warn("cannot approve travel request in current status",
			"travel_request_id", id,
			"current_status", request.Status)
		return nil, internal.ErrInvalidTravelStatus
	}

	request.Approve(actor.ID, actor.Name)

	if err := s.repo.Update(request); err != nil {
		s.logger.Error("failed to approve travel request", "error", err, "travel_request_id", id)
		return nil, err
	}

	s.logger.Info("travel request approved", "travel_request_id", id, "approver_id", actor.ID)

	s.eventBus.Publish(context.Background(), events.NewTravelApprovedEvent(request.ID, s.travelerName(request), request.Destination, actor.ID, actor.Name))

	return request, nil
}

// RejectRequest moves a PENDING request to REJECTED. The reason is mandatory.
func (s *Service) RejectRequest(actor *auth.User, id int64, dto RejectTravelRequestDTO) (*TravelRequest, error) {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapTravelRequests, Travel: auth.TravelApprove}); err != nil {
		s.logger.Warn("reject travel request denied", "travel_request_id", id, "user_id", s.actorID(actor))
		return nil, err
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	request, err := s.getRequest(id)
	if err != nil {
		return nil, err
	}

	if !request.CanBeRejected() {
		s.logger.Warn("cannot reject travel request in current status",
			"travel_request_id", id,
			"current_status", request.Status)
		return nil, internal.ErrInvalidTravelStatus
	}

	request.Reject(actor.ID, actor.Name, dto.Reason)

	if err := s.repo.Update(request); err != nil {
		s.logger.Error("failed to reject travel request", "error", err, "travel_request_id", id)
		return nil, err
	}

	s.logger.Info("travel request rejected", "travel_request_id", id, "rejecter_id", actor.ID)

	s.eventBus.Publish(context.Background(), events.NewTravelRejectedEvent(request.ID, s.travelerName(request), request.Destination, dto.Reason, actor.ID, actor.Name))

	return request, nil
}

// DeleteRequest removes a travel request and its attachments via cascade.
func (s *Service) DeleteRequest(actor *auth.User, id int64) error {
	if err := auth.Authorize(actor, auth.Requirement{Capability: auth.CapTravelRequests, Travel: auth.TravelDelete}); err != nil {
		s.logger.Warn("delete travel request denied", "travel_request_id", id, "user_id", s.actorID(actor))
		return err
	}

	if _, err := s.getRequest(id); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete travel request", "error", err, "travel_request_id", id)
		return err
	}

	s.logger.Info("travel request deleted", "travel_request_id", id, "user_id", actor.ID)
	return nil
}

func (s *Service) getRequest(id int64) (*TravelRequest, error) {
	request, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, internal.ErrTravelNotFound) {
			return nil, internal.ErrTravelNotFound
		}
		s.logger.Error("failed to get travel request", "error", err, "travel_request_id", id)
		return nil, err
	}
	return request, nil
}

// travelerName resolves the traveler for notification text. Lookup failures
// fall back to an empty name rather than blocking the workflow.
func (s *Service) travelerName(request *TravelRequest) string {
	name, err := s.directory.EmployeeName(request.TravelerID)
	if err != nil {
		s.logger.Warn("traveler lookup failed for notification", "traveler_id", request.TravelerID)
		return ""
	}
	return name
}

func (s *Service) actorID(actor *auth.User) int64 {
	if actor == nil {
		return 0
	}
	return actor.ID
}
