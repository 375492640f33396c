package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/centrushr/hr-management/internal/auth"
	"github.com/centrushr/hr-management/internal/core/events"
)

// UserLister enumerates users for the targeted attachment fan-out.
type UserLister interface {
	ListUsers() ([]*auth.User, error)
}

// EventHandler turns domain events into notification records. Everything here
// is best-effort: a failed notification never unwinds the operation that
// triggered it.
type EventHandler struct {
	service *Service
	users   UserLister
	logger  *slog.Logger
}

func NewEventHandler(service *Service, users UserLister, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		users:   users,
		logger:  logger,
	}
}

// RegisterSubscriptions wires the handler into the event bus.
func (h *EventHandler) RegisterSubscriptions(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeTravelRequested, h.HandleTravelRequested)
	bus.Subscribe(events.EventTypeTravelApproved, h.HandleTravelApproved)
	bus.Subscribe(events.EventTypeTravelRejected, h.HandleTravelRejected)
	bus.Subscribe(events.EventTypeDocumentUploaded, h.HandleDocumentUploaded)
	bus.Subscribe(events.EventTypeAttachmentAdded, h.HandleAttachmentAdded)
}

func (h *EventHandler) HandleTravelRequested(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.TravelRequestedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, event.EventType())
	}

	_, err := h.service.Notify(
		KindTravel,
		"Nova Solicitação de Viagem",
		fmt.Sprintf("%s solicitou uma viagem para %s", e.TravelerName, e.Destination),
		map[string]interface{}{"travel_request_id": e.TravelRequestID, "action": "travel_requested"},
		nil,
		&e.ActorID,
		e.ActorName,
	)
	return err
}

func (h *EventHandler) HandleTravelApproved(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.TravelApprovedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, event.EventType())
	}

	_, err := h.service.Notify(
		KindTravel,
		"Viagem Aprovada",
		fmt.Sprintf("A viagem de %s para %s foi aprovada", e.TravelerName, e.Destination),
		map[string]interface{}{"travel_request_id": e.TravelRequestID, "action": "travel_approved"},
		nil,
		&e.ActorID,
		e.ActorName,
	)
	return err
}

func (h *EventHandler) HandleTravelRejected(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.TravelRejectedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, event.EventType())
	}

	_, err := h.service.Notify(
		KindTravel,
		"Viagem Recusada",
		fmt.Sprintf("A viagem de %s para %s foi recusada. Motivo: %s", e.TravelerName, e.Destination, e.Reason),
		map[string]interface{}{"travel_request_id": e.TravelRequestID, "action": "travel_rejected", "reason": e.Reason},
		nil,
		&e.ActorID,
		e.ActorName,
	)
	return err
}

func (h *EventHandler) HandleDocumentUploaded(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.DocumentUploadedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, event.EventType())
	}

	_, err := h.service.Notify(
		KindDocument,
		"Novo Documento",
		fmt.Sprintf("Documento %s enviado para %s", e.Category, e.EmployeeName),
		map[string]interface{}{"document_id": e.DocumentID, "action": "document_uploaded"},
		nil,
		&e.ActorID,
		e.ActorName,
	)
	return err
}

// HandleAttachmentAdded fans out one targeted notification per user that can
// see travel attachments, excluding the uploader. Individual failures are
// logged and the fan-out continues.
func (h *EventHandler) HandleAttachmentAdded(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.AttachmentAddedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, event.EventType())
	}

	users, err := h.users.ListUsers()
	if err != nil {
		return fmt.Errorf("list users for attachment fan-out: %w", err)
	}

	message := fmt.Sprintf("%s anexou %s à viagem de %s para %s",
		e.UploaderName, e.FileName, e.TravelerName, e.Destination)

	var failed int
	for _, u := range users {
		if u.ID == e.UploaderID {
			continue
		}
		if !auth.HasCapability(u, auth.CapTravelAttachments) {
			continue
		}

		recipient := u.ID
		if _, err := h.service.Notify(
			KindAttachment,
			"Novo Anexo de Viagem",
			message,
			map[string]interface{}{"travel_request_id": e.TravelRequestID, "file_name": e.FileName, "action": "attachment_added"},
			&recipient,
			&e.UploaderID,
			e.UploaderName,
		); err != nil {
			h.logger.Error("attachment fan-out: notify failed",
				"error", err,
				"recipient_id", u.ID,
				"travel_request_id", e.TravelRequestID)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("attachment fan-out: %d notification(s) failed", failed)
	}
	return nil
}
