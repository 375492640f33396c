package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeTravelRequested  = "travel.requested"
	EventTypeTravelApproved   = "travel.approved"
	EventTypeTravelRejected   = "travel.rejected"
	EventTypeDocumentUploaded = "document.uploaded"
	EventTypeAttachmentAdded  = "attachment.added"
)

type TravelRequestedEvent struct {
	BaseEvent
	TravelRequestID int64  `json:"travel_request_id"`
	TravelerName    string `json:"traveler_name"`
	Destination     string `json:"destination"`
	ActorID         int64  `json:"actor_id"`
	ActorName       string `json:"actor_name"`
}

func NewTravelRequestedEvent(requestID int64, travelerName, destination string, actorID int64, actorName string) *TravelRequestedEvent {
	return &TravelRequestedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTravelRequested,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"travel_request_id": requestID,
				"traveler_name":     travelerName,
				"destination":       destination,
			},
		},
		TravelRequestID: requestID,
		TravelerName:    travelerName,
		Destination:     destination,
		ActorID:         actorID,
		ActorName:       actorName,
	}
}

type TravelApprovedEvent struct {
	BaseEvent
	TravelRequestID int64  `json:"travel_request_id"`
	TravelerName    string `json:"traveler_name"`
	Destination     string `json:"destination"`
	ActorID         int64  `json:"actor_id"`
	ActorName       string `json:"actor_name"`
}

func NewTravelApprovedEvent(requestID int64, travelerName, destination string, actorID int64, actorName string) *TravelApprovedEvent {
	return &TravelApprovedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTravelApproved,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"travel_request_id": requestID,
				"traveler_name":     travelerName,
				"destination":       destination,
			},
		},
		TravelRequestID: requestID,
		TravelerName:    travelerName,
		Destination:     destination,
		ActorID:         actorID,
		ActorName:       actorName,
	}
}

type TravelRejectedEvent struct {
	BaseEvent
	TravelRequestID int64  `json:"travel_request_id"`
	TravelerName    string `json:"traveler_name"`
	Destination     string `json:"destination"`
	Reason          string `json:"reason"`
	ActorID         int64  `json:"actor_id"`
	ActorName       string `json:"actor_name"`
}

func NewTravelRejectedEvent(requestID int64, travelerName, destination, reason string, actorID int64, actorName string) *TravelRejectedEvent {
	return &TravelRejectedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTravelRejected,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"travel_request_id": requestID,
				"traveler_name":     travelerName,
				"destination":       destination,
				"reason":            reason,
			},
		},
		TravelRequestID: requestID,
		TravelerName:    travelerName,
		Destination:     destination,
		Reason:          reason,
		ActorID:         actorID,
		ActorName:       actorName,
	}
}

type DocumentUploadedEvent struct {
	BaseEvent
	DocumentID   int64  `json:"document_id"`
	EmployeeName string `json:"employee_name"`
	Category     string `json:"category"`
	ActorID      int64  `json:"actor_id"`
	ActorName    string `json:"actor_name"`
}

func NewDocumentUploadedEvent(documentID int64, employeeName, category string, actorID int64, actorName string) *DocumentUploadedEvent {
	return &DocumentUploadedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDocumentUploaded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"document_id":   documentID,
				"employee_name": employeeName,
				"category":      category,
			},
		},
		DocumentID:   documentID,
		EmployeeName: employeeName,
		Category:     category,
		ActorID:      actorID,
		ActorName:    actorName,
	}
}

// AttachmentAddedEvent carries the uploader identity so the fan-out can
// exclude them from the recipient set.
type AttachmentAddedEvent struct {
	BaseEvent
	TravelRequestID int64  `json:"travel_request_id"`
	FileName        string `json:"file_name"`
	TravelerName    string `json:"traveler_name"`
	Destination     string `json:"destination"`
	UploaderID      int64  `json:"uploader_id"`
	UploaderName    string `json:"uploader_name"`
}

func NewAttachmentAddedEvent(requestID int64, fileName, travelerName, destination string, uploaderID int64, uploaderName string) *AttachmentAddedEvent {
	return &AttachmentAddedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAttachmentAdded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"travel_request_id": requestID,
				"file_name":         fileName,
				"traveler_name":     travelerName,
				"destination":       destination,
			},
		},
		TravelRequestID: requestID,
		FileName:        fileName,
		TravelerName:    travelerName,
		Destination:     destination,
		UploaderID:      uploaderID,
		UploaderName:    uploaderName,
	}
}
