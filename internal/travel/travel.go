package travel

import "time"

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// TravelRequest represents a trip request moving through the approval workflow.
// The approval and rejection audit columns are only ever set by the service;
// once a request leaves PENDING it never changes status again.
type TravelRequest struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	RequesterID int64  `json:"requester_id" gorm:"column:requester_id;not null"`
	TravelerID  int64  `json:"traveler_id" gorm:"column:traveler_id;not null"`
	Origin      string `json:"origin" gorm:"not null"`
	Destination string `json:"destination" gorm:"not null"`

	DepartDate        string `json:"depart_date" gorm:"column:depart_date;not null"`
	DepartWindowStart string `json:"depart_window_start" gorm:"column:depart_window_start"`
	DepartWindowEnd   string `json:"depart_window_end" gorm:"column:depart_window_end"`
	ReturnDate        string `json:"return_date" gorm:"column:return_date;not null"`
	ReturnWindowStart string `json:"return_window_start" gorm:"column:return_window_start"`
	ReturnWindowEnd   string `json:"return_window_end" gorm:"column:return_window_end"`

	Justification string `json:"justification" gorm:"not null"`
	Note          string `json:"note,omitempty"`

	Status      string    `json:"status" gorm:"default:PENDING"`
	RequestedAt time.Time `json:"requested_at" gorm:"column:requested_at"`

	CreatedByID   *int64  `json:"created_by_id,omitempty" gorm:"column:created_by_id"`
	CreatedByName *string `json:"created_by_name,omitempty" gorm:"column:created_by_name"`

	ApprovedByID   *int64     `json:"approved_by_id,omitempty" gorm:"column:approved_by_id"`
	ApprovedByName *string    `json:"approved_by_name,omitempty" gorm:"column:approved_by_name"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty" gorm:"column:approved_at"`

	RejectedByID    *int64     `json:"rejected_by_id,omitempty" gorm:"column:rejected_by_id"`
	RejectedByName  *string    `json:"rejected_by_name,omitempty" gorm:"column:rejected_by_name"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty" gorm:"column:rejected_at"`
	RejectionReason *string    `json:"rejection_reason,omitempty" gorm:"column:rejection_reason"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (TravelRequest) TableName() string {
	return "travel_requests"
}

func (t *TravelRequest) CanBeApproved() bool {
	return t.Status == StatusPending
}

func (t *TravelRequest) CanBeRejected() bool {
	return t.Status == StatusPending
}

func (t *TravelRequest) IsApproved() bool {
	return t.Status == StatusApproved
}

// Approve stamps the approval audit fields. Callers must check CanBeApproved first.
func (t *TravelRequest) Approve(approverID int64, approverName string) {
	now := time.Now()
	t.Status = StatusApproved
	t.ApprovedByID = &approverID
	t.ApprovedByName = &approverName
	t.ApprovedAt = &now
	t.UpdatedAt = now
}

// Reject stamps the rejection audit fields, including the mandatory reason.
func (t *TravelRequest) Reject(rejecterID int64, rejecterName, reason string) {
	now := time.Now()
	t.Status = StatusRejected
	t.RejectedByID = &rejecterID
	t.RejectedByName = &rejecterName
	t.RejectedAt = &now
	t.RejectionReason = &reason
	t.UpdatedAt = now
}
