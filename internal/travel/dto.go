package travel

import (
	"regexp"
	"strings"

	internal "github.com/centrushr/hr-management/internal"
)

var (
	dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeFormat = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// CreateTravelRequestDTO is the payload for opening a new travel request.
// Dates use YYYY-MM-DD and window times use HH:MM, matching the frontend pickers.
type CreateTravelRequestDTO struct {
	TravelerID        int64  `json:"traveler_id"`
	Origin            string `json:"origin"`
	Destination       string `json:"destination"`
	DepartDate        string `json:"depart_date"`
	DepartWindowStart string `json:"depart_window_start"`
	DepartWindowEnd   string `json:"depart_window_end"`
	ReturnDate        string `json:"return_date"`
	ReturnWindowStart string `json:"return_window_start"`
	ReturnWindowEnd   string `json:"return_window_end"`
	Justification     string `json:"justification"`
	Note              string `json:"note"`
}

func (dto *CreateTravelRequestDTO) Validate() error {
	if dto.TravelerID <= 0 {
		return internal.NewValidationFieldError("traveler_id", "traveler is required")
	}
	if strings.TrimSpace(dto.Origin) == "" {
		return internal.NewValidationFieldError("origin", "origin is required")
	}
	if strings.TrimSpace(dto.Destination) == "" {
		return internal.NewValidationFieldError("destination", "destination is required")
	}
	if !dateFormat.MatchString(dto.DepartDate) {
		return internal.NewValidationFieldError("depart_date", "depart date must be YYYY-MM-DD")
	}
	if !dateFormat.MatchString(dto.ReturnDate) {
		return internal.NewValidationFieldError("return_date", "return date must be YYYY-MM-DD")
	}
	if dto.ReturnDate < dto.DepartDate {
		return internal.NewValidationFieldError("return_date", "return date cannot be before depart date")
	}
	for field, value := range map[string]string{
		"depart_window_start": dto.DepartWindowStart,
		"depart_window_end":   dto.DepartWindowEnd,
		"return_window_start": dto.ReturnWindowStart,
		"return_window_end":   dto.ReturnWindowEnd,
	} {
		if value != "" && !timeFormat.MatchString(value) {
			return internal.NewValidationFieldError(field, "time must be HH:MM")
		}
	}
	if dto.DepartWindowStart != "" && dto.DepartWindowEnd != "" && dto.DepartWindowEnd < dto.DepartWindowStart {
		return internal.NewValidationFieldError("depart_window_end", "window end cannot be before window start")
	}
	if dto.ReturnWindowStart != "" && dto.ReturnWindowEnd != "" && dto.ReturnWindowEnd < dto.ReturnWindowStart {
		return internal.NewValidationFieldError("return_window_end", "window end cannot be before window start")
	}
	if strings.TrimSpace(dto.Justification) == "" {
		return internal.NewValidationFieldError("justification", "justification is required")
	}
	return nil
}

// RejectTravelRequestDTO carries the mandatory rejection reason.
type RejectTravelRequestDTO struct {
	Reason string `json:"reason"`
}

func (dto *RejectTravelRequestDTO) Validate() error {
	if strings.TrimSpace(dto.Reason) == "" {
		return internal.ErrReasonRequired
	}
	return nil
}
