package dto

import (
	"time"

	"github.com/souchan25/attendance-go-api/internal/models"
)

// EventCreateRequest describes the payload for scheduling a new event. Time
// boundaries are optional "HH:mm" clock values; empty strings leave that side
// of the window open.
type EventCreateRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=255"`
	Description   string `json:"description" validate:"omitempty,max=1024"`
	EventDate     string `json:"event_date" validate:"required,datetime=2006-01-02"`
	Period        string `json:"period" validate:"omitempty,max=64"`
	AcademicYear  string `json:"academic_year" validate:"omitempty,max=16"`
	CheckInStart  string `json:"check_in_start"`
	CheckInEnd    string `json:"check_in_end"`
	CheckOutStart string `json:"check_out_start"`
	CheckOutEnd   string `json:"check_out_end"`
}

// EventUpdateRequest describes the payload for updating an event.
type EventUpdateRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=2,max=255"`
	Description   *string `json:"description" validate:"omitempty,max=1024"`
	EventDate     *string `json:"event_date" validate:"omitempty,datetime=2006-01-02"`
	Period        *string `json:"period" validate:"omitempty,max=64"`
	AcademicYear  *string `json:"academic_year" validate:"omitempty,max=16"`
	CheckInStart  *string `json:"check_in_start"`
	CheckInEnd    *string `json:"check_in_end"`
	CheckOutStart *string `json:"check_out_start"`
	CheckOutEnd   *string `json:"check_out_end"`
	IsActive      *bool   `json:"is_active"`
}

// EventResponse is the serialized representation returned to API clients.
type EventResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	EventDate     string    `json:"event_date"`
	Period        string    `json:"period"`
	AcademicYear  string    `json:"academic_year"`
	CheckInStart  *string   `json:"check_in_start"`
	CheckInEnd    *string   `json:"check_in_end"`
	CheckOutStart *string   `json:"check_out_start"`
	CheckOutEnd   *string   `json:"check_out_end"`
	IsActive      bool      `json:"is_active"`
	IsDeleted     bool      `json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewEventResponse converts a model into a DTO.
func NewEventResponse(model models.Event) EventResponse {
	return EventResponse{
		ID:            model.ID,
		Name:          model.Name,
		Description:   model.Description,
		EventDate:     model.EventDate.Format(dateLayout),
		Period:        model.Period,
		AcademicYear:  model.AcademicYear,
		CheckInStart:  model.CheckInStart,
		CheckInEnd:    model.CheckInEnd,
		CheckOutStart: model.CheckOutStart,
		CheckOutEnd:   model.CheckOutEnd,
		IsActive:      model.IsActive,
		IsDeleted:     model.IsDeleted,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

// NewEventResponseSlice converts a slice of models into DTOs.
func NewEventResponseSlice(events []models.Event) []EventResponse {
	responses := make([]EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, NewEventResponse(event))
	}

	return responses
}
