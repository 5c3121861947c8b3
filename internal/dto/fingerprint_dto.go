package dto

import (
	"time"

	"github.com/souchan25/attendance-go-api/internal/models"
	"github.com/souchan25/attendance-go-api/pkg/fingerprint"
)

// EnrollRequest describes the payload for capturing a fingerprint sample
// into one of a person's template slots.
type EnrollRequest struct {
	SampleNumber int `json:"sample_number" validate:"required,min=1,max=5"`
}

// TemplateResponse is the serialized enrolled sample. The template payload
// itself never leaves the server.
type TemplateResponse struct {
	ID           uint      `json:"id"`
	PersonID     uint      `json:"person_id"`
	SampleNumber int       `json:"sample_number"`
	Quality      int       `json:"quality"`
	CapturedAt   time.Time `json:"captured_at"`
}

// NewTemplateResponse converts a model into a DTO.
func NewTemplateResponse(model models.Template) TemplateResponse {
	return TemplateResponse{
		ID:           model.ID,
		PersonID:     model.PersonID,
		SampleNumber: model.SampleNumber,
		Quality:      model.Quality,
		CapturedAt:   model.CapturedAt,
	}
}

// NewTemplateResponseSlice converts a slice of models into DTOs.
func NewTemplateResponseSlice(templates []models.Template) []TemplateResponse {
	responses := make([]TemplateResponse, 0, len(templates))
	for _, template := range templates {
		responses = append(responses, NewTemplateResponse(template))
	}

	return responses
}

// MatcherSettingsRequest describes the payload for tuning the matcher.
type MatcherSettingsRequest struct {
	FARDivisor int `json:"far_divisor" validate:"required,min=1"`
	MinQuality int `json:"min_quality" validate:"omitempty,min=0,max=100"`
}

// MatcherSettingsResponse reports the matcher configuration in effect.
type MatcherSettingsResponse struct {
	FARDivisor int `json:"far_divisor"`
	MinQuality int `json:"min_quality"`
}

// NewMatcherSettingsResponse converts middleware settings into a DTO.
func NewMatcherSettingsResponse(settings fingerprint.Settings) MatcherSettingsResponse {
	return MatcherSettingsResponse{
		FARDivisor: settings.FARDivisor,
		MinQuality: settings.MinQuality,
	}
}

// DeviceStatusResponse reports the reader state.
type DeviceStatusResponse struct {
	Connected    bool   `json:"connected"`
	Description  string `json:"description"`
	SerialNumber string `json:"serial_number"`
}
