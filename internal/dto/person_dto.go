package dto

import (
	"time"

	"github.com/souchan25/attendance-go-api/internal/models"
)

const dateLayout = "2006-01-02"

// PersonCreateRequest describes the payload for enrolling a new person.
type PersonCreateRequest struct {
	Code         string `json:"code" validate:"required,min=2,max=64"`
	Name         string `json:"name" validate:"required,min=2,max=255"`
	Email        string `json:"email" validate:"omitempty,email"`
	Program      string `json:"program" validate:"omitempty,max=128"`
	YearLevel    int    `json:"year_level" validate:"omitempty,min=1,max=10"`
	Section      string `json:"section" validate:"omitempty,max=64"`
	EnrolledDate string `json:"enrolled_date" validate:"omitempty,datetime=2006-01-02"`
}

// PersonUpdateRequest describes the payload for updating a person.
type PersonUpdateRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=255"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Program   *string `json:"program" validate:"omitempty,max=128"`
	YearLevel *int    `json:"year_level" validate:"omitempty,min=1,max=10"`
	Section   *string `json:"section" validate:"omitempty,max=64"`
	IsActive  *bool   `json:"is_active"`
}

// PersonResponse is the serialized representation returned to API clients.
type PersonResponse struct {
	ID            uint      `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Program       string    `json:"program"`
	YearLevel     int       `json:"year_level"`
	Section       string    `json:"section"`
	EnrolledDate  string    `json:"enrolled_date"`
	IsActive      bool      `json:"is_active"`
	TemplateCount int       `json:"template_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewPersonResponse converts a model into a DTO.
func NewPersonResponse(model models.Person) PersonResponse {
	return PersonResponse{
		ID:            model.ID,
		Code:          model.Code,
		Name:          model.Name,
		Email:         model.Email,
		Program:       model.Program,
		YearLevel:     model.YearLevel,
		Section:       model.Section,
		EnrolledDate:  model.EnrolledDate.Format(dateLayout),
		IsActive:      model.IsActive,
		TemplateCount: len(model.Templates),
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

// NewPersonResponseSlice converts a slice of models into DTOs.
func NewPersonResponseSlice(people []models.Person) []PersonResponse {
	responses := make([]PersonResponse, 0, len(people))
	for _, person := range people {
		responses = append(responses, NewPersonResponse(person))
	}

	return responses
}
