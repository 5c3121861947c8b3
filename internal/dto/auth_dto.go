package dto

import (
	"time"

	"github.com/souchan25/attendance-go-api/internal/models"
)

// LoginRequest describes the admin login payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse carries the issued token and the authenticated account.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Admin     AdminResponse `json:"admin"`
}

// AdminCreateRequest describes the payload for registering an operator.
type AdminCreateRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2,max=255"`
}

// AdminResponse is the serialized operator account.
type AdminResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAdminResponse converts a model into a DTO.
func NewAdminResponse(model models.Admin) AdminResponse {
	return AdminResponse{
		ID:        model.ID,
		Username:  model.Username,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
	}
}
