package models

import "time"

// Event is a scheduled occasion attendance is recorded against. The four
// time-of-day boundaries are optional "HH:mm" strings; a nil boundary leaves
// that side of the window unconstrained. Events are soft-deleted only.
type Event struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Description   string    `gorm:"size:1024" json:"description"`
	EventDate     time.Time `gorm:"not null;index" json:"event_date"`
	Period        string    `gorm:"size:64" json:"period"`
	AcademicYear  string    `gorm:"size:16;index:idx_event_period" json:"academic_year"`
	CheckInStart  *string   `gorm:"size:16" json:"check_in_start"`
	CheckInEnd    *string   `gorm:"size:16" json:"check_in_end"`
	CheckOutStart *string   `gorm:"size:16" json:"check_out_start"`
	CheckOutEnd   *string   `gorm:"size:16" json:"check_out_end"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	IsDeleted     bool      `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
