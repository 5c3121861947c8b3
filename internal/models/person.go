package models

import "time"

// Person is an enrolled individual whose attendance is tracked. A person owns
// up to MaxTemplateSlots fingerprint templates captured at enrollment.
type Person struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Code         string     `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Email        string     `gorm:"size:255" json:"email"`
	Program      string     `gorm:"size:128" json:"program"`
	YearLevel    int        `json:"year_level"`
	Section      string     `gorm:"size:64" json:"section"`
	EnrolledDate time.Time  `gorm:"not null" json:"enrolled_date"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	Templates    []Template `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
