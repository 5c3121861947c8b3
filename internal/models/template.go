package models

import "time"

// MaxTemplateSlots bounds how many fingerprint samples a person may enroll.
const MaxTemplateSlots = 5

// Template is a single enrolled fingerprint sample. The payload is the opaque
// serialized template produced by the capture middleware; the engine never
// inspects it.
type Template struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PersonID     uint      `gorm:"not null;uniqueIndex:idx_template_slot" json:"person_id"`
	SampleNumber int       `gorm:"not null;uniqueIndex:idx_template_slot" json:"sample_number"`
	Payload      string    `gorm:"type:text;not null" json:"-"`
	Quality      int       `json:"quality"`
	CapturedAt   time.Time `gorm:"not null" json:"captured_at"`
}
