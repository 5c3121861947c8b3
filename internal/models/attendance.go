package models

import "time"

// Attendance statuses persisted on a record. Absence is never stored; it is
// derived by the stats service from past events without a matching record.
const (
	StatusPresent = "Present"
	StatusLate    = "Late"
)

// RecordDateLayout is the calendar-date key format for attendance rows.
const RecordDateLayout = "2006-01-02"

// AttendanceRecord is the single row for a (person, event, calendar date)
// triple. Check-in and check-out are filled independently; either may be nil.
type AttendanceRecord struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	PersonID   uint       `gorm:"not null;uniqueIndex:idx_attendance_day" json:"person_id"`
	EventID    uint       `gorm:"not null;uniqueIndex:idx_attendance_day" json:"event_id"`
	RecordDate string     `gorm:"size:10;not null;uniqueIndex:idx_attendance_day;index" json:"record_date"`
	CheckIn    *time.Time `json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	Status     string     `gorm:"size:16;not null" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
