package dto

import (
	"time"

	"github.com/souchan25/attendance-go-api/internal/models"
	"github.com/souchan25/attendance-go-api/internal/repository"
)

// Outcome codes carried on a RecordResult. Only storage failures surface as
// errors; every recognizable kiosk outcome is a value.
const (
	OutcomeRecorded = "recorded"
	OutcomeLate     = "late"
	OutcomeTooEarly = "too_early"
	OutcomeNoEvent  = "no_active_event"
	OutcomeNoMatch  = "no_match"
)

// RecordResult is the kiosk-facing outcome of a check-in or check-out scan.
type RecordResult struct {
	Outcome    string          `json:"outcome"`
	Message    string          `json:"message"`
	Person     *PersonResponse `json:"person,omitempty"`
	Event      *EventResponse  `json:"event,omitempty"`
	Status     string          `json:"status,omitempty"`
	RecordedAt *time.Time      `json:"recorded_at,omitempty"`
}

// AttendanceRecordResponse is the serialized attendance row.
type AttendanceRecordResponse struct {
	ID         uint       `json:"id"`
	PersonID   uint       `json:"person_id"`
	EventID    uint       `json:"event_id"`
	RecordDate string     `json:"record_date"`
	CheckIn    *time.Time `json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	Status     string     `json:"status"`
}

// NewAttendanceRecordResponse converts a model into a DTO.
func NewAttendanceRecordResponse(model models.AttendanceRecord) AttendanceRecordResponse {
	return AttendanceRecordResponse{
		ID:         model.ID,
		PersonID:   model.PersonID,
		EventID:    model.EventID,
		RecordDate: model.RecordDate,
		CheckIn:    model.CheckIn,
		CheckOut:   model.CheckOut,
		Status:     model.Status,
	}
}

// Progress values derived per roster row from which timestamps are filled.
const (
	ProgressComplete       = "complete"
	ProgressCheckedInOnly  = "checked_in_only"
	ProgressCheckedOutOnly = "checked_out_only"
)

// RosterEntryResponse pairs a person with their attendance row for an event.
type RosterEntryResponse struct {
	Person   PersonResponse           `json:"person"`
	Record   AttendanceRecordResponse `json:"record"`
	Progress string                   `json:"progress"`
}

func recordProgress(record models.AttendanceRecord) string {
	switch {
	case record.CheckIn != nil && record.CheckOut != nil:
		return ProgressComplete
	case record.CheckIn != nil:
		return ProgressCheckedInOnly
	default:
		return ProgressCheckedOutOnly
	}
}

// RosterResponse is the event roster with a completion summary.
type RosterResponse struct {
	Event      EventResponse         `json:"event"`
	Entries    []RosterEntryResponse `json:"entries"`
	Recorded   int                   `json:"recorded"`
	Enrolled   int                   `json:"enrolled"`
	CheckedOut int                   `json:"checked_out"`
}

// NewRosterEntries converts joined roster rows into DTOs.
func NewRosterEntries(rows []repository.RosterRow) []RosterEntryResponse {
	entries := make([]RosterEntryResponse, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, RosterEntryResponse{
			Person:   NewPersonResponse(row.Person),
			Record:   NewAttendanceRecordResponse(row.Record),
			Progress: recordProgress(row.Record),
		})
	}

	return entries
}

// HistoryEntryResponse pairs an event with the person's attendance row.
type HistoryEntryResponse struct {
	Event  EventResponse            `json:"event"`
	Record AttendanceRecordResponse `json:"record"`
}

// NewHistoryEntries converts joined history rows into DTOs.
func NewHistoryEntries(rows []repository.HistoryRow) []HistoryEntryResponse {
	entries := make([]HistoryEntryResponse, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, HistoryEntryResponse{
			Event:  NewEventResponse(row.Event),
			Record: NewAttendanceRecordResponse(row.Record),
		})
	}

	return entries
}

// StatsResponse summarizes a person's attendance since enrollment.
type StatsResponse struct {
	Person     PersonResponse `json:"person"`
	Present    int64          `json:"present"`
	Absent     int64          `json:"absent"`
	PastEvents int64          `json:"past_events"`
}
