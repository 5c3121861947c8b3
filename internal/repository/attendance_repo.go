package repository

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/souchan25/attendance-go-api/internal/models"
)

// RosterRow joins an attendance record with the person it belongs to, for
// per-event roster listings.
type RosterRow struct {
	Record models.AttendanceRecord
	Person models.Person
}

// HistoryRow joins an attendance record with its event, for per-person
// history listings.
type HistoryRow struct {
	Record models.AttendanceRecord
	Event  models.Event
}

// AttendanceRepository defines persistence operations for attendance rows.
// The check-in/check-out writers are split into update and insert halves so
// the recorder can run its update-then-insert upsert; each half is a single
// statement.
type AttendanceRepository interface {
	GetForDay(ctx context.Context, personID, eventID uint, recordDate string) (models.AttendanceRecord, error)
	UpdateCheckIn(ctx context.Context, personID, eventID uint, recordDate string, at time.Time, status string) (int64, error)
	InsertCheckIn(ctx context.Context, personID, eventID uint, recordDate string, at time.Time, status string) error
	// UpdateCheckOut sets the check-out timestamp; when forceLate is true the
	// status is overwritten to Late in the same statement.
	UpdateCheckOut(ctx context.Context, personID, eventID uint, recordDate string, at time.Time, forceLate bool) (int64, error)
	InsertCheckOut(ctx context.Context, personID, eventID uint, recordDate string, at time.Time, status string) error
	ListByEvent(ctx context.Context, eventID uint) ([]RosterRow, error)
	ListByPersonSince(ctx context.Context, personID uint, since time.Time) ([]HistoryRow, error)
	// CountPresentSince counts rows for the person with a check-in set or a
	// Present/Late status, restricted to events dated on/after since.
	CountPresentSince(ctx context.Context, personID uint, since time.Time) (int64, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository instantiates a GORM-backed repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) GetForDay(ctx context.Context, personID, eventID uint, recordDate string) (models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("person_id = ? AND event_id = ? AND record_date = ?", personID, eventID, recordDate).
		First(&record).Error
	if err != nil {
		return models.AttendanceRecord{}, err
	}

	return record, nil
}

func (r *attendanceRepository) UpdateCheckIn(ctx context.Context, personID, eventID uint, recordDate string, at time.Time, status string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("person_id = ? AND event_id = ? AND record_date = ?", personID, eventID, recordDate).
		Updates(map[string]interface{}{"check_in": at, "status": status})

	return result.RowsAffected, result.Error
}

func (r *attendanceRepository) InsertCheckIn(ctx context.Context, personID, eventID uint, recordDate string, at time.Time, status string) error {
	record := models.AttendanceRecord{
		PersonID:   personID,
		EventID:    eventID,
		RecordDate: recordDate,
		CheckIn:    &at,
		Status:     status,
	}

	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *attendanceRepository) UpdateCheckOut(ctx context.Context, personID, eventID uint, recordDate string, at time.Time, forceLate bool) (int64, error) {
	updates := map[string]interface{}{"check_out": at}
	if forceLate {
		updates["status"] = models.StatusLate
	}

	result := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("person_id = ? AND event_id = ? AND record_date = ?", personID, eventID, recordDate).
		Updates(updates)

	return result.RowsAffected, result.Error
}

func (r *attendanceRepository) InsertCheckOut(ctx context.Context, personID, eventID uint, recordDate string, at time.Time, status string) error {
	record := models.AttendanceRecord{
		PersonID:   personID,
		EventID:    eventID,
		RecordDate: recordDate,
		CheckOut:   &at,
		Status:     status,
	}

	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *attendanceRepository) ListByEvent(ctx context.Context, eventID uint) ([]RosterRow, error) {
	var records []models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("check_in ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.PersonID)
	}

	var people []models.Person
	if len(ids) > 0 {
		if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&people).Error; err != nil {
			return nil, err
		}
	}

	byID := make(map[uint]models.Person, len(people))
	for _, person := range people {
		byID[person.ID] = person
	}

	rows := make([]RosterRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, RosterRow{Record: record, Person: byID[record.PersonID]})
	}

	return rows, nil
}

func (r *attendanceRepository) ListByPersonSince(ctx context.Context, personID uint, since time.Time) ([]HistoryRow, error) {
	var records []models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("person_id = ?", personID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.EventID)
	}

	var events []models.Event
	if len(ids) > 0 {
		if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&events).Error; err != nil {
			return nil, err
		}
	}

	byID := make(map[uint]models.Event, len(events))
	for _, event := range events {
		byID[event.ID] = event
	}

	rows := make([]HistoryRow, 0, len(records))
	for _, record := range records {
		event, ok := byID[record.EventID]
		if !ok || event.EventDate.Before(since) {
			continue
		}
		rows = append(rows, HistoryRow{Record: record, Event: event})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Event.EventDate.After(rows[j].Event.EventDate)
	})

	return rows, nil
}

func (r *attendanceRepository) CountPresentSince(ctx context.Context, personID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Joins("JOIN events ON events.id = attendance_records.event_id").
		Where("attendance_records.person_id = ?", personID).
		Where("attendance_records.check_in IS NOT NULL OR attendance_records.status IN ?", []string{models.StatusPresent, models.StatusLate}).
		Where("events.event_date >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
