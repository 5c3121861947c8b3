package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/souchan25/attendance-go-api/internal/models"
	"github.com/souchan25/attendance-go-api/internal/repository"
	"github.com/souchan25/attendance-go-api/pkg/fingerprint"
)

func testValidator() *validator.Validate {
	return validator.New()
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type memoryPersonRepo struct {
	people map[uint]models.Person
	nextID uint
}

func newMemoryPersonRepo() *memoryPersonRepo {
	return &memoryPersonRepo{people: make(map[uint]models.Person), nextID: 1}
}

func (m *memoryPersonRepo) List(ctx context.Context) ([]models.Person, error) {
	results := make([]models.Person, 0, len(m.people))
	for _, person := range m.people {
		results = append(results, person)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryPersonRepo) GetByID(ctx context.Context, id uint) (models.Person, error) {
	person, ok := m.people[id]
	if !ok {
		return models.Person{}, gorm.ErrRecordNotFound
	}
	return person, nil
}

func (m *memoryPersonRepo) GetByCode(ctx context.Context, code string) (models.Person, error) {
	for _, person := range m.people {
		if person.Code == code {
			return person, nil
		}
	}
	return models.Person{}, gorm.ErrRecordNotFound
}

func (m *memoryPersonRepo) Create(ctx context.Context, person *models.Person) error {
	person.ID = m.nextID
	m.nextID++
	m.people[person.ID] = *person
	return nil
}

func (m *memoryPersonRepo) Update(ctx context.Context, person *models.Person) error {
	if _, ok := m.people[person.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.people[person.ID] = *person
	return nil
}

func (m *memoryPersonRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.people[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.people, id)
	return nil
}

type memoryEventRepo struct {
	events map[uint]models.Event
	nextID uint
}

func newMemoryEventRepo() *memoryEventRepo {
	return &memoryEventRepo{events: make(map[uint]models.Event), nextID: 1}
}

func (m *memoryEventRepo) Create(ctx context.Context, event *models.Event) error {
	event.ID = m.nextID
	m.nextID++
	m.events[event.ID] = *event
	return nil
}

func (m *memoryEventRepo) Update(ctx context.Context, event *models.Event) error {
	if _, ok := m.events[event.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.events[event.ID] = *event
	return nil
}

func (m *memoryEventRepo) GetByID(ctx context.Context, id uint) (models.Event, error) {
	event, ok := m.events[id]
	if !ok {
		return models.Event{}, gorm.ErrRecordNotFound
	}
	return event, nil
}

func (m *memoryEventRepo) List(ctx context.Context, includeDeleted bool) ([]models.Event, error) {
	results := make([]models.Event, 0, len(m.events))
	for _, event := range m.events {
		if event.IsDeleted && !includeDeleted {
			continue
		}
		results = append(results, event)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryEventRepo) ListActive(ctx context.Context) ([]models.Event, error) {
	results := make([]models.Event, 0, len(m.events))
	for _, event := range m.events {
		if event.IsActive && !event.IsDeleted {
			results = append(results, event)
		}
	}
	// Latest date first, newest row first on a date tie, matching the query.
	sort.Slice(results, func(i, j int) bool {
		if !results[i].EventDate.Equal(results[j].EventDate) {
			return results[i].EventDate.After(results[j].EventDate)
		}
		return results[i].ID > results[j].ID
	})
	return results, nil
}

func (m *memoryEventRepo) Deactivate(ctx context.Context, id uint) error {
	event, ok := m.events[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	event.IsActive = false
	m.events[id] = event
	return nil
}

func (m *memoryEventRepo) SoftDelete(ctx context.Context, id uint) error {
	event, ok := m.events[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	event.IsDeleted = true
	event.IsActive = false
	m.events[id] = event
	return nil
}

func (m *memoryEventRepo) CountPastBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	for _, event := range m.events {
		if event.IsDeleted {
			continue
		}
		if !event.EventDate.Before(from) && event.EventDate.Before(to) {
			count++
		}
	}
	return count, nil
}

type attendanceKey struct {
	personID   uint
	eventID    uint
	recordDate string
}

type memoryAttendanceRepo struct {
	records map[attendanceKey]models.AttendanceRecord
	people  *memoryPersonRepo
	events  *memoryEventRepo
	nextID  uint
}

func newMemoryAttendanceRepo(people *memoryPersonRepo, events *memoryEventRepo) *memoryAttendanceRepo {
	return &memoryAttendanceRepo{
		records: make(map[attendanceKey]models.AttendanceRecord),
		people:  people,
		events:  events,
		nextID:  1,
	}
}

func (m *memoryAttendanceRepo) GetForDay(ctx context.Context, personID, eventID uint, recordDate string) (models.AttendanceRecord, error) {
	record, ok := m.records[attendanceKey{personID, eventID, recordDate}]
	if !ok {
		return models.AttendanceRecord{}, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (m *memoryAttendanceRepo) UpdateCheckIn(ctx context.Context, personID, eventID uint, recordDate string, at time.Time, status string) (int64, error) {
	key := attendanceKey{personID, eventID, recordDate}
	record, ok := m.records[key]
	if !ok {
		return 0, nil
	}
	record.CheckIn = &at
	record.Status = status
	m.records[key] = record
	return 1, nil
}

func (m *memoryAttendanceRepo) InsertCheckIn(ctx context.Context, personID, eventID uint, recordDate string, at time.Time, status string) error {
	key := attendanceKey{personID, eventID, recordDate}
	if _, ok := m.records[key]; ok {
		return errors.New("duplicate attendance row")
	}
	m.records[key] = models.AttendanceRecord{
		ID:         m.nextID,
		PersonID:   personID,
		EventID:    eventID,
		RecordDate: recordDate,
		CheckIn:    &at,
		Status:     status,
	}
	m.nextID++
	return nil
}

func (m *memoryAttendanceRepo) UpdateCheckOut(ctx context.Context, personID, eventID uint, recordDate string, at time.Time, forceLate bool) (int64, error) {
	key := attendanceKey{personID, eventID, recordDate}
	record, ok := m.records[key]
	if !ok {
		return 0, nil
	}
	record.CheckOut = &at
	if forceLate {
		record.Status = models.StatusLate
	}
	m.records[key] = record
	return 1, nil
}

func (m *memoryAttendanceRepo) InsertCheckOut(ctx context.Context, personID, eventID uint, recordDate string, at time.Time, status string) error {
	key := attendanceKey{personID, eventID, recordDate}
	if _, ok := m.records[key]; ok {
		return errors.New("duplicate attendance row")
	}
	m.records[key] = models.AttendanceRecord{
		ID:         m.nextID,
		PersonID:   personID,
		EventID:    eventID,
		RecordDate: recordDate,
		CheckOut:   &at,
		Status:     status,
	}
	m.nextID++
	return nil
}

func (m *memoryAttendanceRepo) ListByEvent(ctx context.Context, eventID uint) ([]repository.RosterRow, error) {
	rows := make([]repository.RosterRow, 0)
	for _, record := range m.records {
		if record.EventID != eventID {
			continue
		}
		person := m.people.people[record.PersonID]
		rows = append(rows, repository.RosterRow{Record: record, Person: person})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Record.ID < rows[j].Record.ID })
	return rows, nil
}

func (m *memoryAttendanceRepo) ListByPersonSince(ctx context.Context, personID uint, since time.Time) ([]repository.HistoryRow, error) {
	rows := make([]repository.HistoryRow, 0)
	for _, record := range m.records {
		if record.PersonID != personID {
			continue
		}
		event := m.events.events[record.EventID]
		if event.EventDate.Before(since) {
			continue
		}
		rows = append(rows, repository.HistoryRow{Record: record, Event: event})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Event.EventDate.After(rows[j].Event.EventDate)
	})
	return rows, nil
}

func (m *memoryAttendanceRepo) CountPresentSince(ctx context.Context, personID uint, since time.Time) (int64, error) {
	var count int64
	for _, record := range m.records {
		if record.PersonID != personID {
			continue
		}
		event := m.events.events[record.EventID]
		if event.EventDate.Before(since) {
			continue
		}
		if record.CheckIn != nil || record.Status == models.StatusPresent || record.Status == models.StatusLate {
			count++
		}
	}
	return count, nil
}

type memoryTemplateRepo struct {
	templates map[uint][]models.Template
	people    *memoryPersonRepo
	nextID    uint
}

func newMemoryTemplateRepo(people *memoryPersonRepo) *memoryTemplateRepo {
	return &memoryTemplateRepo{templates: make(map[uint][]models.Template), people: people, nextID: 1}
}

func (m *memoryTemplateRepo) Upsert(ctx context.Context, template *models.Template) error {
	slots := m.templates[template.PersonID]
	for i := range slots {
		if slots[i].SampleNumber == template.SampleNumber {
			template.ID = slots[i].ID
			slots[i] = *template
			return nil
		}
	}
	template.ID = m.nextID
	m.nextID++
	m.templates[template.PersonID] = append(slots, *template)
	return nil
}

func (m *memoryTemplateRepo) ListByPerson(ctx context.Context, personID uint) ([]models.Template, error) {
	slots := append([]models.Template(nil), m.templates[personID]...)
	sort.Slice(slots, func(i, j int) bool { return slots[i].SampleNumber < slots[j].SampleNumber })
	return slots, nil
}

func (m *memoryTemplateRepo) Gallery(ctx context.Context) ([]repository.GalleryEntry, error) {
	entries := make([]repository.GalleryEntry, 0, len(m.templates))
	people, _ := m.people.List(ctx)
	for _, person := range people {
		if !person.IsActive {
			continue
		}
		slots, _ := m.ListByPerson(ctx, person.ID)
		if len(slots) == 0 {
			continue
		}
		entries = append(entries, repository.GalleryEntry{Person: person, Templates: slots})
	}
	return entries, nil
}

type memoryAdminRepo struct {
	admins map[uint]models.Admin
	nextID uint
}

func newMemoryAdminRepo() *memoryAdminRepo {
	return &memoryAdminRepo{admins: make(map[uint]models.Admin), nextID: 1}
}

func (m *memoryAdminRepo) GetByUsername(ctx context.Context, username string) (models.Admin, error) {
	for _, admin := range m.admins {
		if admin.Username == username {
			return admin, nil
		}
	}
	return models.Admin{}, gorm.ErrRecordNotFound
}

func (m *memoryAdminRepo) List(ctx context.Context) ([]models.Admin, error) {
	results := make([]models.Admin, 0, len(m.admins))
	for _, admin := range m.admins {
		results = append(results, admin)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryAdminRepo) Create(ctx context.Context, admin *models.Admin) error {
	admin.ID = m.nextID
	m.nextID++
	m.admins[admin.ID] = *admin
	return nil
}

func (m *memoryAdminRepo) Update(ctx context.Context, admin *models.Admin) error {
	if _, ok := m.admins[admin.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.admins[admin.ID] = *admin
	return nil
}

func (m *memoryAdminRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.admins[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.admins, id)
	return nil
}

// stubMatcher matches a probe against payloads listed in accept.
type stubMatcher struct {
	accept map[string]bool
	failOn map[string]bool
	calls  []string
}

func (m *stubMatcher) Match(ctx context.Context, probe, candidate string) (bool, error) {
	m.calls = append(m.calls, candidate)
	if m.failOn[candidate] {
		return false, fmt.Errorf("corrupt template %q", candidate)
	}
	return m.accept[candidate], nil
}

type stubCapturer struct {
	sample fingerprint.Sample
	err    error
}

func (c *stubCapturer) Capture(ctx context.Context) (fingerprint.Sample, error) {
	if c.err != nil {
		return fingerprint.Sample{}, c.err
	}
	return c.sample, nil
}

func boundary(value string) *string {
	return &value
}
