package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/souchan25/attendance-go-api/internal/models"
)

func setupAttendanceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Person{}, &models.Template{}, &models.Event{}, &models.AttendanceRecord{}))
	return db
}

func seedPerson(t *testing.T, db *gorm.DB, code string) models.Person {
	t.Helper()
	person := models.Person{Code: code, Name: "Person " + code, EnrolledDate: time.Now().AddDate(0, -1, 0), IsActive: true}
	require.NoError(t, db.Create(&person).Error)
	return person
}

func seedEvent(t *testing.T, db *gorm.DB, name string, date time.Time) models.Event {
	t.Helper()
	event := models.Event{Name: name, EventDate: date, IsActive: true}
	require.NoError(t, db.Create(&event).Error)
	return event
}

func TestAttendanceRepositoryUpdateThenInsert(t *testing.T) {
	db := setupAttendanceTestDB(t)
	repo := NewAttendanceRepository(db)
	ctx := context.Background()

	person := seedPerson(t, db, "S-100")
	event := seedEvent(t, db, "Orientation", time.Now())
	day := time.Now().Format(models.RecordDateLayout)
	at := time.Now()

	affected, err := repo.UpdateCheckIn(ctx, person.ID, event.ID, day, at, models.StatusPresent)
	require.NoError(t, err)
	require.Zero(t, affected, "no row exists yet so the update half should touch nothing")

	require.NoError(t, repo.InsertCheckIn(ctx, person.ID, event.ID, day, at, models.StatusPresent))

	record, err := repo.GetForDay(ctx, person.ID, event.ID, day)
	require.NoError(t, err)
	require.NotNil(t, record.CheckIn)
	require.Nil(t, record.CheckOut)
	require.Equal(t, models.StatusPresent, record.Status)

	later := at.Add(6 * time.Hour)
	affected, err = repo.UpdateCheckOut(ctx, person.ID, event.ID, day, later, false)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	record, err = repo.GetForDay(ctx, person.ID, event.ID, day)
	require.NoError(t, err)
	require.NotNil(t, record.CheckOut)
	require.Equal(t, models.StatusPresent, record.Status)

	var count int64
	require.NoError(t, db.Model(&models.AttendanceRecord{}).Count(&count).Error)
	require.Equal(t, int64(1), count, "both halves must land on the same row")
}

func TestAttendanceRepositoryLateCheckOutOverwritesStatus(t *testing.T) {
	db := setupAttendanceTestDB(t)
	repo := NewAttendanceRepository(db)
	ctx := context.Background()

	person := seedPerson(t, db, "S-101")
	event := seedEvent(t, db, "Seminar", time.Now())
	day := time.Now().Format(models.RecordDateLayout)

	require.NoError(t, repo.InsertCheckIn(ctx, person.ID, event.ID, day, time.Now(), models.StatusPresent))

	affected, err := repo.UpdateCheckOut(ctx, person.ID, event.ID, day, time.Now().Add(time.Hour), true)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	record, err := repo.GetForDay(ctx, person.ID, event.ID, day)
	require.NoError(t, err)
	require.Equal(t, models.StatusLate, record.Status)
}

func TestAttendanceRepositoryGetForDayMissing(t *testing.T) {
	db := setupAttendanceTestDB(t)
	repo := NewAttendanceRepository(db)

	_, err := repo.GetForDay(context.Background(), 1, 1, "2026-01-01")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAttendanceRepositoryCountPresentSince(t *testing.T) {
	db := setupAttendanceTestDB(t)
	repo := NewAttendanceRepository(db)
	ctx := context.Background()

	person := seedPerson(t, db, "S-102")
	enrolled := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	before := seedEvent(t, db, "Old Event", enrolled.AddDate(0, -1, 0))
	first := seedEvent(t, db, "First", enrolled.AddDate(0, 0, 3))
	second := seedEvent(t, db, "Second", enrolled.AddDate(0, 0, 10))

	for _, event := range []models.Event{before, first, second} {
		day := event.EventDate.Format(models.RecordDateLayout)
		require.NoError(t, repo.InsertCheckIn(ctx, person.ID, event.ID, day, event.EventDate.Add(8*time.Hour), models.StatusPresent))
	}

	count, err := repo.CountPresentSince(ctx, person.ID, enrolled)
	require.NoError(t, err)
	require.Equal(t, int64(2), count, "records for events before enrollment do not count")
}

func TestAttendanceRepositoryListByEventJoinsPeople(t *testing.T) {
	db := setupAttendanceTestDB(t)
	repo := NewAttendanceRepository(db)
	ctx := context.Background()

	alice := seedPerson(t, db, "S-103")
	bob := seedPerson(t, db, "S-104")
	event := seedEvent(t, db, "Assembly", time.Now())
	day := time.Now().Format(models.RecordDateLayout)

	require.NoError(t, repo.InsertCheckIn(ctx, alice.ID, event.ID, day, time.Now().Add(-time.Hour), models.StatusPresent))
	require.NoError(t, repo.InsertCheckIn(ctx, bob.ID, event.ID, day, time.Now(), models.StatusLate))

	rows, err := repo.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, alice.Code, rows[0].Person.Code, "roster is ordered by check-in time")
	require.Equal(t, bob.Code, rows[1].Person.Code)
}

func TestTemplateRepositoryUpsertReplacesSlot(t *testing.T) {
	db := setupAttendanceTestDB(t)
	repo := NewTemplateRepository(db)
	ctx := context.Background()

	person := seedPerson(t, db, "S-105")

	first := models.Template{PersonID: person.ID, SampleNumber: 1, Payload: "payload-a", Quality: 70, CapturedAt: time.Now()}
	require.NoError(t, repo.Upsert(ctx, &first))

	replacement := models.Template{PersonID: person.ID, SampleNumber: 1, Payload: "payload-b", Quality: 85, CapturedAt: time.Now()}
	require.NoError(t, repo.Upsert(ctx, &replacement))

	templates, err := repo.ListByPerson(ctx, person.ID)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	require.Equal(t, "payload-b", templates[0].Payload)
	require.Equal(t, 85, templates[0].Quality)
}

func TestTemplateRepositoryGalleryExcludesInactiveAndEmpty(t *testing.T) {
	db := setupAttendanceTestDB(t)
	repo := NewTemplateRepository(db)
	ctx := context.Background()

	enrolled := seedPerson(t, db, "S-106")
	inactive := seedPerson(t, db, "S-107")
	require.NoError(t, db.Model(&models.Person{}).Where("id = ?", inactive.ID).Update("is_active", false).Error)
	seedPerson(t, db, "S-108")

	for _, slot := range []int{2, 1} {
		template := models.Template{PersonID: enrolled.ID, SampleNumber: slot, Payload: fmt.Sprintf("p-%d", slot), CapturedAt: time.Now()}
		require.NoError(t, repo.Upsert(ctx, &template))
	}
	orphan := models.Template{PersonID: inactive.ID, SampleNumber: 1, Payload: "hidden", CapturedAt: time.Now()}
	require.NoError(t, repo.Upsert(ctx, &orphan))

	entries, err := repo.Gallery(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, enrolled.ID, entries[0].Person.ID)
	require.Len(t, entries[0].Templates, 2)
	require.Equal(t, 1, entries[0].Templates[0].SampleNumber, "slots come back in ascending order")
}

func TestPersonRepositoryDeleteCascades(t *testing.T) {
	db := setupAttendanceTestDB(t)
	people := NewPersonRepository(db)
	templates := NewTemplateRepository(db)
	attendance := NewAttendanceRepository(db)
	ctx := context.Background()

	person := seedPerson(t, db, "S-109")
	event := seedEvent(t, db, "Workshop", time.Now())

	template := models.Template{PersonID: person.ID, SampleNumber: 1, Payload: "payload", CapturedAt: time.Now()}
	require.NoError(t, templates.Upsert(ctx, &template))
	day := time.Now().Format(models.RecordDateLayout)
	require.NoError(t, attendance.InsertCheckIn(ctx, person.ID, event.ID, day, time.Now(), models.StatusPresent))

	require.NoError(t, people.Delete(ctx, person.ID))

	var templateCount, recordCount int64
	require.NoError(t, db.Model(&models.Template{}).Where("person_id = ?", person.ID).Count(&templateCount).Error)
	require.NoError(t, db.Model(&models.AttendanceRecord{}).Where("person_id = ?", person.ID).Count(&recordCount).Error)
	require.Zero(t, templateCount)
	require.Zero(t, recordCount)

	require.ErrorIs(t, people.Delete(ctx, person.ID), gorm.ErrRecordNotFound)
}

func TestEventRepositoryListActiveAndSoftDelete(t *testing.T) {
	db := setupAttendanceTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	active := seedEvent(t, db, "Active", time.Now())
	inactive := seedEvent(t, db, "Inactive", time.Now())
	require.NoError(t, repo.Deactivate(ctx, inactive.ID))
	deleted := seedEvent(t, db, "Deleted", time.Now())
	require.NoError(t, repo.SoftDelete(ctx, deleted.ID))

	events, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, active.ID, events[0].ID)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2, "soft-deleted events stay hidden from listings")

	withDeleted, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, withDeleted, 3)

	require.ErrorIs(t, repo.SoftDelete(ctx, deleted.ID), gorm.ErrRecordNotFound)
}

func TestEventRepositoryCountPastBetween(t *testing.T) {
	db := setupAttendanceTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	seedEvent(t, db, "Before", from.AddDate(0, 0, -1))
	seedEvent(t, db, "Inside", from.AddDate(0, 0, 5))
	seedEvent(t, db, "Boundary", to)
	hidden := seedEvent(t, db, "Hidden", from.AddDate(0, 0, 10))
	require.NoError(t, repo.SoftDelete(ctx, hidden.ID))

	count, err := repo.CountPastBetween(ctx, from, to)
	require.NoError(t, err)
	require.Equal(t, int64(1), count, "the window is inclusive below and exclusive above")
}
