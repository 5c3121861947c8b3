package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/souchan25/attendance-go-api/internal/models"
)

// EventRepository defines persistence operations for scheduled events.
// Soft-deleted events are excluded from every listing unless asked for.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (models.Event, error)
	List(ctx context.Context, includeDeleted bool) ([]models.Event, error)
	ListActive(ctx context.Context) ([]models.Event, error)
	Deactivate(ctx context.Context, id uint) error
	SoftDelete(ctx context.Context, id uint) error
	// CountPastBetween counts non-deleted events dated on/after from and
	// strictly before to.
	CountPastBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository instantiates a GORM-backed repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) GetByID(ctx context.Context, id uint) (models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return models.Event{}, err
	}

	return event, nil
}

func (r *eventRepository) List(ctx context.Context, includeDeleted bool) ([]models.Event, error) {
	query := r.db.WithContext(ctx).Order("event_date DESC, id DESC")
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}

	var events []models.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) ListActive(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_deleted = ?", true, false).
		Order("event_date DESC, id DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) Deactivate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *eventRepository) SoftDelete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *eventRepository) CountPastBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("is_deleted = ? AND event_date >= ? AND event_date < ?", false, from, to).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
