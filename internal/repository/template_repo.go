package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/souchan25/attendance-go-api/internal/models"
)

// GalleryEntry pairs a person with their enrolled templates, ordered by
// sample number. The identification scan walks entries in person-ID order.
type GalleryEntry struct {
	Person    models.Person
	Templates []models.Template
}

// TemplateRepository defines persistence operations for fingerprint templates.
type TemplateRepository interface {
	// Upsert stores the template, replacing any existing one in the same
	// (person, sample number) slot.
	Upsert(ctx context.Context, template *models.Template) error
	ListByPerson(ctx context.Context, personID uint) ([]models.Template, error)
	// Gallery returns every active person that has at least one template,
	// in ascending person-ID order with templates in ascending slot order.
	Gallery(ctx context.Context) ([]GalleryEntry, error)
}

type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository instantiates a GORM-backed repository.
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Upsert(ctx context.Context, template *models.Template) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "person_id"}, {Name: "sample_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "quality", "captured_at"}),
	}).Create(template).Error
}

func (r *templateRepository) ListByPerson(ctx context.Context, personID uint) ([]models.Template, error) {
	var templates []models.Template
	err := r.db.WithContext(ctx).
		Where("person_id = ?", personID).
		Order("sample_number ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *templateRepository) Gallery(ctx context.Context) ([]GalleryEntry, error) {
	var people []models.Person
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&people).Error
	if err != nil {
		return nil, err
	}

	var templates []models.Template
	err = r.db.WithContext(ctx).
		Order("person_id ASC, sample_number ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}

	byPerson := make(map[uint][]models.Template, len(people))
	for _, template := range templates {
		byPerson[template.PersonID] = append(byPerson[template.PersonID], template)
	}

	entries := make([]GalleryEntry, 0, len(people))
	for _, person := range people {
		if owned := byPerson[person.ID]; len(owned) > 0 {
			entries = append(entries, GalleryEntry{Person: person, Templates: owned})
		}
	}

	return entries, nil
}
