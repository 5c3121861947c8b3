package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/souchan25/attendance-go-api/internal/models"
)

// PersonRepository defines persistence operations for enrolled persons.
type PersonRepository interface {
	List(ctx context.Context) ([]models.Person, error)
	GetByID(ctx context.Context, id uint) (models.Person, error)
	GetByCode(ctx context.Context, code string) (models.Person, error)
	Create(ctx context.Context, person *models.Person) error
	Update(ctx context.Context, person *models.Person) error
	// Delete removes the person together with their templates and attendance
	// rows in one transaction.
	Delete(ctx context.Context, id uint) error
}

type personRepository struct {
	db *gorm.DB
}

// NewPersonRepository instantiates a GORM-backed repository.
func NewPersonRepository(db *gorm.DB) PersonRepository {
	return &personRepository{db: db}
}

func (r *personRepository) List(ctx context.Context) ([]models.Person, error) {
	var people []models.Person
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&people).Error; err != nil {
		return nil, err
	}

	return people, nil
}

func (r *personRepository) GetByID(ctx context.Context, id uint) (models.Person, error) {
	var person models.Person
	if err := r.db.WithContext(ctx).First(&person, id).Error; err != nil {
		return models.Person{}, err
	}

	return person, nil
}

func (r *personRepository) GetByCode(ctx context.Context, code string) (models.Person, error) {
	var person models.Person
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&person).Error; err != nil {
		return models.Person{}, err
	}

	return person, nil
}

func (r *personRepository) Create(ctx context.Context, person *models.Person) error {
	return r.db.WithContext(ctx).Create(person).Error
}

func (r *personRepository) Update(ctx context.Context, person *models.Person) error {
	return r.db.WithContext(ctx).Save(person).Error
}

func (r *personRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("person_id = ?", id).Delete(&models.Template{}).Error; err != nil {
			return err
		}
		if err := tx.Where("person_id = ?", id).Delete(&models.AttendanceRecord{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Person{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
