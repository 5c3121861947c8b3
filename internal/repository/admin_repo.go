package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/souchan25/attendance-go-api/internal/models"
)

// AdminRepository defines persistence operations for operator accounts.
type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (models.Admin, error)
	List(ctx context.Context) ([]models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
	Update(ctx context.Context, admin *models.Admin) error
	Delete(ctx context.Context, id uint) error
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository instantiates a GORM-backed repository.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		return models.Admin{}, err
	}

	return admin, nil
}

func (r *adminRepository) List(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&admins).Error; err != nil {
		return nil, err
	}

	return admins, nil
}

func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepository) Update(ctx context.Context, admin *models.Admin) error {
	return r.db.WithContext(ctx).Save(admin).Error
}

func (r *adminRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Admin{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
