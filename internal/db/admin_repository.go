package db

import (
	"strings"

	"github.com/terraincognita07/miuconsole/internal/models"
	"gorm.io/gorm"
)

type AdminRepository struct {
	database *gorm.DB
}

func NewAdminRepository(database *gorm.DB) *AdminRepository {
	return &AdminRepository{database: database}
}

func (repo *AdminRepository) Count() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *AdminRepository) FindByID(adminID uint) (models.Admin, error) {
	var admin models.Admin
	if err := repo.database.First(&admin, adminID).Error; err != nil {
		return models.Admin{}, err
	}
	return admin, nil
}

func (repo *AdminRepository) FindByNormalizedEmail(email string) (models.Admin, error) {
	var admin models.Admin
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := repo.database.Where("lower(trim(email)) = ?", normalized).First(&admin).Error; err != nil {
		return models.Admin{}, err
	}
	return admin, nil
}

func (repo *AdminRepository) Create(admin *models.Admin) error {
	return repo.database.Create(admin).Error
}

func (repo *AdminRepository) UpdatePassword(adminID uint, passwordHash string) error {
	return repo.database.Model(&models.Admin{}).Where("id = ?", adminID).Update("password_hash", passwordHash).Error
}

func (repo *AdminRepository) SetDisabled(adminID uint, disabled bool) error {
	return repo.database.Model(&models.Admin{}).Where("id = ?", adminID).Update("disabled", disabled).Error
}
