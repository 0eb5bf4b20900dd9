package db

import (
	"github.com/terraincognita07/miuconsole/internal/models"
	"gorm.io/gorm"
)

type GPTSettingRepository struct {
	database *gorm.DB
}

func NewGPTSettingRepository(database *gorm.DB) *GPTSettingRepository {
	return &GPTSettingRepository{database: database}
}

// Current returns the most recently saved setting. The boolean is false when
// nothing has been saved yet.
func (repo *GPTSettingRepository) Current() (models.GPTSetting, bool, error) {
	var setting models.GPTSetting
	result := repo.database.Order("id DESC").Limit(1).Find(&setting)
	if result.Error != nil {
		return models.GPTSetting{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.GPTSetting{}, false, nil
	}
	return setting, true, nil
}

func (repo *GPTSettingRepository) FindByID(settingID uint) (models.GPTSetting, error) {
	var setting models.GPTSetting
	if err := repo.database.First(&setting, settingID).Error; err != nil {
		return models.GPTSetting{}, err
	}
	return setting, nil
}

// Save inserts setting when its ID is zero and updates it otherwise.
func (repo *GPTSettingRepository) Save(setting *models.GPTSetting) error {
	if setting.FileNames == nil {
		setting.FileNames = []string{}
	}
	return repo.database.Save(setting).Error
}
