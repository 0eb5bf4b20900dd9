package services

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/miuconsole/internal/models"
	"gorm.io/gorm"
)

var GPTVersions = []string{"gpt-4o-mini", "gpt-4o", "gpt-5", "gpt-5 mini", "gpt-5 nano"}

const maxGPTTextLength = 200

var (
	ErrGPTSettingInvalid  = errors.New("gpt setting invalid")
	ErrGPTSettingNotFound = errors.New("gpt setting not found")
)

type GPTSettingRepository interface {
	Current() (models.GPTSetting, bool, error)
	FindByID(settingID uint) (models.GPTSetting, error)
	Save(setting *models.GPTSetting) error
}

type GPTSettingService struct {
	settings GPTSettingRepository
}

func NewGPTSettingService(settings GPTSettingRepository) *GPTSettingService {
	return &GPTSettingService{settings: settings}
}

// GPTSettingInput mirrors the multipart save form. FileNames are the names of
// the uploaded learning files.
type GPTSettingInput struct {
	SettingID    string
	Version      string
	Instruction  string
	DataType     string
	LearningText string
	FallBackType string
	FallBackText string
	FileNames    []string
}

func (service *GPTSettingService) Current() (*models.GPTSetting, error) {
	setting, ok, err := service.settings.Current()
	if err != nil {
		return nil, fmt.Errorf("load gpt setting: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &setting, nil
}

// Save creates a setting or updates the one named by SettingID. Switching to
// text drops uploaded files; switching to files clears the learning text.
// Saving files on an existing setting keeps its file list unless new files
// were uploaded.
func (service *GPTSettingService) Save(input GPTSettingInput) (models.GPTSetting, error) {
	version := strings.TrimSpace(input.Version)
	if !slices.Contains(GPTVersions, version) {
		return models.GPTSetting{}, fmt.Errorf("%w: version", ErrGPTSettingInvalid)
	}
	dataType := strings.TrimSpace(input.DataType)
	if dataType != models.GPTDataTypeText && dataType != models.GPTDataTypeFile {
		return models.GPTSetting{}, fmt.Errorf("%w: data_type", ErrGPTSettingInvalid)
	}

	setting := models.GPTSetting{CreatedAt: time.Now().UTC(), FileNames: []string{}}
	if raw := strings.TrimSpace(input.SettingID); raw != "" {
		settingID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || settingID == 0 {
			return models.GPTSetting{}, fmt.Errorf("%w: gpt_setting_id", ErrGPTSettingInvalid)
		}
		existing, err := service.settings.FindByID(uint(settingID))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.GPTSetting{}, ErrGPTSettingNotFound
			}
			return models.GPTSetting{}, fmt.Errorf("load gpt setting: %w", err)
		}
		setting = existing
	}

	setting.Version = version
	setting.Instruction = truncateRunes(strings.TrimSpace(input.Instruction), maxGPTTextLength)
	setting.DataType = dataType
	setting.FallBackType = strings.TrimSpace(input.FallBackType) == "true"
	setting.FallBackText = truncateRunes(strings.TrimSpace(input.FallBackText), maxGPTTextLength)

	switch dataType {
	case models.GPTDataTypeFile:
		setting.LearningText = ""
		if len(input.FileNames) > 0 {
			setting.FileNames = append([]string(nil), input.FileNames...)
		}
	default:
		setting.LearningText = truncateRunes(strings.TrimSpace(input.LearningText), maxGPTTextLength)
		setting.FileNames = []string{}
	}

	if err := service.settings.Save(&setting); err != nil {
		return models.GPTSetting{}, fmt.Errorf("save gpt setting: %w", err)
	}
	return setting, nil
}

func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
