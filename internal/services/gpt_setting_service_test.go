package services

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/terraincognita07/miuconsole/internal/models"
	"gorm.io/gorm"
)

type stubGPTSettingRepo struct {
	settings []models.GPTSetting
}

func (repo *stubGPTSettingRepo) Current() (models.GPTSetting, bool, error) {
	if len(repo.settings) == 0 {
		return models.GPTSetting{}, false, nil
	}
	return repo.settings[len(repo.settings)-1], true, nil
}

func (repo *stubGPTSettingRepo) FindByID(settingID uint) (models.GPTSetting, error) {
	for _, setting := range repo.settings {
		if setting.ID == settingID {
			return setting, nil
		}
	}
	return models.GPTSetting{}, gorm.ErrRecordNotFound
}

func (repo *stubGPTSettingRepo) Save(setting *models.GPTSetting) error {
	if setting.ID == 0 {
		setting.ID = uint(len(repo.settings) + 1)
		repo.settings = append(repo.settings, *setting)
		return nil
	}
	for index := range repo.settings {
		if repo.settings[index].ID == setting.ID {
			repo.settings[index] = *setting
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func TestGPTSettingCurrentIsNilUntilSaved(t *testing.T) {
	service := NewGPTSettingService(&stubGPTSettingRepo{})

	setting, err := service.Current()
	if err != nil || setting != nil {
		t.Fatalf("expected nil setting, got %+v err=%v", setting, err)
	}
}

func TestGPTSettingSaveSwitchesDataType(t *testing.T) {
	repo := &stubGPTSettingRepo{}
	service := NewGPTSettingService(repo)

	saved, err := service.Save(GPTSettingInput{
		Version:      "gpt-5",
		DataType:     "file",
		LearningText: "ignored",
		FallBackType: "true",
		FileNames:    []string{"guide.pdf", "faq.txt"},
	})
	if err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	if saved.ID != 1 || saved.LearningText != "" || !saved.FallBackType || len(saved.FileNames) != 2 {
		t.Fatalf("unexpected file setting: %+v", saved)
	}

	kept, err := service.Save(GPTSettingInput{SettingID: "1", Version: "gpt-5", DataType: "file", FallBackType: "yes"})
	if err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	if len(kept.FileNames) != 2 {
		t.Fatalf("expected files without new uploads to be kept, got %v", kept.FileNames)
	}
	if kept.FallBackType {
		t.Fatal("expected only the literal true to enable the fallback")
	}

	text, err := service.Save(GPTSettingInput{SettingID: "1", Version: "gpt-4o", DataType: "text", LearningText: " faq "})
	if err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	if text.LearningText != "faq" || len(text.FileNames) != 0 {
		t.Fatalf("expected text setting to drop files, got %+v", text)
	}

	current, err := service.Current()
	if err != nil || current == nil || current.Version != "gpt-4o" {
		t.Fatalf("expected updated current setting, got %+v err=%v", current, err)
	}
	if len(repo.settings) != 1 {
		t.Fatalf("expected updates in place, got %d settings", len(repo.settings))
	}
}

func TestGPTSettingSaveTruncatesText(t *testing.T) {
	service := NewGPTSettingService(&stubGPTSettingRepo{})

	saved, err := service.Save(GPTSettingInput{
		Version:     "gpt-4o-mini",
		DataType:    "text",
		Instruction: strings.Repeat("가", maxGPTTextLength+20),
	})
	if err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	if got := utf8.RuneCountInString(saved.Instruction); got != maxGPTTextLength {
		t.Fatalf("expected %d runes, got %d", maxGPTTextLength, got)
	}
}

func TestGPTSettingSaveRejectsInvalidInput(t *testing.T) {
	service := NewGPTSettingService(&stubGPTSettingRepo{})

	if _, err := service.Save(GPTSettingInput{Version: "gpt-3", DataType: "text"}); !errors.Is(err, ErrGPTSettingInvalid) {
		t.Fatalf("expected invalid version, got %v", err)
	}
	if _, err := service.Save(GPTSettingInput{Version: "gpt-5", DataType: "audio"}); !errors.Is(err, ErrGPTSettingInvalid) {
		t.Fatalf("expected invalid data type, got %v", err)
	}
	if _, err := service.Save(GPTSettingInput{SettingID: "x", Version: "gpt-5", DataType: "text"}); !errors.Is(err, ErrGPTSettingInvalid) {
		t.Fatalf("expected invalid id, got %v", err)
	}
	if _, err := service.Save(GPTSettingInput{SettingID: "4", Version: "gpt-5", DataType: "text"}); !errors.Is(err, ErrGPTSettingNotFound) {
		t.Fatalf("expected ErrGPTSettingNotFound, got %v", err)
	}
}
