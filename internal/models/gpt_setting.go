package models

import "time"

const (
	GPTDataTypeText = "text"
	GPTDataTypeFile = "file"
)

// GPTSetting is the assistant configuration edited from the admin console.
// FileNames lists uploaded learning files when DataType is file.
type GPTSetting struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Version      string    `gorm:"not null" json:"version"`
	Instruction  string    `gorm:"not null;default:''" json:"instruction"`
	DataType     string    `gorm:"not null;default:text" json:"data_type"`
	LearningText string    `gorm:"not null;default:''" json:"learning_text"`
	FallBackType bool      `gorm:"not null" json:"fall_back_type"`
	FallBackText string    `gorm:"not null;default:''" json:"fall_back_text"`
	FileNames    []string  `gorm:"serializer:json;not null" json:"vc_file_names"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (GPTSetting) TableName() string {
	return "gpt_settings"
}
