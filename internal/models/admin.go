package models

import "time"

type Admin struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Disabled     bool      `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}
