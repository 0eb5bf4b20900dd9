package models

import "time"

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Nickname     string     `gorm:"column:nickname;not null" json:"user_nickname"`
	Email        string     `gorm:"not null" json:"user_email"`
	ProfileImage string     `gorm:"column:profile_image;not null;default:''" json:"user_profile_image"`
	Active       bool       `gorm:"not null" json:"active"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}
