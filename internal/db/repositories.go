package db

import "gorm.io/gorm"

type Repositories struct {
	Admins      *AdminRepository
	Users       *UserRepository
	GPTSettings *GPTSettingRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Admins:      NewAdminRepository(database),
		Users:       NewUserRepository(database),
		GPTSettings: NewGPTSettingRepository(database),
	}
}
