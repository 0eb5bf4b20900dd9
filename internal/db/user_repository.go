package db

import (
	"strings"
	"time"

	"github.com/terraincognita07/miuconsole/internal/models"
	"gorm.io/gorm"
)

const (
	UserSearchAll      = "all"
	UserSearchEmail    = "user_email"
	UserSearchNickname = "user_nickname"

	UserSortCreatedAt = "created_at"
	UserSortNickname  = "user_nickname"
)

// UserQuery filters the admin user list. CreatedFrom and CreatedTo are
// inclusive calendar days; zero values leave that side open.
type UserQuery struct {
	Page        int
	PerPage     int
	SearchType  string
	SearchValue string
	Sort        string
	CreatedFrom time.Time
	CreatedTo   time.Time
}

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(userID uint) (models.User, error) {
	var user models.User
	if err := repo.database.First(&user, userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) Create(user *models.User) error {
	return repo.database.Create(user).Error
}

func (repo *UserRepository) TouchLastLogin(userID uint, at time.Time) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Update("last_login_at", at).Error
}

// List returns one page of users and the total number of matches.
func (repo *UserRepository) List(query UserQuery) ([]models.User, int64, error) {
	filtered := repo.database.Model(&models.User{})

	value := strings.ToLower(strings.TrimSpace(query.SearchValue))
	if value != "" {
		pattern := "%" + value + "%"
		switch query.SearchType {
		case UserSearchEmail:
			filtered = filtered.Where("lower(email) LIKE ?", pattern)
		case UserSearchNickname:
			filtered = filtered.Where("lower(nickname) LIKE ?", pattern)
		default:
			filtered = filtered.Where("lower(email) LIKE ? OR lower(nickname) LIKE ?", pattern, pattern)
		}
	}
	if !query.CreatedFrom.IsZero() {
		filtered = filtered.Where("created_at >= ?", query.CreatedFrom)
	}
	if !query.CreatedTo.IsZero() {
		filtered = filtered.Where("created_at < ?", query.CreatedTo.AddDate(0, 0, 1))
	}

	var total int64
	if err := filtered.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC, id DESC"
	if query.Sort == UserSortNickname {
		order = "nickname ASC, id ASC"
	}
	perPage := query.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	page := query.Page
	if page < 1 {
		page = 1
	}

	users := make([]models.User, 0, perPage)
	if err := filtered.Order(order).Limit(perPage).Offset((page - 1) * perPage).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
