package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/miuconsole/internal/db"
	"github.com/terraincognita07/miuconsole/internal/models"
	"gorm.io/gorm"
)

const (
	DefaultUsersRowCount = 10
	MaxUsersRowCount     = 100
)

var (
	ErrUserListQueryInvalid = errors.New("user list query invalid")
	ErrUserNotFound         = errors.New("user not found")
)

type UserRepository interface {
	FindByID(userID uint) (models.User, error)
	List(query db.UserQuery) ([]models.User, int64, error)
}

type UserDirectoryService struct {
	users    UserRepository
	location *time.Location
}

func NewUserDirectoryService(users UserRepository, location *time.Location) *UserDirectoryService {
	if location == nil {
		location = time.UTC
	}
	return &UserDirectoryService{users: users, location: location}
}

// UserListInput is the raw query of the admin user list.
type UserListInput struct {
	Page        string
	RowCount    string
	SearchType  string
	SearchValue string
	Sort        string
	StartDate   string
	EndDate     string
}

type UserListPage struct {
	Rows  []models.User `json:"rows"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
}

// ParseUserListQuery validates raw list parameters. Start and end dates are
// calendar days in the service location.
func (service *UserDirectoryService) ParseUserListQuery(input UserListInput) (db.UserQuery, error) {
	query := db.UserQuery{
		Page:        1,
		PerPage:     DefaultUsersRowCount,
		SearchType:  db.UserSearchAll,
		SearchValue: strings.TrimSpace(input.SearchValue),
		Sort:        db.UserSortCreatedAt,
	}

	if raw := strings.TrimSpace(input.Page); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return db.UserQuery{}, fmt.Errorf("%w: page", ErrUserListQueryInvalid)
		}
		query.Page = page
	}
	if raw := strings.TrimSpace(input.RowCount); raw != "" {
		rowCount, err := strconv.Atoi(raw)
		if err != nil || rowCount < 1 || rowCount > MaxUsersRowCount {
			return db.UserQuery{}, fmt.Errorf("%w: row_count", ErrUserListQueryInvalid)
		}
		query.PerPage = rowCount
	}

	switch strings.TrimSpace(input.SearchType) {
	case "", db.UserSearchAll:
	case db.UserSearchEmail, db.UserSearchNickname:
		query.SearchType = strings.TrimSpace(input.SearchType)
	default:
		return db.UserQuery{}, fmt.Errorf("%w: search_type", ErrUserListQueryInvalid)
	}
	switch strings.TrimSpace(input.Sort) {
	case "", db.UserSortCreatedAt:
	case db.UserSortNickname:
		query.Sort = db.UserSortNickname
	default:
		return db.UserQuery{}, fmt.Errorf("%w: sort", ErrUserListQueryInvalid)
	}

	var err error
	if query.CreatedFrom, err = service.parseDay(input.StartDate); err != nil {
		return db.UserQuery{}, fmt.Errorf("%w: start_date", ErrUserListQueryInvalid)
	}
	if query.CreatedTo, err = service.parseDay(input.EndDate); err != nil {
		return db.UserQuery{}, fmt.Errorf("%w: end_date", ErrUserListQueryInvalid)
	}
	if !query.CreatedFrom.IsZero() && !query.CreatedTo.IsZero() && query.CreatedTo.Before(query.CreatedFrom) {
		return db.UserQuery{}, fmt.Errorf("%w: end_date before start_date", ErrUserListQueryInvalid)
	}
	return query, nil
}

func (service *UserDirectoryService) parseDay(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation("2006-01-02", value, service.location)
}

func (service *UserDirectoryService) List(query db.UserQuery) (UserListPage, error) {
	users, total, err := service.users.List(query)
	if err != nil {
		return UserListPage{}, fmt.Errorf("list users: %w", err)
	}
	return UserListPage{Rows: users, Total: total, Page: query.Page}, nil
}

func (service *UserDirectoryService) Profile(userID uint) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}
