package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/miuconsole/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrAdminDisabled = errors.New("admin disabled")
	ErrAdminNotFound = errors.New("admin not found")
)

type AdminRepository interface {
	Count() (int64, error)
	FindByID(adminID uint) (models.Admin, error)
	FindByNormalizedEmail(email string) (models.Admin, error)
	Create(admin *models.Admin) error
	UpdatePassword(adminID uint, passwordHash string) error
}

type AdminAuthService struct {
	admins AdminRepository
	cost   int
}

func NewAdminAuthService(admins AdminRepository) *AdminAuthService {
	return &AdminAuthService{admins: admins, cost: bcrypt.DefaultCost}
}

// WithHashCost lowers the bcrypt cost, for tests.
func (service *AdminAuthService) WithHashCost(cost int) *AdminAuthService {
	copied := *service
	copied.cost = cost
	return &copied
}

// Authenticate checks the password before the disabled flag, so only someone
// who knows the password learns that the account is disabled.
func (service *AdminAuthService) Authenticate(emailRaw string, passwordRaw string) (models.Admin, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.Admin{}, err
	}

	admin, err := service.admins.FindByNormalizedEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Admin{}, ErrAuthCredentialsInvalid
		}
		return models.Admin{}, fmt.Errorf("load admin: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return models.Admin{}, ErrAuthCredentialsInvalid
	}
	if admin.Disabled {
		return models.Admin{}, ErrAdminDisabled
	}
	return admin, nil
}

// FindActive loads an admin for a token refresh.
func (service *AdminAuthService) FindActive(adminID uint) (models.Admin, error) {
	admin, err := service.admins.FindByID(adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Admin{}, ErrAdminNotFound
		}
		return models.Admin{}, fmt.Errorf("load admin: %w", err)
	}
	if admin.Disabled {
		return models.Admin{}, ErrAdminDisabled
	}
	return admin, nil
}

// EnsureSeedAdmin creates the first administrator when none exists yet. It
// reports whether an account was created.
func (service *AdminAuthService) EnsureSeedAdmin(emailRaw string, password string) (bool, error) {
	count, err := service.admins.Count()
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return false, ErrAuthCredentialsInvalid
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return false, err
	}
	hash, err := service.hash(password)
	if err != nil {
		return false, err
	}

	admin := models.Admin{Email: email, PasswordHash: hash, CreatedAt: time.Now().UTC()}
	if err := service.admins.Create(&admin); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}

func (service *AdminAuthService) ResetPassword(emailRaw string, password string) error {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return ErrAuthCredentialsInvalid
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return err
	}

	admin, err := service.admins.FindByNormalizedEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("load admin: %w", err)
	}
	hash, err := service.hash(password)
	if err != nil {
		return err
	}
	if err := service.admins.UpdatePassword(admin.ID, hash); err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	return nil
}

func (service *AdminAuthService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), service.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
