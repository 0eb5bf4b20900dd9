package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/terraincognita07/miuconsole/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubAdminRepo struct {
	admins []models.Admin
}

func (repo *stubAdminRepo) Count() (int64, error) {
	return int64(len(repo.admins)), nil
}

func (repo *stubAdminRepo) FindByID(adminID uint) (models.Admin, error) {
	for _, admin := range repo.admins {
		if admin.ID == adminID {
			return admin, nil
		}
	}
	return models.Admin{}, gorm.ErrRecordNotFound
}

func (repo *stubAdminRepo) FindByNormalizedEmail(email string) (models.Admin, error) {
	for _, admin := range repo.admins {
		if strings.EqualFold(admin.Email, email) {
			return admin, nil
		}
	}
	return models.Admin{}, gorm.ErrRecordNotFound
}

func (repo *stubAdminRepo) Create(admin *models.Admin) error {
	admin.ID = uint(len(repo.admins) + 1)
	repo.admins = append(repo.admins, *admin)
	return nil
}

func (repo *stubAdminRepo) UpdatePassword(adminID uint, passwordHash string) error {
	for index := range repo.admins {
		if repo.admins[index].ID == adminID {
			repo.admins[index].PasswordHash = passwordHash
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func newSeededAdminService(t *testing.T) (*AdminAuthService, *stubAdminRepo) {
	t.Helper()
	repo := &stubAdminRepo{}
	service := NewAdminAuthService(repo).WithHashCost(bcrypt.MinCost)
	created, err := service.EnsureSeedAdmin(" Admin@Example.com ", "StrongPass1")
	if err != nil || !created {
		t.Fatalf("expected seed admin to be created, got created=%v err=%v", created, err)
	}
	return service, repo
}

func TestEnsureSeedAdminCreatesOnlyOnce(t *testing.T) {
	service, repo := newSeededAdminService(t)

	if repo.admins[0].Email != "admin@example.com" {
		t.Fatalf("expected normalized email, got %q", repo.admins[0].Email)
	}
	created, err := service.EnsureSeedAdmin("other@example.com", "StrongPass1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created || len(repo.admins) != 1 {
		t.Fatalf("expected existing admin to block seeding, got created=%v count=%d", created, len(repo.admins))
	}
}

func TestEnsureSeedAdminRejectsWeakPassword(t *testing.T) {
	service := NewAdminAuthService(&stubAdminRepo{}).WithHashCost(bcrypt.MinCost)
	if _, err := service.EnsureSeedAdmin("admin@example.com", "weak"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestAuthenticateAdmin(t *testing.T) {
	service, repo := newSeededAdminService(t)

	admin, err := service.Authenticate("ADMIN@example.com", "StrongPass1")
	if err != nil || admin.ID != 1 {
		t.Fatalf("expected admin 1, got %+v err=%v", admin, err)
	}
	if _, err := service.Authenticate("admin@example.com", "WrongPass1"); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected invalid credentials for wrong password, got %v", err)
	}
	if _, err := service.Authenticate("missing@example.com", "StrongPass1"); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
	if _, err := service.Authenticate("", ""); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected invalid credentials for empty input, got %v", err)
	}

	repo.admins[0].Disabled = true
	if _, err := service.Authenticate("admin@example.com", "WrongPass1"); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("disabled admin with wrong password must look like bad credentials, got %v", err)
	}
	if _, err := service.Authenticate("admin@example.com", "StrongPass1"); !errors.Is(err, ErrAdminDisabled) {
		t.Fatalf("expected ErrAdminDisabled, got %v", err)
	}
	if _, err := service.FindActive(1); !errors.Is(err, ErrAdminDisabled) {
		t.Fatalf("expected FindActive to reject disabled admin, got %v", err)
	}
	if _, err := service.FindActive(9); !errors.Is(err, ErrAdminNotFound) {
		t.Fatalf("expected ErrAdminNotFound, got %v", err)
	}
}

func TestResetAdminPassword(t *testing.T) {
	service, _ := newSeededAdminService(t)

	if err := service.ResetPassword("admin@example.com", "NewStrong2"); err != nil {
		t.Fatalf("unexpected reset error: %v", err)
	}
	if _, err := service.Authenticate("admin@example.com", "StrongPass1"); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, err := service.Authenticate("admin@example.com", "NewStrong2"); err != nil {
		t.Fatalf("new password must work, got %v", err)
	}
	if err := service.ResetPassword("nobody@example.com", "NewStrong2"); !errors.Is(err, ErrAdminNotFound) {
		t.Fatalf("expected ErrAdminNotFound, got %v", err)
	}
	if err := service.ResetPassword("admin@example.com", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}
