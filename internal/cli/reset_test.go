package cli

import (
	"bytes"
	"io"
	"log"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/miuconsole/internal/db"
	"github.com/terraincognita07/miuconsole/internal/services"
	"golang.org/x/crypto/bcrypt"
)

func seedAdminDatabase(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "devapi.db")
	database, err := db.OpenSQLiteWithLogger(dbPath, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	created, err := services.NewAdminAuthService(db.NewRepositories(database).Admins).
		WithHashCost(bcrypt.MinCost).
		EnsureSeedAdmin("admin@example.com", "StrongPass1")
	require.NoError(t, err)
	require.True(t, created)
	return dbPath
}

func authenticate(t *testing.T, dbPath string, password string) error {
	t.Helper()

	database, err := db.OpenSQLiteWithLogger(dbPath, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	_, err = services.NewAdminAuthService(db.NewRepositories(database).Admins).Authenticate("admin@example.com", password)
	return err
}

func TestResetAdminPasswordGeneratesTemporaryPassword(t *testing.T) {
	t.Parallel()

	dbPath := seedAdminDatabase(t)
	var stdout bytes.Buffer

	err := RunResetAdminPasswordCommand(ResetAdminPasswordOptions{
		DBPath:   dbPath,
		Email:    " ADMIN@example.com ",
		Stdout:   &stdout,
		HashCost: bcrypt.MinCost,
	})
	require.NoError(t, err)

	var temporary string
	for _, line := range strings.Split(stdout.String(), "\n") {
		if value, ok := strings.CutPrefix(line, "Temporary password: "); ok {
			temporary = value
		}
	}
	require.Len(t, temporary, temporaryPasswordLength)
	assert.NoError(t, authenticate(t, dbPath, temporary))
	assert.ErrorIs(t, authenticate(t, dbPath, "StrongPass1"), services.ErrAuthCredentialsInvalid)
}

func TestResetAdminPasswordPromptsTwice(t *testing.T) {
	t.Parallel()

	dbPath := seedAdminDatabase(t)
	answers := []string{"NewStrong2", "NewStrong2"}
	var stdout bytes.Buffer

	err := RunResetAdminPasswordCommand(ResetAdminPasswordOptions{
		DBPath: dbPath,
		Email:  "admin@example.com",
		Prompt: true,
		Stdout: &stdout,
		ReadPassword: func() (string, error) {
			answer := answers[0]
			answers = answers[1:]
			return answer, nil
		},
		HashCost: bcrypt.MinCost,
	})
	require.NoError(t, err)
	assert.NotContains(t, stdout.String(), "Temporary password")
	assert.NoError(t, authenticate(t, dbPath, "NewStrong2"))
}

func TestResetAdminPasswordRejectsBadInput(t *testing.T) {
	t.Parallel()

	dbPath := seedAdminDatabase(t)

	err := RunResetAdminPasswordCommand(ResetAdminPasswordOptions{DBPath: dbPath, Email: "not-an-email", Stdout: io.Discard})
	assert.ErrorContains(t, err, "valid admin email")

	err = RunResetAdminPasswordCommand(ResetAdminPasswordOptions{DBPath: dbPath, Email: "other@example.com", Stdout: io.Discard, HashCost: bcrypt.MinCost})
	assert.ErrorContains(t, err, "not found")

	answers := []string{"NewStrong2", "Different3"}
	err = RunResetAdminPasswordCommand(ResetAdminPasswordOptions{
		DBPath: dbPath,
		Email:  "admin@example.com",
		Prompt: true,
		Stdout: io.Discard,
		ReadPassword: func() (string, error) {
			answer := answers[0]
			answers = answers[1:]
			return answer, nil
		},
	})
	assert.ErrorContains(t, err, "do not match")

	err = RunResetAdminPasswordCommand(ResetAdminPasswordOptions{
		DBPath:       dbPath,
		Email:        "admin@example.com",
		Prompt:       true,
		Stdout:       io.Discard,
		ReadPassword: func() (string, error) { return "weak", nil },
	})
	assert.ErrorContains(t, err, "at least 8 characters")
}

func TestResetAdminPasswordRejectsHashCostOutOfRange(t *testing.T) {
	t.Parallel()

	dbPath := seedAdminDatabase(t)

	for _, cost := range []int{bcrypt.MinCost - 1, bcrypt.MaxCost + 1} {
		err := RunResetAdminPasswordCommand(ResetAdminPasswordOptions{DBPath: dbPath, Email: "admin@example.com", Stdout: io.Discard, HashCost: cost})
		assert.ErrorContains(t, err, "hash cost must be between")
	}
	assert.NoError(t, authenticate(t, dbPath, "StrongPass1"), "rejected cost must not touch the stored password")
}
