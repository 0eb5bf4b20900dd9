// Package cli holds the maintenance commands that run against the devapi
// database without starting a server.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/miuconsole/internal/db"
	"github.com/terraincognita07/miuconsole/internal/security"
	"github.com/terraincognita07/miuconsole/internal/services"
	"golang.org/x/crypto/bcrypt"
)

const temporaryPasswordLength = 12

type ResetAdminPasswordOptions struct {
	DBPath string
	Email  string
	// Prompt asks for the new password on the terminal instead of generating
	// a temporary one.
	Prompt bool
	Stdin  *os.File
	Stdout io.Writer
	// ReadPassword replaces the terminal prompt, for tests.
	ReadPassword func() (string, error)
	// HashCost overrides the bcrypt cost. Zero keeps the default.
	HashCost int
}

func RunResetAdminPasswordCommand(options ResetAdminPasswordOptions) error {
	email := services.NormalizeAuthEmail(options.Email)
	if email == "" {
		return errors.New("a valid admin email is required")
	}
	if options.HashCost != 0 && (options.HashCost < bcrypt.MinCost || options.HashCost > bcrypt.MaxCost) {
		return fmt.Errorf("hash cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	stdout := options.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	password, generated, err := resolveNewPassword(options, stdout)
	if err != nil {
		return err
	}

	database, err := db.OpenSQLite(options.DBPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	admins := services.NewAdminAuthService(db.NewRepositories(database).Admins)
	if options.HashCost != 0 {
		admins = admins.WithHashCost(options.HashCost)
	}
	switch err := admins.ResetPassword(email, password); {
	case errors.Is(err, services.ErrAdminNotFound):
		return fmt.Errorf("admin %s not found", email)
	case errors.Is(err, services.ErrWeakPassword):
		return fmt.Errorf("password must be at least %d characters and mix upper case, lower case and digits", services.MinAdminPasswordLength)
	case err != nil:
		return fmt.Errorf("reset admin password: %w", err)
	}

	fmt.Fprintln(stdout, "Password reset successful")
	if generated {
		fmt.Fprintf(stdout, "Temporary password: %s\n", password)
	}
	return nil
}

func resolveNewPassword(options ResetAdminPasswordOptions, stdout io.Writer) (string, bool, error) {
	if !options.Prompt {
		password, err := security.TemporaryPassword(temporaryPasswordLength)
		if err != nil {
			return "", false, fmt.Errorf("generate temporary password: %w", err)
		}
		return password, true, nil
	}

	read := options.ReadPassword
	if read == nil {
		stdin := options.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		read = func() (string, error) {
			line, err := readPasswordNoEcho(stdin)
			fmt.Fprintln(stdout)
			return string(line), err
		}
	}

	fmt.Fprint(stdout, "New password: ")
	first, err := read()
	if err != nil {
		return "", false, fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(stdout, "Repeat password: ")
	second, err := read()
	if err != nil {
		return "", false, fmt.Errorf("read password: %w", err)
	}
	if first != second {
		return "", false, errors.New("passwords do not match")
	}
	return first, false, nil
}
