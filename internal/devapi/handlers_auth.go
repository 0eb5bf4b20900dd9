package devapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/miuconsole/internal/services"
	"github.com/terraincognita07/miuconsole/internal/session"
	"go.uber.org/zap"
)

type adminLoginInput struct {
	Email    string `json:"admin_email"`
	Password string `json:"admin_password"`
}

func (server *Server) AdminLogin(c *fiber.Ctx) error {
	input := adminLoginInput{}
	if err := c.BodyParser(&input); err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, "admin_email and admin_password are required")
	}
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return detail(c, fiber.StatusUnprocessableEntity, "admin_email and admin_password are required")
	}

	admin, err := server.admins.Authenticate(input.Email, input.Password)
	switch {
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		return detail(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrAdminDisabled):
		return detail(c, fiber.StatusForbidden, "admin disabled")
	case err != nil:
		server.logger.Error("admin login", zap.Error(err))
		return detail(c, fiber.StatusInternalServerError, "admin login failed")
	}

	if err := server.issueSession(c, account{Role: roleAdmin, ID: admin.ID, CreatedAt: admin.CreatedAt}); err != nil {
		server.logger.Error("issue admin session", zap.Error(err))
		return detail(c, fiber.StatusInternalServerError, "admin login failed")
	}
	return c.JSON(fiber.Map{"message": "admin login successful"})
}

// RefreshToken reissues every session cookie for the account and role named
// in the refresh token.
func (server *Server) RefreshToken(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Cookies(session.RefreshTokenCookieName))
	if raw == "" {
		return detail(c, fiber.StatusUnauthorized, "refresh token not found")
	}
	claims, err := server.parseToken(raw, tokenTypeRefresh)
	if err != nil {
		return detail(c, fiber.StatusUnauthorized, "invalid refresh token")
	}
	accountID, err := claims.accountID()
	if err != nil {
		return detail(c, fiber.StatusUnauthorized, "invalid refresh payload")
	}

	subject, status, message := server.loadAccount(claims.Role, accountID)
	if status != fiber.StatusOK {
		if status == fiber.StatusUnauthorized || status == fiber.StatusForbidden {
			server.clearSession(c)
		}
		return detail(c, status, message)
	}
	if err := server.issueSession(c, subject); err != nil {
		server.logger.Error("issue refreshed session", zap.Error(err))
		return detail(c, fiber.StatusInternalServerError, "refresh failed")
	}
	return c.JSON(fiber.Map{"message": "token refreshed"})
}

func (server *Server) loadAccount(role string, accountID uint) (account, int, string) {
	switch role {
	case roleAdmin:
		admin, err := server.admins.FindActive(accountID)
		switch {
		case errors.Is(err, services.ErrAdminNotFound):
			return account{}, fiber.StatusUnauthorized, "admin not found"
		case errors.Is(err, services.ErrAdminDisabled):
			return account{}, fiber.StatusForbidden, "admin disabled"
		case err != nil:
			server.logger.Error("load admin for refresh", zap.Error(err))
			return account{}, fiber.StatusInternalServerError, "refresh failed"
		}
		return account{Role: roleAdmin, ID: admin.ID, CreatedAt: admin.CreatedAt}, fiber.StatusOK, ""
	case roleUser:
		user, err := server.users.Profile(accountID)
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return account{}, fiber.StatusUnauthorized, "user not found"
		case err != nil:
			server.logger.Error("load user for refresh", zap.Error(err))
			return account{}, fiber.StatusInternalServerError, "refresh failed"
		}
		if !user.Active {
			return account{}, fiber.StatusForbidden, "user inactive"
		}
		return account{Role: roleUser, ID: user.ID, Nickname: user.Nickname, CreatedAt: user.CreatedAt}, fiber.StatusOK, ""
	default:
		return account{}, fiber.StatusUnauthorized, "invalid token type"
	}
}

func (server *Server) Logout(c *fiber.Ctx) error {
	server.clearSession(c)
	if currentClaims(c).Role == roleAdmin {
		return c.JSON(fiber.Map{"message": "admin logout successful"})
	}
	return c.JSON(fiber.Map{"message": "user logout successful"})
}
