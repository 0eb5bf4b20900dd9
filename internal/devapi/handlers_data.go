package devapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/miuconsole/internal/services"
	"go.uber.org/zap"
)

const maxLearningFiles = 10

func (server *Server) Me(c *fiber.Ctx) error {
	accountID, err := currentClaims(c).accountID()
	if err != nil {
		return detail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	user, err := server.users.Profile(accountID)
	if errors.Is(err, services.ErrUserNotFound) {
		return detail(c, fiber.StatusNotFound, "user not found")
	}
	if err != nil {
		server.logger.Error("load profile", zap.Error(err))
		return detail(c, fiber.StatusInternalServerError, "profile unavailable")
	}
	return c.JSON(user)
}

func (server *Server) ListUsers(c *fiber.Ctx) error {
	query, err := server.users.ParseUserListQuery(services.UserListInput{
		Page:        c.Query("page"),
		RowCount:    c.Query("row_count"),
		SearchType:  c.Query("search_type"),
		SearchValue: c.Query("search_value"),
		Sort:        c.Query("sort"),
		StartDate:   c.Query("start_date"),
		EndDate:     c.Query("end_date"),
	})
	if err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	page, err := server.users.List(query)
	if err != nil {
		server.logger.Error("list users", zap.Error(err))
		return detail(c, fiber.StatusInternalServerError, "user list unavailable")
	}
	return c.JSON(page)
}

// GetGPTSetting answers null until a setting has been saved.
func (server *Server) GetGPTSetting(c *fiber.Ctx) error {
	setting, err := server.gptSettings.Current()
	if err != nil {
		server.logger.Error("load gpt setting", zap.Error(err))
		return detail(c, fiber.StatusInternalServerError, "gpt setting unavailable")
	}
	if setting == nil {
		c.Type("json")
		return c.SendString("null")
	}
	return c.JSON(setting)
}

func (server *Server) SaveGPTSetting(c *fiber.Ctx) error {
	input := services.GPTSettingInput{
		SettingID:    c.FormValue("gpt_setting_id"),
		Version:      c.FormValue("version"),
		Instruction:  c.FormValue("instruction"),
		DataType:     c.FormValue("data_type"),
		LearningText: c.FormValue("learning_text"),
		FallBackType: c.FormValue("fall_back_type"),
		FallBackText: c.FormValue("fall_back_text"),
	}
	fileNames, err := uploadedFileNames(c)
	if err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	input.FileNames = fileNames

	_, err = server.gptSettings.Save(input)
	switch {
	case errors.Is(err, services.ErrGPTSettingInvalid):
		return detail(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrGPTSettingNotFound):
		return detail(c, fiber.StatusNotFound, "gpt setting not found")
	case err != nil:
		server.logger.Error("save gpt setting", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON("gpt setting save failed")
	}
	return c.JSON("gpt setting saved successfully")
}

func uploadedFileNames(c *fiber.Ctx) ([]string, error) {
	if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("read multipart form: %w", err)
	}
	files := form.File["files"]
	if len(files) > maxLearningFiles {
		return nil, fmt.Errorf("at most %d files are accepted", maxLearningFiles)
	}
	names := make([]string, 0, len(files))
	for _, header := range files {
		if name := strings.TrimSpace(header.Filename); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
