package console

import (
	"fmt"
	"io"
	"mime/multipart"
	"slices"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/miuconsole/internal/apiclient"
	"go.uber.org/zap"
)

const (
	gptPath         = "/admin/gpt"
	gptDataTypeText = "text"
	gptDataTypeFile = "file"
	maxGPTFiles     = 10
)

var gptVersions = []string{"gpt-4o-mini", "gpt-4o", "gpt-5", "gpt-5 mini", "gpt-5 nano"}

type gptSetting struct {
	ID           int64    `json:"id"`
	Version      string   `json:"version"`
	Instruction  string   `json:"instruction"`
	DataType     string   `json:"data_type"`
	LearningText string   `json:"learning_text"`
	FallBackType bool     `json:"fall_back_type"`
	FallBackText string   `json:"fall_back_text"`
	FileNames    []string `json:"vc_file_names"`
}

func defaultGPTSetting() gptSetting {
	return gptSetting{Version: gptVersions[0], DataType: gptDataTypeText}
}

func (server *Server) ShowAdminGPT(c *fiber.Ctx) error {
	outcome := server.call(c, adminLoginPath, apiclient.Get("api/gpt/gpt_setting", nil))
	if !outcome.OK() {
		return server.respondFailure(c, outcome)
	}

	// The upstream answers null until the first save.
	var current *gptSetting
	if outcome.Kind == apiclient.KindSuccess {
		if err := outcome.Decode(&current); err != nil {
			return server.respondFailure(c, apiclient.Outcome{Kind: apiclient.KindParseFailure, Status: outcome.Status, Err: err})
		}
	}
	setting := defaultGPTSetting()
	if current != nil {
		setting = *current
		if setting.DataType != gptDataTypeFile {
			setting.DataType = gptDataTypeText
		}
	}

	flash := server.popFlash(c)
	messages := currentMessages(c)
	data := fiber.Map{
		"Title":    translateMessage(messages, "gpt.title"),
		"Setting":  setting,
		"Versions": gptVersions,
	}
	if flash.Error != "" {
		data["ErrorMessage"] = translateMessage(messages, flash.Error)
	}
	if flash.Success != "" {
		data["SuccessMessage"] = translateMessage(messages, flash.Success)
	}
	return server.render(c, "admin_gpt", data)
}

type gptSettingInput struct {
	SettingID    string `form:"gpt_setting_id"`
	Version      string `form:"version"`
	Instruction  string `form:"instruction"`
	DataType     string `form:"data_type"`
	LearningText string `form:"learning_text"`
	FallBackType string `form:"fall_back_type"`
	FallBackText string `form:"fall_back_text"`
}

// SaveAdminGPT relays the settings form upstream as multipart, including the
// learning files when the data source is files.
func (server *Server) SaveAdminGPT(c *fiber.Ctx) error {
	input := gptSettingInput{}
	if err := c.BodyParser(&input); err != nil {
		return server.respondGPTError(c, fiber.StatusBadRequest, "common.error.generic")
	}
	input.Version = strings.TrimSpace(input.Version)
	if !slices.Contains(gptVersions, input.Version) {
		return server.respondGPTError(c, fiber.StatusBadRequest, "gpt.error.version_required")
	}
	dataType := oneOf(input.DataType, []string{gptDataTypeText, gptDataTypeFile})

	form := apiclient.NewMultipartForm()
	if id, err := strconv.ParseInt(strings.TrimSpace(input.SettingID), 10, 64); err == nil && id > 0 {
		form.AddField("gpt_setting_id", strconv.FormatInt(id, 10))
	}
	form.AddField("version", input.Version)
	form.AddField("instruction", strings.TrimSpace(input.Instruction))
	form.AddField("data_type", dataType)
	form.AddField("learning_text", strings.TrimSpace(input.LearningText))
	form.AddField("fall_back_type", strconv.FormatBool(parseBoolValue(input.FallBackType)))
	form.AddField("fall_back_text", strings.TrimSpace(input.FallBackText))

	if dataType == gptDataTypeFile {
		if err := attachUploadedFiles(c, form); err != nil {
			server.logger.Warn("read uploaded gpt files", zap.Error(err))
			return server.respondGPTError(c, fiber.StatusBadRequest, "common.error.generic")
		}
	}

	outcome := server.call(c, adminLoginPath, apiclient.Request{
		Method:   fiber.MethodPost,
		Path:     "api/gpt/gpt_setting/save",
		Form:     form,
		Response: apiclient.ResponseRaw,
	})
	if outcome.Kind == apiclient.KindRefreshFailed {
		return server.respondFailure(c, outcome)
	}
	if !outcome.OK() {
		server.logger.Warn("save gpt setting failed", zap.Stringer("kind", outcome.Kind), zap.Int("status", outcome.Status))
		if acceptsJSON(c) || isHTMX(c) {
			return server.respondFailure(c, outcome)
		}
		server.setFlash(c, flashPayload{Error: outcomeMessageKey(outcome)})
		return c.Redirect(gptPath, fiber.StatusSeeOther)
	}

	if isHTMX(c) {
		return renderStatusFragment(c, fiber.StatusOK, "status-ok", translateMessage(currentMessages(c), "gpt.saved"))
	}
	if acceptsJSON(c) {
		return c.JSON(fiber.Map{"ok": true})
	}
	server.setFlash(c, flashPayload{Success: "gpt.saved"})
	return c.Redirect(gptPath, fiber.StatusSeeOther)
}

func attachUploadedFiles(c *fiber.Ctx, form *apiclient.MultipartForm) error {
	multipartForm, err := c.MultipartForm()
	if err != nil {
		// A urlencoded submission carries no files.
		return nil
	}
	files := multipartForm.File["files"]
	if len(files) > maxGPTFiles {
		return fmt.Errorf("too many files: %d", len(files))
	}
	for _, header := range files {
		content, err := readUploadedFile(header)
		if err != nil {
			return err
		}
		form.AddFile("files", header.Filename, content)
	}
	return nil
}

func readUploadedFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", header.Filename, err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", header.Filename, err)
	}
	return content, nil
}

func parseBoolValue(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

func (server *Server) respondGPTError(c *fiber.Ctx, status int, key string) error {
	if acceptsJSON(c) || isHTMX(c) {
		return apiError(c, status, translateMessage(currentMessages(c), key))
	}
	server.setFlash(c, flashPayload{Error: key})
	return c.Redirect(gptPath, fiber.StatusSeeOther)
}
