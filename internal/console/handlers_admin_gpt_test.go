package console

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminGPTRendersDefaultsWhenNothingSaved(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/gpt/gpt_setting", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, "null")
	})
	app := newTestApp(t, mux)

	response, body := doRequest(t, app, withCookies(httptest.NewRequest(http.MethodGet, "/admin/gpt?lang=en", nil), adminCookies(t)))

	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Contains(t, body, `<option value="gpt-4o-mini" selected>`)
	assert.Contains(t, body, `value="text" checked`)
	assert.Contains(t, body, `value="false" checked`)
	assert.NotContains(t, body, `name="gpt_setting_id"`)
}

func TestAdminGPTRendersSavedSetting(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/gpt/gpt_setting", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":4,"version":"gpt-5","instruction":"be kind","data_type":"file","learning_text":"","fall_back_type":true,"fall_back_text":"sorry","vc_file_names":["guide.pdf"]}`)
	})
	app := newTestApp(t, mux)

	_, body := doRequest(t, app, withCookies(httptest.NewRequest(http.MethodGet, "/admin/gpt?lang=en", nil), adminCookies(t)))

	assert.Contains(t, body, `name="gpt_setting_id" value="4"`)
	assert.Contains(t, body, `<option value="gpt-5" selected>`)
	assert.Contains(t, body, `value="file" checked`)
	assert.Contains(t, body, `value="true" checked`)
	assert.Contains(t, body, "be kind")
	assert.Contains(t, body, "<li>guide.pdf</li>")
}

type savedGPTForm struct {
	mu     sync.Mutex
	fields map[string]string
	files  map[string]string
}

func (saved *savedGPTForm) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		saved.mu.Lock()
		defer saved.mu.Unlock()
		saved.fields = map[string]string{}
		for name, values := range r.MultipartForm.Value {
			saved.fields[name] = values[0]
		}
		saved.files = map[string]string{}
		for _, header := range r.MultipartForm.File["files"] {
			file, err := header.Open()
			if !assert.NoError(t, err) {
				continue
			}
			content, _ := io.ReadAll(file)
			_ = file.Close()
			saved.files[header.Filename] = string(content)
		}
		writeJSON(w, http.StatusOK, `"gpt setting saved successfully"`)
	}
}

func gptMultipart(t *testing.T, token string, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("csrf_token", token))
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestAdminGPTSaveRelaysMultipartWithFiles(t *testing.T) {
	t.Parallel()

	saved := &savedGPTForm{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/gpt/gpt_setting/save", saved.handler(t))
	app := newTestApp(t, mux)
	token := fetchCSRF(t, app)

	body, contentType := gptMultipart(t, token, map[string]string{
		"gpt_setting_id": "4",
		"version":        "gpt-5 mini",
		"instruction":    " answer briefly ",
		"data_type":      "file",
		"fall_back_type": "true",
		"fall_back_text": "sorry",
	}, map[string]string{"guide.txt": "hello"})

	request := httptest.NewRequest(http.MethodPost, "/admin/gpt", body)
	request.Header.Set("Content-Type", contentType)
	request.Header.Set("Cookie", adminCookies(t)+"; "+csrfCookieName+"="+token)
	response, _ := doRequest(t, app, request)

	assert.Equal(t, http.StatusSeeOther, response.StatusCode)
	assert.Equal(t, gptPath, response.Header.Get("Location"))
	require.NotNil(t, responseCookie(response, flashCookieName))

	saved.mu.Lock()
	defer saved.mu.Unlock()
	assert.Equal(t, "4", saved.fields["gpt_setting_id"])
	assert.Equal(t, "gpt-5 mini", saved.fields["version"])
	assert.Equal(t, "answer briefly", saved.fields["instruction"])
	assert.Equal(t, "file", saved.fields["data_type"])
	assert.Equal(t, "true", saved.fields["fall_back_type"])
	assert.Equal(t, "sorry", saved.fields["fall_back_text"])
	assert.Equal(t, map[string]string{"guide.txt": "hello"}, saved.files)
}

func TestAdminGPTSaveTextDropsFiles(t *testing.T) {
	t.Parallel()

	saved := &savedGPTForm{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/gpt/gpt_setting/save", saved.handler(t))
	app := newTestApp(t, mux)
	token := fetchCSRF(t, app)

	body, contentType := gptMultipart(t, token, map[string]string{
		"version":       "gpt-4o",
		"data_type":     "text",
		"learning_text": "faq",
	}, map[string]string{"ignored.txt": "x"})

	request := httptest.NewRequest(http.MethodPost, "/admin/gpt?lang=en", body)
	request.Header.Set("Content-Type", contentType)
	request.Header.Set("Cookie", adminCookies(t)+"; "+csrfCookieName+"="+token)
	request.Header.Set("HX-Request", "true")
	response, responseBody := doRequest(t, app, request)

	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Contains(t, responseBody, "Saved.")

	saved.mu.Lock()
	defer saved.mu.Unlock()
	assert.Equal(t, "false", saved.fields["fall_back_type"])
	_, hasID := saved.fields["gpt_setting_id"]
	assert.False(t, hasID)
	assert.Empty(t, saved.files)
}

func TestAdminGPTSaveRejectsUnknownVersion(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	token := fetchCSRF(t, app)

	request := postForm("/admin/gpt?lang=en", "version=gpt-2&data_type=text", token, adminCookies(t))
	request.Header.Set("Accept", "application/json")
	response, body := doRequest(t, app, request)

	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	assert.Contains(t, body, "Select a GPT version.")
	assert.Zero(t, calls.Load())
}
