package console

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/miuconsole/internal/apiclient"
	"github.com/terraincognita07/miuconsole/internal/i18n"
	"github.com/terraincognita07/miuconsole/internal/session"
)

var fixedNow = time.Date(2024, time.March, 20, 10, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, upstream http.Handler) *fiber.App {
	t.Helper()

	if upstream == nil {
		upstream = http.NotFoundHandler()
	}
	backend := httptest.NewServer(upstream)
	t.Cleanup(backend.Close)

	client, err := apiclient.New(apiclient.Config{BaseURL: backend.URL + "/", RequestTimeout: 5 * time.Second})
	require.NoError(t, err)
	manager, err := i18n.NewEmbedded(i18n.LangKO)
	require.NoError(t, err)

	server, err := NewServer(Options{
		Client:   client,
		I18n:     manager,
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return server.App()
}

func identityCookie(t *testing.T, role string, id int64, nickname string) string {
	t.Helper()
	value, err := session.EncodeIdentity(session.Identity{AuthType: role, ID: id, Nickname: nickname, CreatedAt: "2024-01-02T03:04:05"})
	require.NoError(t, err)
	return session.IdentityCookieName + "=" + value
}

func adminCookies(t *testing.T) string {
	return identityCookie(t, session.RoleAdmin, 1, "") + "; access_token=valid; refresh_token=r1; refresh_exp=1"
}

// fetchCSRF performs a GET to obtain the double-submit token.
func fetchCSRF(t *testing.T, app *fiber.App) string {
	t.Helper()
	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	require.NoError(t, err)
	defer response.Body.Close()
	for _, cookie := range response.Cookies() {
		if cookie.Name == csrfCookieName {
			return cookie.Value
		}
	}
	t.Fatal("csrf cookie was not issued")
	return ""
}

func doRequest(t *testing.T, app *fiber.App, request *http.Request) (*http.Response, string) {
	t.Helper()
	response, err := app.Test(request, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	require.NoError(t, response.Body.Close())
	return response, string(body)
}

func responseCookie(response *http.Response, name string) *http.Cookie {
	for _, cookie := range response.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func postForm(path string, values string, token string, cookies string) *http.Request {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("X-CSRF-Token", token)
	request.Header.Set("Cookie", strings.TrimPrefix(cookies+"; "+csrfCookieName+"="+token, "; "))
	return request
}

func withCookies(request *http.Request, cookies string) *http.Request {
	request.Header.Set("Cookie", cookies)
	return request
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
