package console

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/miuconsole/internal/apiclient"
)

func TestSanitizeRedirectPath(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                     "/fallback",
		"/admin/users?page=2":  "/admin/users?page=2",
		"//evil.example":       "/fallback",
		"https://evil.example": "/fallback",
		"admin/users":          "/fallback",
	}
	for raw, want := range cases {
		assert.Equal(t, want, sanitizeRedirectPath(raw, "/fallback"), raw)
	}
}

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()

	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	assert.Equal(t, "2024.03.02", formatTimestamp("2024-03-01T20:00:00Z", seoul))
	assert.Equal(t, "2024.03.01", formatTimestamp("2024-03-01T20:00:00", seoul))
	assert.Equal(t, "2024.03.01", formatTimestamp("2024-03-01", seoul))
	assert.Equal(t, "", formatTimestamp("  ", seoul))
	assert.Equal(t, "yesterday", formatTimestamp("yesterday", seoul))
}

func TestRecordingJarKeepsLatestCookiePerName(t *testing.T) {
	t.Parallel()

	inner, err := apiclient.NewJar()
	require.NoError(t, err)
	jar := &recordingJar{inner: inner}
	target, err := url.Parse("http://127.0.0.1:8081/")
	require.NoError(t, err)

	jar.SetCookies(target, []*http.Cookie{{Name: "access_token", Value: "a1"}, {Name: "user_info", Value: "u"}})
	jar.SetCookies(target, []*http.Cookie{{Name: "access_token", Value: "a2"}})

	changes := jar.changes()
	require.Len(t, changes, 2)
	assert.Equal(t, "access_token", changes[0].Name)
	assert.Equal(t, "a2", changes[0].Value)
	assert.Equal(t, "user_info", changes[1].Name)
	assert.Len(t, jar.Cookies(target), 2)
}

func TestIsRelayedCookie(t *testing.T) {
	t.Parallel()

	assert.True(t, isRelayedCookie("refresh_token"))
	assert.False(t, isRelayedCookie("session"))
}

func TestTemplateDictRejectsOddArguments(t *testing.T) {
	t.Parallel()

	_, err := templateDict("only")
	assert.Error(t, err)
	values, err := templateDict("a", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, values["a"])
}
