package console

import (
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/miuconsole/internal/apiclient"
	"github.com/terraincognita07/miuconsole/internal/session"
)

// upstreamCookieNames are relayed between the browser and the upstream API.
// Anything else the upstream sets stays on the server side.
var upstreamCookieNames = []string{
	session.IdentityCookieName,
	session.AccessTokenCookieName,
	session.RefreshTokenCookieName,
	session.RefreshWindowCookieName,
}

// recordingJar remembers every cookie the upstream set during one browser
// request so the changes can be written back to the browser.
type recordingJar struct {
	inner    http.CookieJar
	mu       sync.Mutex
	recorded []*http.Cookie
}

func (jar *recordingJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	jar.mu.Lock()
	jar.recorded = append(jar.recorded, cookies...)
	jar.mu.Unlock()
	jar.inner.SetCookies(u, cookies)
}

func (jar *recordingJar) Cookies(u *url.URL) []*http.Cookie {
	return jar.inner.Cookies(u)
}

func (jar *recordingJar) changes() []*http.Cookie {
	jar.mu.Lock()
	defer jar.mu.Unlock()

	latest := make(map[string]*http.Cookie, len(jar.recorded))
	order := make([]string, 0, len(jar.recorded))
	for _, cookie := range jar.recorded {
		if _, seen := latest[cookie.Name]; !seen {
			order = append(order, cookie.Name)
		}
		latest[cookie.Name] = cookie
	}

	result := make([]*http.Cookie, 0, len(order))
	for _, name := range order {
		result = append(result, latest[name])
	}
	return result
}

// upstream is the per-request view of the upstream API: a client bound to a
// jar seeded from the browser's cookies.
type upstream struct {
	client *apiclient.Client
	jar    *recordingJar
}

func (server *Server) upstreamFor(c *fiber.Ctx, fallbackPath string) (*upstream, error) {
	inner, err := apiclient.NewJar()
	if err != nil {
		return nil, err
	}

	baseURL := server.client.BaseURL()
	seed := make([]*http.Cookie, 0, len(upstreamCookieNames))
	for _, name := range upstreamCookieNames {
		if value := c.Cookies(name); value != "" {
			seed = append(seed, &http.Cookie{Name: name, Value: value, Path: "/"})
		}
	}
	inner.SetCookies(baseURL, seed)

	jar := &recordingJar{inner: inner}
	return &upstream{
		client: server.client.WithJar(jar).WithFallback(fallbackPath),
		jar:    jar,
	}, nil
}

// flush writes cookies the upstream changed back to the browser. Deleted
// upstream cookies are cleared in the browser as well.
func (bridge *upstream) flush(c *fiber.Ctx, secure bool) {
	for _, cookie := range bridge.jar.changes() {
		if !isRelayedCookie(cookie.Name) {
			continue
		}

		browserCookie := &fiber.Cookie{
			Name:     cookie.Name,
			Value:    cookie.Value,
			Path:     "/",
			HTTPOnly: cookie.HttpOnly,
			Secure:   secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		}
		switch {
		case cookie.MaxAge < 0 || cookie.Value == "" || (!cookie.Expires.IsZero() && cookie.Expires.Before(time.Now())):
			browserCookie.Value = ""
			browserCookie.Expires = time.Unix(0, 0)
			browserCookie.MaxAge = -1
		case cookie.MaxAge > 0:
			browserCookie.MaxAge = cookie.MaxAge
		case !cookie.Expires.IsZero():
			browserCookie.Expires = cookie.Expires
		default:
			browserCookie.SessionOnly = true
		}
		c.Cookie(browserCookie)
	}
}

// issued reports whether the upstream set a non-empty cookie called name.
func (bridge *upstream) issued(name string) bool {
	for _, cookie := range bridge.jar.changes() {
		if cookie.Name == name {
			return cookie.Value != "" && cookie.MaxAge >= 0
		}
	}
	return false
}

func isRelayedCookie(name string) bool {
	for _, candidate := range upstreamCookieNames {
		if candidate == name {
			return true
		}
	}
	return false
}

func clearUpstreamCookies(c *fiber.Ctx, secure bool) {
	for _, name := range upstreamCookieNames {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Secure:   secure,
			SameSite: fiber.CookieSameSiteLaxMode,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
		})
	}
}
