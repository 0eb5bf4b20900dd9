package session

import "strings"

// Context is what the console knows about the visitor from cookies alone.
type Context struct {
	Identity      Identity
	HasIdentity   bool
	RefreshWindow bool
}

// FromCookies builds a Context using lookup to read cookie values by name.
func FromCookies(lookup func(name string) string) Context {
	if lookup == nil {
		return Context{}
	}
	identity, ok := ParseIdentity(lookup(IdentityCookieName))
	return Context{
		Identity:      identity,
		HasIdentity:   ok,
		RefreshWindow: strings.TrimSpace(lookup(RefreshWindowCookieName)) != "",
	}
}

func (current Context) IsAdmin() bool { return current.HasIdentity && current.Identity.IsAdmin() }
func (current Context) IsUser() bool  { return current.HasIdentity && current.Identity.IsUser() }

// CanRefresh reports the case where the identity cookie has expired but the
// refresh token is still alive, so one refresh can restore the session.
func (current Context) CanRefresh() bool {
	return !current.HasIdentity && current.RefreshWindow
}
