// Package session decodes the cookies the upstream API sets for a signed-in
// visitor and exposes them as an explicit value handlers can pass around.
package session

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

const (
	IdentityCookieName      = "user_info"
	RefreshWindowCookieName = "refresh_exp"
	AccessTokenCookieName   = "access_token"
	RefreshTokenCookieName  = "refresh_token"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the payload of the identity cookie. Users carry a nickname,
// administrators do not.
type Identity struct {
	AuthType  string `json:"auth_type"`
	ID        int64  `json:"id"`
	Nickname  string `json:"user_nickname,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

func (identity Identity) IsAdmin() bool { return identity.AuthType == RoleAdmin }
func (identity Identity) IsUser() bool  { return identity.AuthType == RoleUser }

// ParseIdentity decodes a raw identity cookie value: optional surrounding
// quotes, base64, UTF-8 JSON. It reports false for anything that does not
// decode into a known role with a positive id.
func ParseIdentity(raw string) (Identity, bool) {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, `"`)
	value = strings.TrimSuffix(value, `"`)
	if value == "" {
		return Identity{}, false
	}

	decoded, ok := decodeBase64(value)
	if !ok || !utf8.Valid(decoded) {
		return Identity{}, false
	}

	var identity Identity
	if err := json.Unmarshal(decoded, &identity); err != nil {
		return Identity{}, false
	}
	identity.AuthType = strings.ToLower(strings.TrimSpace(identity.AuthType))
	if !validIdentity(identity) {
		return Identity{}, false
	}
	return identity, true
}

// EncodeIdentity produces the cookie value ParseIdentity accepts.
func EncodeIdentity(identity Identity) (string, error) {
	payload, err := json.Marshal(identity)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}

func validIdentity(identity Identity) bool {
	if identity.ID <= 0 {
		return false
	}
	return identity.AuthType == RoleUser || identity.AuthType == RoleAdmin
}

func decodeBase64(value string) ([]byte, bool) {
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	}
	for _, encoding := range encodings {
		if decoded, err := encoding.DecodeString(value); err == nil {
			return decoded, true
		}
	}
	return nil, false
}
