package devapi

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 6 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var errInvalidToken = errors.New("invalid token")

// tokenClaims carries the account id in sub and the role in "user".
type tokenClaims struct {
	Role string `json:"user"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

func (claims tokenClaims) accountID() (uint, error) {
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidToken
	}
	return uint(id), nil
}

type windowClaims struct {
	UUID string `json:"uuid"`
	jwt.RegisteredClaims
}

func (server *Server) signToken(role string, accountID uint, tokenType string, ttl time.Duration) (string, error) {
	now := server.now()
	claims := tokenClaims{
		Role: role,
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(accountID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(server.secretKey)
}

// signWindow produces the refresh_exp value: an opaque signed marker whose
// only meaning to clients is its presence.
func (server *Server) signWindow() (string, error) {
	now := server.now()
	claims := windowClaims{
		UUID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(refreshTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(server.secretKey)
}

func (server *Server) parseToken(raw string, tokenType string) (tokenClaims, error) {
	claims := tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return server.secretKey, nil
	}, jwt.WithTimeFunc(server.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return tokenClaims{}, errInvalidToken
	}
	if claims.Type != tokenType {
		return tokenClaims{}, errInvalidToken
	}
	return claims, nil
}
